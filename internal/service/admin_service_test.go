package service

import (
	"errors"
	"testing"

	"github.com/vultos-swap/internal/repository"
)

func setupAdminServiceTest(t *testing.T) *AdminService {
	t.Helper()

	db := openServiceTestDB(t, "admin_service")
	return NewAdminService(repository.NewAdminRepository(db))
}

func TestAddAndremoveAdmin(t *testing.T) {
	svc := setupAdminServiceTest(t)

	admin, err := svc.AddAdmin("discord-op", "Operadora", false)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if admin.DiscordID != "discord-op" || admin.IsSuper {
		t.Fatalf("unexpected admin row: %+v", admin)
	}

	if _, err := svc.AddAdmin("discord-op", "Operadora", false); !errors.Is(err, ErrAdminExists) {
		t.Fatalf("expected ErrAdminExists, got %v", err)
	}

	checked, err := svc.CheckAdmin("discord-op")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if checked.DiscordID != "discord-op" {
		t.Fatalf("expected discord-op, got %s", checked.DiscordID)
	}

	if err := svc.RemoveAdmin("discord-op"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, err := svc.CheckAdmin("discord-op"); !errors.Is(err, ErrAdminNotFound) {
		t.Fatalf("expected ErrAdminNotFound after removal, got %v", err)
	}
	if err := svc.RemoveAdmin("discord-op"); !errors.Is(err, ErrAdminNotFound) {
		t.Fatalf("expected ErrAdminNotFound on double removal, got %v", err)
	}
}

func TestListAdmins(t *testing.T) {
	svc := setupAdminServiceTest(t)

	if _, err := svc.AddAdmin("discord-a", "A", true); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := svc.AddAdmin("discord-b", "B", false); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	admins, err := svc.ListAdmins()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(admins) != 2 {
		t.Fatalf("expected 2 admins, got %d", len(admins))
	}
}
