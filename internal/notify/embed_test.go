package notify

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/vultos-swap/internal/constants"
	"github.com/vultos-swap/internal/models"
)

func money(s string) models.Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return models.NewMoneyFromDecimal(d)
}

func TestBuildLeadCreatedEmbed(t *testing.T) {
	lead := &models.Lead{
		LeadCode:            "a1b2c3",
		AffiliateCode:       "VULT01",
		ClientName:          "cliente",
		TransactionValue:    money("1000"),
		FeePercent:          money("12"),
		AffiliateCommission: money("36"),
	}
	msg := BuildLeadCreated(lead)

	if len(msg.Embeds) != 1 {
		t.Fatalf("embeds = %d, want 1", len(msg.Embeds))
	}
	embed := msg.Embeds[0]
	if embed.Title != "Nova Lead Registrada" {
		t.Fatalf("title = %q", embed.Title)
	}
	if embed.Color != constants.EmbedColorBlue {
		t.Fatalf("color = %d", embed.Color)
	}
	if embed.Timestamp == "" {
		t.Fatal("timestamp empty")
	}

	body, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := decoded["embeds"]; !ok {
		t.Fatal("payload missing embeds key")
	}
}

func TestBuildSaleConfirmedIncludesCascade(t *testing.T) {
	lead := &models.Lead{
		LeadCode:            "a1b2c3",
		AffiliateCode:       "VULT02",
		CascadeCode:         "VULT01",
		TransactionValue:    money("2000"),
		TotalProfit:         money("200"),
		AffiliateCommission: money("80"),
		CascadeCommission:   money("20"),
	}
	msg := BuildSaleConfirmed(lead)

	embed := msg.Embeds[0]
	found := false
	for _, field := range embed.Fields {
		if field.Name == "Indicador" && field.Value == "VULT01" {
			found = true
		}
	}
	if !found {
		t.Fatal("cascade field missing from confirmed sale embed")
	}
}

func TestBuildWithdrawalStatusColors(t *testing.T) {
	req := &models.WithdrawalRequest{
		ID:            7,
		AffiliateCode: "VULT01",
		Amount:        money("300"),
		Method:        constants.WithdrawalMethodPix,
		Status:        constants.WithdrawalStatusRejected,
	}
	msg := BuildWithdrawalStatusChanged(req)
	if msg.Embeds[0].Color != constants.EmbedColorRed {
		t.Fatalf("rejected color = %d, want %d", msg.Embeds[0].Color, constants.EmbedColorRed)
	}

	req.Status = constants.WithdrawalStatusCompleted
	msg = BuildWithdrawalStatusChanged(req)
	if msg.Embeds[0].Color != constants.EmbedColorGreen {
		t.Fatalf("completed color = %d, want %d", msg.Embeds[0].Color, constants.EmbedColorGreen)
	}
}

func TestBuildCascadeCreditEmbed(t *testing.T) {
	lead := &models.Lead{
		LeadCode:          "a1b2c3",
		AffiliateCode:     "VULT02",
		CascadeCode:       "VULT01",
		TransactionValue:  money("2000"),
		TotalProfit:       money("200"),
		CascadePercent:    money("10"),
		CascadeCommission: money("20"),
	}
	msg := BuildCascadeCredit(lead)

	embed := msg.Embeds[0]
	if embed.Title != "Comissão Cascata Recebida" {
		t.Fatalf("title = %q", embed.Title)
	}
	if embed.Color != constants.EmbedColorPurple {
		t.Fatalf("color = %d, want %d", embed.Color, constants.EmbedColorPurple)
	}

	wantField := func(name, value string) {
		t.Helper()
		for _, field := range embed.Fields {
			if field.Name == name && field.Value == value {
				return
			}
		}
		t.Fatalf("field %q = %q missing", name, value)
	}
	wantField("Seu Indicado", "VULT02")
	wantField("Comissão Cascata", "10%")
}
