package admin

import "github.com/vultos-swap/internal/provider"

// Handler serves the staff API.
type Handler struct {
	*provider.Container
}

// New creates the admin handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
