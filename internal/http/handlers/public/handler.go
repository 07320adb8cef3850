package public

import "github.com/vultos-swap/internal/provider"

// Handler serves the affiliate-facing and unauthenticated API.
type Handler struct {
	*provider.Container
}

// New creates the public handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
