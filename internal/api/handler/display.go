package handler

import (
	"net/http"

	"github.com/mcoot/roulettegame/internal/display"
)

// DisplayHandler streams live updates to TV displays
type DisplayHandler struct {
	hub *display.Hub
}

// NewDisplayHandler creates a new display handler
func NewDisplayHandler(hub *display.Hub) *DisplayHandler {
	return &DisplayHandler{hub: hub}
}

// Events handles GET /api/sessions/events
func (h *DisplayHandler) Events(w http.ResponseWriter, r *http.Request) {
	display.ServeSSE(w, r, h.hub)
}
