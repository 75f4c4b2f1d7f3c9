package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/roulettegame/internal/api/request"
	"github.com/mcoot/roulettegame/internal/api/response"
	"github.com/mcoot/roulettegame/internal/services/auth"
)

// AdminHandler handles admin login and logout
type AdminHandler struct {
	authService *auth.Service
	logger      *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(authService *auth.Service, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login handles POST /api/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	admin, token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	h.authService.SetTokenCookie(w, token)
	h.logger.Info("admin logged in", slog.String("admin_id", string(admin.ID)))
	response.JSON(w, http.StatusOK, response.LoginResponse{Admin: response.AdminFromModel(admin)})
}

// Logout handles POST /api/admin/logout
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearTokenCookie(w)
	response.JSON(w, http.StatusOK, response.MessageResponse{Message: "Logged out"})
}
