package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/roulettegame/internal/api/apierr"
	"github.com/mcoot/roulettegame/internal/api/middleware"
	"github.com/mcoot/roulettegame/internal/api/request"
	"github.com/mcoot/roulettegame/internal/api/response"
	"github.com/mcoot/roulettegame/internal/display"
	"github.com/mcoot/roulettegame/internal/model"
	"github.com/mcoot/roulettegame/internal/services/session"
)

// SessionHandler handles the session lifecycle endpoints
type SessionHandler struct {
	sessions    *session.Controller
	broadcaster *display.Broadcaster
	logger      *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *session.Controller, broadcaster *display.Broadcaster, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessions:    sessions,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Create handles POST /api/admin/sessions/create
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	admin := middleware.MustGetAdmin(r.Context())

	created, err := h.sessions.Create(r.Context(), admin.ID)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	var play *model.Play
	if plays, err := h.sessions.Plays(r.Context(), created.SessionID); err == nil && len(plays) > 0 {
		play = plays[0]
	}

	h.broadcaster.SessionUpdated(created)
	response.JSON(w, http.StatusCreated, response.CreateSessionResponse{
		SessionID:      string(created.SessionID),
		Session:        response.SessionFromModel(created),
		SessionDetails: response.PlayFromModel(play),
	})
}

// List handles GET /api/admin/sessions/list
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	admin := middleware.MustGetAdmin(r.Context())

	sessions, err := h.sessions.List(r.Context(), admin.ID)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionListResponse{Sessions: response.SessionsFromModels(sessions)})
}

// Active handles GET /api/admin/sessions/active
func (h *SessionHandler) Active(w http.ResponseWriter, r *http.Request) {
	admin := middleware.MustGetAdmin(r.Context())

	active, err := h.sessions.GetActive(r.Context(), admin.ID)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ActiveSessionFromModel(active))
}

// PublicActive handles GET /api/sessions/active
func (h *SessionHandler) PublicActive(w http.ResponseWriter, r *http.Request) {
	active, err := h.sessions.GetActivePublic(r.Context())
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ActiveSessionFromModel(active))
}

// Get handles GET /api/admin/sessions/{sessionId}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(mux.Vars(r)["sessionId"])

	s, err := h.sessions.Get(r.Context(), sessionID)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionResponse{Session: response.SessionFromModel(s)})
}

// Close handles POST /api/admin/sessions/close
func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	var req request.CloseSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	if req.SessionID == "" {
		writeError(h.logger, w, r, model.ErrSessionIDRequired)
		return
	}

	closed, err := h.sessions.Close(r.Context(), model.SessionID(req.SessionID))
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	h.broadcaster.SessionUpdated(closed)
	response.JSON(w, http.StatusOK, response.SessionResponse{Session: response.SessionFromModel(closed)})
}

// UpdateStatus handles POST /api/admin/sessions/update-status
func (h *SessionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateSessionStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	if req.SessionID == "" {
		writeError(h.logger, w, r, model.ErrSessionIDRequired)
		return
	}
	if req.Status == "" {
		writeError(h.logger, w, r, apierr.NewBadRequestError("status is required"))
		return
	}

	updated, err := h.sessions.AdvanceStatus(r.Context(), model.SessionID(req.SessionID), model.SessionStatus(req.Status))
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	h.broadcaster.SessionUpdated(updated)
	response.JSON(w, http.StatusOK, response.SessionResponse{Session: response.SessionFromModel(updated)})
}
