package handler

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mcoot/roulettegame/internal/api/request"
	"github.com/mcoot/roulettegame/internal/api/response"
	"github.com/mcoot/roulettegame/internal/display"
	"github.com/mcoot/roulettegame/internal/model"
	"github.com/mcoot/roulettegame/internal/services/participant"
	"github.com/mcoot/roulettegame/internal/services/session"
)

// ParticipantHandler handles participant registration, status and export
type ParticipantHandler struct {
	participants *participant.Service
	sessions     *session.Controller
	broadcaster  *display.Broadcaster
	logger       *slog.Logger
}

// NewParticipantHandler creates a new participant handler
func NewParticipantHandler(
	participants *participant.Service,
	sessions *session.Controller,
	broadcaster *display.Broadcaster,
	logger *slog.Logger,
) *ParticipantHandler {
	return &ParticipantHandler{
		participants: participants,
		sessions:     sessions,
		broadcaster:  broadcaster,
		logger:       logger,
	}
}

// Register handles POST /api/participants/register
func (h *ParticipantHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterParticipantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	p, err := h.participants.Register(r.Context(), participant.Registration{
		Name:      req.Name,
		Surname:   req.Surname,
		Email:     req.Email,
		Specialty: req.Specialty,
		SessionID: model.SessionID(req.SessionID),
	})
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	h.broadcaster.ParticipantUpdated(p)
	if p.SessionID != "" {
		if s, err := h.sessions.Get(r.Context(), p.SessionID); err == nil {
			h.broadcaster.SessionUpdated(s)
		}
	}

	response.JSON(w, http.StatusCreated, response.ParticipantResponse{Participant: response.ParticipantFromModel(p)})
}

// PublicUpdateStatus handles POST /api/participants/update-status
func (h *ParticipantHandler) PublicUpdateStatus(w http.ResponseWriter, r *http.Request) {
	h.updateStatus(w, r, participant.ScopePublic)
}

// AdminUpdateStatus handles POST /api/admin/sessions/update-participant-status
func (h *ParticipantHandler) AdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	h.updateStatus(w, r, participant.ScopePrivileged)
}

func (h *ParticipantHandler) updateStatus(w http.ResponseWriter, r *http.Request, scope participant.Scope) {
	var req request.UpdateParticipantStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	p, err := h.participants.UpdateStatus(
		r.Context(),
		model.ParticipantID(req.ParticipantID),
		model.ParticipantStatus(req.Status),
		scope,
	)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	h.broadcaster.ParticipantUpdated(p)
	response.JSON(w, http.StatusOK, response.ParticipantResponse{Participant: response.ParticipantFromModel(p)})
}

// List handles GET /api/admin/participants?sessionId=
func (h *ParticipantHandler) List(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(r.URL.Query().Get("sessionId"))

	participants, err := h.participants.List(r.Context(), sessionID)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ParticipantListResponse{
		Participants: response.ParticipantsFromModels(participants),
	})
}

// Export handles GET /api/admin/participants/export?sessionId=
func (h *ParticipantHandler) Export(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(r.URL.Query().Get("sessionId"))

	// Buffer so a storage failure can still become a JSON error
	var buf bytes.Buffer
	count, err := h.participants.ExportCSV(r.Context(), &buf, sessionID)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	filename := "participants.csv"
	if sessionID != "" {
		filename = fmt.Sprintf("participants-%s.csv", sessionID)
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)

	h.logger.Info("participants exported", slog.Int("count", count), slog.String("session_id", string(sessionID)))
}
