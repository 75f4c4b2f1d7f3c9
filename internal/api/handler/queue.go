package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mcoot/roulettegame/internal/api/middleware"
	"github.com/mcoot/roulettegame/internal/api/request"
	"github.com/mcoot/roulettegame/internal/api/response"
	"github.com/mcoot/roulettegame/internal/display"
	"github.com/mcoot/roulettegame/internal/model"
	"github.com/mcoot/roulettegame/internal/services/queue"
)

// QueueHandler handles the waiting queue endpoints
type QueueHandler struct {
	queues      *queue.Service
	broadcaster *display.Broadcaster
	logger      *slog.Logger
}

// NewQueueHandler creates a new queue handler
func NewQueueHandler(queues *queue.Service, broadcaster *display.Broadcaster, logger *slog.Logger) *QueueHandler {
	return &QueueHandler{
		queues:      queues,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Get handles GET /api/admin/sessions/queue?sessionId=
func (h *QueueHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(r.URL.Query().Get("sessionId"))

	if admin := middleware.GetAdmin(r.Context()); admin == nil {
		h.logger.Debug("unauthenticated queue read", slog.String("session_id", string(sessionID)))
	}

	view, err := h.queues.GetQueue(r.Context(), sessionID)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.QueueFromView(view))
}

// Save handles POST /api/admin/sessions/queue
func (h *QueueHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req request.SaveQueueRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	if req.SessionID == "" {
		writeError(h.logger, w, r, model.ErrSessionIDRequired)
		return
	}

	ids, err := parseQueue(req.WaitingQueue)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	view, err := h.queues.SaveQueue(r.Context(), model.SessionID(req.SessionID), ids)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	h.broadcaster.QueueUpdated(view.SessionID, view.WaitingQueue)
	response.JSON(w, http.StatusOK, response.QueueFromView(view))
}

// parseQueue accepts only a JSON array of strings
func parseQueue(raw json.RawMessage) ([]model.ParticipantID, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, model.ErrInvalidQueue
	}

	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, model.ErrInvalidQueue
	}

	ids := make([]model.ParticipantID, len(values))
	for i, v := range values {
		ids[i] = model.ParticipantID(v)
	}
	return ids, nil
}
