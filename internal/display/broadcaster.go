package display

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mcoot/roulettegame/internal/model"
)

// Event names sent to displays
const (
	EventSessionUpdated     = "session-updated"
	EventQueueUpdated       = "queue-updated"
	EventParticipantUpdated = "participant-updated"
)

// SessionEvent is the payload of a session-updated event
type SessionEvent struct {
	SessionID string    `json:"sessionId"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// QueueEvent is the payload of a queue-updated event
type QueueEvent struct {
	SessionID    string   `json:"sessionId"`
	WaitingQueue []string `json:"waitingQueue"`
}

// ParticipantEvent is the payload of a participant-updated event
type ParticipantEvent struct {
	ParticipantID string `json:"participantId"`
	SessionID     string `json:"sessionId,omitempty"`
	Name          string `json:"name"`
	Surname       string `json:"surname"`
	Status        string `json:"status"`
}

// Broadcaster turns domain changes into display events
type Broadcaster struct {
	hub    *Hub
	logger *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hub:    hub,
		logger: logger.With(slog.String("component", "display-broadcaster")),
	}
}

// SessionUpdated announces a session's new status
func (b *Broadcaster) SessionUpdated(session *model.Session) {
	b.publish(EventSessionUpdated, SessionEvent{
		SessionID: string(session.SessionID),
		Status:    string(session.Status),
		UpdatedAt: session.UpdatedAt,
	})
}

// QueueUpdated announces a session's reconciled waiting queue
func (b *Broadcaster) QueueUpdated(sessionID model.SessionID, queue []model.ParticipantID) {
	ids := make([]string, len(queue))
	for i, id := range queue {
		ids[i] = string(id)
	}
	b.publish(EventQueueUpdated, QueueEvent{
		SessionID:    string(sessionID),
		WaitingQueue: ids,
	})
}

// ParticipantUpdated announces a participant's new status
func (b *Broadcaster) ParticipantUpdated(p *model.Participant) {
	b.publish(EventParticipantUpdated, ParticipantEvent{
		ParticipantID: string(p.ID),
		SessionID:     string(p.SessionID),
		Name:          p.Name,
		Surname:       p.Surname,
		Status:        string(p.Status),
	})
}

func (b *Broadcaster) publish(eventName string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		b.logger.Error("failed to encode display event",
			slog.String("event", eventName),
			slog.Any("error", err))
		return
	}
	b.hub.Publish(eventName, string(data))
}
