package response

import (
	"time"

	"github.com/mcoot/roulettegame/internal/model"
	"github.com/mcoot/roulettegame/internal/services/queue"
)

// Admin represents an admin in API responses
type Admin struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AdminFromModel converts a model.Admin, leaving out the password hash
func AdminFromModel(a *model.Admin) Admin {
	return Admin{
		ID:    string(a.ID),
		Email: a.Email,
		Name:  a.Name,
	}
}

// Session is a session row
type Session struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	AdminID      string    `json:"admin_id"`
	Status       string    `json:"status"`
	WaitingQueue []string  `json:"waiting_queue"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SessionFromModel converts a model.Session
func SessionFromModel(s *model.Session) Session {
	return Session{
		ID:           s.ID,
		SessionID:    string(s.SessionID),
		AdminID:      string(s.AdminID),
		Status:       string(s.Status),
		WaitingQueue: participantIDs(s.WaitingQueue),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// SessionsFromModels converts a list of sessions
func SessionsFromModels(sessions []*model.Session) []Session {
	out := make([]Session, len(sessions))
	for i, s := range sessions {
		out[i] = SessionFromModel(s)
	}
	return out
}

// Play is a play row
type Play struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	AdminID   string    `json:"admin_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlayFromModel converts a model.Play
func PlayFromModel(p *model.Play) *Play {
	if p == nil {
		return nil
	}
	return &Play{
		ID:        p.ID,
		SessionID: string(p.SessionID),
		AdminID:   string(p.AdminID),
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// Participant is a participant row
type Participant struct {
	ID               string     `json:"id"`
	SessionID        string     `json:"session_id,omitempty"`
	Name             string     `json:"name"`
	Surname          string     `json:"surname"`
	Email            string     `json:"email"`
	Specialty        string     `json:"specialty"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	StartedPlayingAt *time.Time `json:"started_playing_at"`
	CompletedAt      *time.Time `json:"completed_at"`
}

// ParticipantFromModel converts a model.Participant
func ParticipantFromModel(p *model.Participant) Participant {
	return Participant{
		ID:               string(p.ID),
		SessionID:        string(p.SessionID),
		Name:             p.Name,
		Surname:          p.Surname,
		Email:            p.Email,
		Specialty:        p.Specialty,
		Status:           string(p.Status),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
		StartedPlayingAt: p.StartedPlayingAt,
		CompletedAt:      p.CompletedAt,
	}
}

// ParticipantsFromModels converts a list of participants
func ParticipantsFromModels(participants []*model.Participant) []Participant {
	out := make([]Participant, len(participants))
	for i, p := range participants {
		out[i] = ParticipantFromModel(p)
	}
	return out
}

func participantIDs(ids []model.ParticipantID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

// LoginResponse is the response for admin login
type LoginResponse struct {
	Admin Admin `json:"admin"`
}

// MessageResponse carries a human-readable confirmation
type MessageResponse struct {
	Message string `json:"message"`
}

// ActiveSessionResponse is the response for the active session endpoints
type ActiveSessionResponse struct {
	Session          *Session `json:"session"`
	HasActiveSession bool     `json:"hasActiveSession"`
}

// ActiveSessionFromModel builds the response, with a null session when there
// is no active session
func ActiveSessionFromModel(s *model.Session) ActiveSessionResponse {
	if s == nil {
		return ActiveSessionResponse{}
	}
	session := SessionFromModel(s)
	return ActiveSessionResponse{Session: &session, HasActiveSession: true}
}

// SessionListResponse is the response for listing sessions
type SessionListResponse struct {
	Sessions []Session `json:"sessions"`
}

// CreateSessionResponse is the response for creating a session
type CreateSessionResponse struct {
	SessionID      string  `json:"sessionId"`
	Session        Session `json:"session"`
	SessionDetails *Play   `json:"sessionDetails"`
}

// SessionResponse wraps a single session
type SessionResponse struct {
	Session Session `json:"session"`
}

// QueueResponse is the reconciled waiting queue of a session
type QueueResponse struct {
	SessionID    string        `json:"sessionId"`
	WaitingQueue []string      `json:"waitingQueue"`
	Participants []Participant `json:"participants"`
}

// QueueFromView converts a reconciled queue
func QueueFromView(v *queue.View) QueueResponse {
	return QueueResponse{
		SessionID:    string(v.SessionID),
		WaitingQueue: participantIDs(v.WaitingQueue),
		Participants: ParticipantsFromModels(v.Participants),
	}
}

// ParticipantResponse wraps a single participant
type ParticipantResponse struct {
	Participant Participant `json:"participant"`
}

// ParticipantListResponse is the response for listing participants
type ParticipantListResponse struct {
	Participants []Participant `json:"participants"`
}

// HealthResponse is the response for the health check
type HealthResponse struct {
	Status string `json:"status"`
}
