package model

import "time"

// SessionID is the external, human-visible identifier of a session
type SessionID string

// SessionStatus represents the lifecycle phase of a session
type SessionStatus string

const (
	SessionStatusPendingPlayerRegistration SessionStatus = "pending_player_registration"
	SessionStatusPlayerRegistered          SessionStatus = "player_registered"
	SessionStatusInProgress                SessionStatus = "in_progress"
	SessionStatusCompleted                 SessionStatus = "completed"

	// Terminal states reachable from any non-terminal state via close
	SessionStatusArchived SessionStatus = "archived"
	SessionStatusClosed   SessionStatus = "closed"
)

// sessionFlow is the main line of the lifecycle, in order
var sessionFlow = []SessionStatus{
	SessionStatusPendingPlayerRegistration,
	SessionStatusPlayerRegistered,
	SessionStatusInProgress,
	SessionStatusCompleted,
}

// IsValid returns true if s is a known session status
func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionStatusPendingPlayerRegistration, SessionStatusPlayerRegistered,
		SessionStatusInProgress, SessionStatusCompleted,
		SessionStatusArchived, SessionStatusClosed:
		return true
	}
	return false
}

// IsActive returns true for any status not in {completed, archived, closed}
func (s SessionStatus) IsActive() bool {
	return s.IsValid() && s != SessionStatusCompleted && s != SessionStatusArchived && s != SessionStatusClosed
}

// Next returns the following status on the main line, or "" if there is none
func (s SessionStatus) Next() SessionStatus {
	for i, status := range sessionFlow {
		if status == s && i+1 < len(sessionFlow) {
			return sessionFlow[i+1]
		}
	}
	return ""
}

// Session is a single instance of the game tied to one admin and one queue
type Session struct {
	ID           string // internal unique id (UUID)
	SessionID    SessionID
	AdminID      AdminID
	Status       SessionStatus
	WaitingQueue []ParticipantID // authoritative queue order
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive returns true if the session has not reached a terminal state
func (s *Session) IsActive() bool {
	return s.Status.IsActive()
}

// Play is the secondary record kept 1:1 with a session for older consumers
type Play struct {
	ID        string
	SessionID SessionID
	AdminID   AdminID
	Status    SessionStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
