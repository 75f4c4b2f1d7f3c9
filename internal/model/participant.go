package model

import "time"

// ParticipantID uniquely identifies a participant
type ParticipantID string

// ParticipantStatus tracks a participant's progress through the game
type ParticipantStatus string

const (
	ParticipantStatusRegistered   ParticipantStatus = "registered"
	ParticipantStatusPlaying      ParticipantStatus = "playing"
	ParticipantStatusCompleted    ParticipantStatus = "completed"
	ParticipantStatusDisqualified ParticipantStatus = "disqualified"
)

// IsValid returns true if s is a known participant status
func (s ParticipantStatus) IsValid() bool {
	switch s {
	case ParticipantStatusRegistered, ParticipantStatusPlaying,
		ParticipantStatusCompleted, ParticipantStatusDisqualified:
		return true
	}
	return false
}

// IsLive returns true if a participant with this status can still be queued
func (s ParticipantStatus) IsLive() bool {
	return s != ParticipantStatusCompleted && s != ParticipantStatusDisqualified
}

// Participant is a registered player of the roulette game
type Participant struct {
	ID        ParticipantID
	SessionID SessionID // empty if registered outside a session
	Name      string
	Surname   string
	Email     string
	Specialty string
	Status    ParticipantStatus

	CreatedAt        time.Time
	UpdatedAt        time.Time
	StartedPlayingAt *time.Time
	CompletedAt      *time.Time
}
