package participant

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/mcoot/roulettegame/internal/dependencies/clock"
	"github.com/mcoot/roulettegame/internal/dependencies/random"
	"github.com/mcoot/roulettegame/internal/model"
	"github.com/mcoot/roulettegame/internal/services/session"
	"github.com/mcoot/roulettegame/internal/storage"
)

// Scope identifies who is changing a participant's status
type Scope int

const (
	// ScopePrivileged is an authenticated admin
	ScopePrivileged Scope = iota
	// ScopePublic is the game screen, which only starts and finishes turns
	ScopePublic
)

// Allows reports whether callers in this scope may set the given status
func (sc Scope) Allows(status model.ParticipantStatus) bool {
	switch sc {
	case ScopePrivileged:
		return status.IsValid()
	case ScopePublic:
		return status == model.ParticipantStatusPlaying || status == model.ParticipantStatusCompleted
	}
	return false
}

// Registration holds the details submitted by a new participant
type Registration struct {
	Name      string
	Surname   string
	Email     string
	Specialty string
	SessionID model.SessionID
}

// Service manages participant registration, status and export
type Service struct {
	storage  storage.Storage
	sessions *session.Controller
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger
}

// New creates a new participant Service
func New(
	storage storage.Storage,
	sessions *session.Controller,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:  storage,
		sessions: sessions,
		clock:    clock,
		random:   random,
		logger:   logger,
	}
}

// Register creates a participant. When a session is given it must be active,
// and a session still waiting for players moves on to player_registered.
func (s *Service) Register(ctx context.Context, reg Registration) (*model.Participant, error) {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Surname = strings.TrimSpace(reg.Surname)
	reg.Email = strings.TrimSpace(reg.Email)
	reg.Specialty = strings.TrimSpace(reg.Specialty)

	if err := validate(reg); err != nil {
		return nil, err
	}

	var sess *model.Session
	if reg.SessionID != "" {
		var err error
		sess, err = s.sessions.RequireActive(ctx, reg.SessionID)
		if err != nil {
			return nil, err
		}
	}

	now := s.clock.Now()
	participant := &model.Participant{
		ID:        model.ParticipantID(s.random.UUID()),
		SessionID: reg.SessionID,
		Name:      reg.Name,
		Surname:   reg.Surname,
		Email:     reg.Email,
		Specialty: reg.Specialty,
		Status:    model.ParticipantStatusRegistered,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.storage.SaveParticipant(ctx, participant); err != nil {
		return nil, err
	}

	if sess != nil {
		if _, err := s.sessions.NoteParticipantRegistered(ctx, sess); err != nil {
			s.logger.Warn("failed to mark session as player registered",
				"session_id", sess.SessionID,
				"error", err,
			)
		}
	}

	s.logger.Info("participant registered", "participant_id", participant.ID, "session_id", reg.SessionID)
	return participant, nil
}

func validate(reg Registration) error {
	switch {
	case reg.Name == "":
		return fmt.Errorf("%w: name is required", model.ErrInvalidParticipant)
	case reg.Surname == "":
		return fmt.Errorf("%w: surname is required", model.ErrInvalidParticipant)
	case reg.Email == "":
		return fmt.Errorf("%w: email is required", model.ErrInvalidParticipant)
	}
	addr, err := mail.ParseAddress(reg.Email)
	if err != nil || addr.Address != reg.Email {
		return fmt.Errorf("%w: email is not a valid address", model.ErrInvalidParticipant)
	}
	return nil
}

// Get retrieves a participant by id
func (s *Service) Get(ctx context.Context, id model.ParticipantID) (*model.Participant, error) {
	return s.storage.GetParticipant(ctx, id)
}

// UpdateStatus sets a participant's status if the caller's scope allows it.
// Moving to playing stamps the start time and moving to completed stamps the
// completion time. The current status is not checked.
func (s *Service) UpdateStatus(
	ctx context.Context,
	id model.ParticipantID,
	status model.ParticipantStatus,
	scope Scope,
) (*model.Participant, error) {
	if id == "" {
		return nil, model.ErrParticipantIDRequired
	}
	if !status.IsValid() {
		return nil, model.ErrInvalidParticipantStatus
	}
	if !scope.Allows(status) {
		return nil, model.ErrStatusNotAllowed
	}

	participant, err := s.storage.GetParticipant(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	participant.Status = status
	participant.UpdatedAt = now
	switch status {
	case model.ParticipantStatusPlaying:
		participant.StartedPlayingAt = &now
	case model.ParticipantStatusCompleted:
		participant.CompletedAt = &now
	}

	if err := s.storage.SaveParticipant(ctx, participant); err != nil {
		return nil, err
	}

	s.logger.Info("participant status updated", "participant_id", id, "status", status)
	return participant, nil
}

// List returns participants oldest first, optionally limited to one session
func (s *Service) List(ctx context.Context, sessionID model.SessionID) ([]*model.Participant, error) {
	return s.storage.ListParticipants(ctx, sessionID)
}
