package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mcoot/roulettegame/internal/dependencies/clock"
	"github.com/mcoot/roulettegame/internal/dependencies/random"
	"github.com/mcoot/roulettegame/internal/model"
	"github.com/mcoot/roulettegame/internal/storage"
)

const (
	// SessionIDPrefix starts every external session id
	SessionIDPrefix = "session_"
	// SessionIDSuffixLength is the length of the random part of a session id
	SessionIDSuffixLength = 9
	// SessionIDAlphabet is the characters used in the random part of a session id
	SessionIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

	maxSessionIDAttempts = 10
)

// Controller drives sessions through their status lifecycle
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// NewController creates a new session Controller
func NewController(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// Create starts a new session owned by the admin, along with its play record
func (c *Controller) Create(ctx context.Context, adminID model.AdminID) (*model.Session, error) {
	if _, err := uuid.Parse(string(adminID)); err != nil {
		return nil, model.ErrInvalidAdminID
	}

	if _, err := c.storage.GetAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	sessionID, err := c.generateSessionID(ctx)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	session := &model.Session{
		ID:           c.random.UUID(),
		SessionID:    sessionID,
		AdminID:      adminID,
		Status:       model.SessionStatusPendingPlayerRegistration,
		WaitingQueue: []model.ParticipantID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	play := &model.Play{
		ID:        c.random.UUID(),
		SessionID: sessionID,
		AdminID:   adminID,
		Status:    session.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.storage.SavePlay(ctx, play); err != nil {
		return nil, err
	}

	c.logger.Info("session created", "session_id", sessionID, "admin_id", adminID)
	return session, nil
}

// generateSessionID produces an unused id of the form session_<millis>_<suffix>
func (c *Controller) generateSessionID(ctx context.Context) (model.SessionID, error) {
	for range maxSessionIDAttempts {
		suffix := c.random.String(SessionIDSuffixLength, SessionIDAlphabet)
		id := model.SessionID(fmt.Sprintf("%s%d_%s", SessionIDPrefix, c.clock.Now().UnixMilli(), suffix))

		exists, err := c.storage.SessionExists(ctx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
	return "", model.ErrSessionIDGeneration
}

// Get retrieves a session by its external id
func (c *Controller) Get(ctx context.Context, sessionID model.SessionID) (*model.Session, error) {
	return c.storage.GetSession(ctx, sessionID)
}

// Plays returns the play records of a session
func (c *Controller) Plays(ctx context.Context, sessionID model.SessionID) ([]*model.Play, error) {
	return c.storage.GetPlaysForSession(ctx, sessionID)
}

// List returns the admin's sessions, newest first
func (c *Controller) List(ctx context.Context, adminID model.AdminID) ([]*model.Session, error) {
	if adminID == "" {
		return nil, model.ErrInvalidAdminID
	}
	return c.storage.ListSessions(ctx, adminID)
}

// GetActive returns the admin's most recently created active session, or nil
func (c *Controller) GetActive(ctx context.Context, adminID model.AdminID) (*model.Session, error) {
	if adminID == "" {
		return nil, model.ErrInvalidAdminID
	}
	return c.mostRecentActive(ctx, adminID)
}

// GetActivePublic returns the most recently created active session of any
// admin, or nil
func (c *Controller) GetActivePublic(ctx context.Context) (*model.Session, error) {
	return c.mostRecentActive(ctx, "")
}

func (c *Controller) mostRecentActive(ctx context.Context, adminID model.AdminID) (*model.Session, error) {
	sessions, err := c.storage.ListSessions(ctx, adminID)
	if err != nil {
		return nil, err
	}
	for _, session := range sessions {
		if session.IsActive() {
			return session, nil
		}
	}
	return nil, nil
}

// Close archives a session that has not already ended. Archiving the
// session's play records is best effort.
func (c *Controller) Close(ctx context.Context, sessionID model.SessionID) (*model.Session, error) {
	session, err := c.storage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !session.IsActive() {
		return nil, model.ErrSessionNotClosable
	}

	if err := c.setStatus(ctx, session, model.SessionStatusArchived); err != nil {
		return nil, err
	}

	c.logger.Info("session closed", "session_id", sessionID)
	return session, nil
}

// AdvanceStatus moves a session one step along the main lifecycle line
func (c *Controller) AdvanceStatus(ctx context.Context, sessionID model.SessionID, target model.SessionStatus) (*model.Session, error) {
	if !target.IsValid() {
		return nil, model.ErrInvalidSessionStatus
	}

	session, err := c.storage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Status.Next() != target {
		return nil, fmt.Errorf("%w: %s to %s", model.ErrInvalidSessionTransition, session.Status, target)
	}

	if err := c.setStatus(ctx, session, target); err != nil {
		return nil, err
	}

	c.logger.Info("session status advanced", "session_id", sessionID, "status", target)
	return session, nil
}

// RequireActive returns the session if it exists and has not ended
func (c *Controller) RequireActive(ctx context.Context, sessionID model.SessionID) (*model.Session, error) {
	session, err := c.storage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive() {
		return nil, model.ErrSessionNotActive
	}
	return session, nil
}

// NoteParticipantRegistered moves a session still waiting for its first
// registration on to player_registered. Sessions in any other state are
// returned unchanged.
func (c *Controller) NoteParticipantRegistered(ctx context.Context, session *model.Session) (*model.Session, error) {
	if session.Status != model.SessionStatusPendingPlayerRegistration {
		return session, nil
	}
	if err := c.setStatus(ctx, session, model.SessionStatusPlayerRegistered); err != nil {
		return nil, err
	}
	return session, nil
}

// setStatus persists the new status on the session and mirrors it onto the
// session's plays. Play failures are logged, not returned.
func (c *Controller) setStatus(ctx context.Context, session *model.Session, status model.SessionStatus) error {
	now := c.clock.Now()
	session.Status = status
	session.UpdatedAt = now

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return err
	}

	plays, err := c.storage.GetPlaysForSession(ctx, session.SessionID)
	if err != nil {
		c.logger.Warn("failed to load plays for session",
			"session_id", session.SessionID,
			"error", err,
		)
		return nil
	}
	for _, play := range plays {
		play.Status = status
		play.UpdatedAt = now
		if err := c.storage.SavePlay(ctx, play); err != nil {
			c.logger.Warn("failed to update play status",
				"session_id", session.SessionID,
				"play_id", play.ID,
				"error", err,
			)
		}
	}
	return nil
}
