package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/roulettegame/internal/dependencies/mocks"
	"github.com/mcoot/roulettegame/internal/model"
	"github.com/mcoot/roulettegame/internal/storage/memory"
	"github.com/mcoot/roulettegame/internal/testutil"
)

const (
	adminOne model.AdminID = "11111111-1111-1111-1111-111111111111"
	adminTwo model.AdminID = "22222222-2222-2222-2222-222222222222"
)

// playFailingStorage rejects every play write
type playFailingStorage struct {
	*memory.Storage
}

func (s playFailingStorage) SavePlay(ctx context.Context, play *model.Play) error {
	return errors.New("plays table unavailable")
}

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.controller = NewController(s.storage, s.clock, s.random, testutil.NopLogger())
	s.ctx = context.Background()

	for _, id := range []model.AdminID{adminOne, adminTwo} {
		err := s.storage.SaveAdmin(s.ctx, &model.Admin{
			ID:        id,
			Email:     string(id) + "@example.com",
			CreatedAt: s.clock.Now(),
		})
		s.Require().NoError(err)
	}
}

func (s *ControllerSuite) createSession(adminID model.AdminID) *model.Session {
	session, err := s.controller.Create(s.ctx, adminID)
	s.Require().NoError(err)
	s.clock.Advance(time.Second)
	return session
}

func (s *ControllerSuite) setStatus(session *model.Session, status model.SessionStatus) {
	session.Status = status
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))
}

// Create tests

func (s *ControllerSuite) TestCreateStartsPendingAndIsListedFirst() {
	s.createSession(adminOne)
	session := s.createSession(adminOne)

	s.Equal(model.SessionStatusPendingPlayerRegistration, session.Status)
	s.Empty(session.WaitingQueue)
	s.Equal(adminOne, session.AdminID)

	sessions, err := s.controller.List(s.ctx, adminOne)
	s.Require().NoError(err)
	s.Require().Len(sessions, 2)
	s.Equal(session.SessionID, sessions[0].SessionID)
}

func (s *ControllerSuite) TestCreateSessionIDFormat() {
	s.random.QueueString("abc123xyz")

	session, err := s.controller.Create(s.ctx, adminOne)
	s.Require().NoError(err)
	s.Equal(model.SessionID("session_1704110400000_abc123xyz"), session.SessionID)
	s.NotEmpty(session.ID)
}

func (s *ControllerSuite) TestCreateRetriesOnCollision() {
	_ = s.storage.SaveSession(s.ctx, &model.Session{SessionID: "session_1704110400000_taken0000"})
	s.random.QueueString("taken0000", "fresh0000")

	session, err := s.controller.Create(s.ctx, adminOne)
	s.Require().NoError(err)
	s.Equal(model.SessionID("session_1704110400000_fresh0000"), session.SessionID)
}

func (s *ControllerSuite) TestCreateGivesUpAfterRepeatedCollisions() {
	_ = s.storage.SaveSession(s.ctx, &model.Session{SessionID: "session_1704110400000_taken0000"})
	for range maxSessionIDAttempts {
		s.random.QueueString("taken0000")
	}

	_, err := s.controller.Create(s.ctx, adminOne)
	s.ErrorIs(err, model.ErrSessionIDGeneration)
}

func (s *ControllerSuite) TestCreateWritesPlay() {
	session := s.createSession(adminOne)

	plays, err := s.storage.GetPlaysForSession(s.ctx, session.SessionID)
	s.Require().NoError(err)
	s.Require().Len(plays, 1)
	s.Equal(adminOne, plays[0].AdminID)
	s.Equal(model.SessionStatusPendingPlayerRegistration, plays[0].Status)
}

func (s *ControllerSuite) TestCreateRejectsMalformedAdminID() {
	_, err := s.controller.Create(s.ctx, "not-a-uuid")
	s.ErrorIs(err, model.ErrInvalidAdminID)
}

func (s *ControllerSuite) TestCreateFailsForUnknownAdmin() {
	_, err := s.controller.Create(s.ctx, "33333333-3333-3333-3333-333333333333")
	s.ErrorIs(err, model.ErrAdminNotFound)
}

// List tests

func (s *ControllerSuite) TestListOnlyReturnsOwnSessions() {
	s.createSession(adminOne)
	s.createSession(adminTwo)

	sessions, err := s.controller.List(s.ctx, adminOne)
	s.Require().NoError(err)
	s.Require().Len(sessions, 1)
	s.Equal(adminOne, sessions[0].AdminID)
}

func (s *ControllerSuite) TestListRequiresAdmin() {
	_, err := s.controller.List(s.ctx, "")
	s.ErrorIs(err, model.ErrInvalidAdminID)
}

// GetActive tests

func (s *ControllerSuite) TestGetActiveReturnsMostRecentActive() {
	older := s.createSession(adminOne)
	newer := s.createSession(adminOne)
	s.setStatus(newer, model.SessionStatusArchived)

	active, err := s.controller.GetActive(s.ctx, adminOne)
	s.Require().NoError(err)
	s.Require().NotNil(active)
	s.Equal(older.SessionID, active.SessionID)
}

func (s *ControllerSuite) TestGetActiveReturnsNilWhenNone() {
	session := s.createSession(adminOne)
	s.setStatus(session, model.SessionStatusCompleted)

	active, err := s.controller.GetActive(s.ctx, adminOne)
	s.Require().NoError(err)
	s.Nil(active)
}

func (s *ControllerSuite) TestGetActiveIgnoresOtherAdmins() {
	s.createSession(adminTwo)

	active, err := s.controller.GetActive(s.ctx, adminOne)
	s.Require().NoError(err)
	s.Nil(active)
}

func (s *ControllerSuite) TestGetActivePublicSkipsCompleted() {
	inProgress := s.createSession(adminOne)
	s.setStatus(inProgress, model.SessionStatusInProgress)
	completed := s.createSession(adminTwo)
	s.setStatus(completed, model.SessionStatusCompleted)

	active, err := s.controller.GetActivePublic(s.ctx)
	s.Require().NoError(err)
	s.Require().NotNil(active)
	s.Equal(inProgress.SessionID, active.SessionID)
}

func (s *ControllerSuite) TestGetActivePublicReturnsNilWhenEmpty() {
	active, err := s.controller.GetActivePublic(s.ctx)
	s.Require().NoError(err)
	s.Nil(active)
}

// Close tests

func (s *ControllerSuite) TestCloseArchivesSessionAndPlays() {
	session := s.createSession(adminOne)

	closed, err := s.controller.Close(s.ctx, session.SessionID)
	s.Require().NoError(err)
	s.Equal(model.SessionStatusArchived, closed.Status)
	s.Equal(s.clock.Now(), closed.UpdatedAt)

	stored, _ := s.storage.GetSession(s.ctx, session.SessionID)
	s.Equal(model.SessionStatusArchived, stored.Status)

	plays, _ := s.storage.GetPlaysForSession(s.ctx, session.SessionID)
	s.Require().Len(plays, 1)
	s.Equal(model.SessionStatusArchived, plays[0].Status)
}

func (s *ControllerSuite) TestCloseAlreadyArchivedFails() {
	session := s.createSession(adminOne)
	_, _ = s.controller.Close(s.ctx, session.SessionID)

	_, err := s.controller.Close(s.ctx, session.SessionID)
	s.ErrorIs(err, model.ErrSessionNotClosable)
}

func (s *ControllerSuite) TestCloseEndedSessionsFail() {
	for _, status := range []model.SessionStatus{
		model.SessionStatusCompleted,
		model.SessionStatusArchived,
		model.SessionStatusClosed,
	} {
		session := s.createSession(adminOne)
		s.setStatus(session, status)

		_, err := s.controller.Close(s.ctx, session.SessionID)
		s.ErrorIs(err, model.ErrSessionNotClosable, "status %s", status)
	}
}

func (s *ControllerSuite) TestCloseUnknownSession() {
	_, err := s.controller.Close(s.ctx, "session_missing")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *ControllerSuite) TestCloseSucceedsWhenPlaysCannotBeArchived() {
	session := s.createSession(adminOne)
	controller := NewController(playFailingStorage{s.storage}, s.clock, s.random, testutil.NopLogger())

	closed, err := controller.Close(s.ctx, session.SessionID)
	s.Require().NoError(err)
	s.Equal(model.SessionStatusArchived, closed.Status)

	plays, _ := s.storage.GetPlaysForSession(s.ctx, session.SessionID)
	s.Require().Len(plays, 1)
	s.Equal(model.SessionStatusPendingPlayerRegistration, plays[0].Status)
}

// AdvanceStatus tests

func (s *ControllerSuite) TestAdvanceStatusFollowsMainLine() {
	session := s.createSession(adminOne)

	for _, status := range []model.SessionStatus{
		model.SessionStatusPlayerRegistered,
		model.SessionStatusInProgress,
		model.SessionStatusCompleted,
	} {
		updated, err := s.controller.AdvanceStatus(s.ctx, session.SessionID, status)
		s.Require().NoError(err)
		s.Equal(status, updated.Status)
	}

	plays, _ := s.storage.GetPlaysForSession(s.ctx, session.SessionID)
	s.Equal(model.SessionStatusCompleted, plays[0].Status)
}

func (s *ControllerSuite) TestAdvanceStatusRejectsSkippingAhead() {
	session := s.createSession(adminOne)

	_, err := s.controller.AdvanceStatus(s.ctx, session.SessionID, model.SessionStatusInProgress)
	s.ErrorIs(err, model.ErrInvalidSessionTransition)
}

func (s *ControllerSuite) TestAdvanceStatusRejectsTerminalTargets() {
	session := s.createSession(adminOne)

	_, err := s.controller.AdvanceStatus(s.ctx, session.SessionID, model.SessionStatusArchived)
	s.ErrorIs(err, model.ErrInvalidSessionTransition)
}

func (s *ControllerSuite) TestAdvanceStatusRejectsUnknownStatus() {
	session := s.createSession(adminOne)

	_, err := s.controller.AdvanceStatus(s.ctx, session.SessionID, "paused")
	s.ErrorIs(err, model.ErrInvalidSessionStatus)
}

func (s *ControllerSuite) TestAdvanceStatusUnknownSession() {
	_, err := s.controller.AdvanceStatus(s.ctx, "session_missing", model.SessionStatusPlayerRegistered)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

// Registration hooks

func (s *ControllerSuite) TestRequireActive() {
	session := s.createSession(adminOne)

	active, err := s.controller.RequireActive(s.ctx, session.SessionID)
	s.Require().NoError(err)
	s.Equal(session.SessionID, active.SessionID)

	_, _ = s.controller.Close(s.ctx, session.SessionID)
	_, err = s.controller.RequireActive(s.ctx, session.SessionID)
	s.ErrorIs(err, model.ErrSessionNotActive)
}

func (s *ControllerSuite) TestNoteParticipantRegisteredOnlyMovesPending() {
	session := s.createSession(adminOne)

	updated, err := s.controller.NoteParticipantRegistered(s.ctx, session)
	s.Require().NoError(err)
	s.Equal(model.SessionStatusPlayerRegistered, updated.Status)

	s.setStatus(updated, model.SessionStatusInProgress)
	updated, err = s.controller.NoteParticipantRegistered(s.ctx, updated)
	s.Require().NoError(err)
	s.Equal(model.SessionStatusInProgress, updated.Status)
}

func (s *ControllerSuite) TestSessionIDsAreDistinctWithoutQueuedRandomness() {
	first, err := s.controller.Create(s.ctx, adminOne)
	s.Require().NoError(err)
	second, err := s.controller.Create(s.ctx, adminOne)
	s.Require().NoError(err)

	s.NotEqual(first.SessionID, second.SessionID)
	s.True(strings.HasPrefix(string(second.SessionID), SessionIDPrefix))
}
