package factory

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/roulettegame/internal/model"
	"github.com/mcoot/roulettegame/internal/services/participant"
)

type IntegrationSuite struct {
	suite.Suite
	app   *TestApp
	ctx   context.Context
	admin *model.Admin
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()

	admin, err := s.app.AuthService.CreateAdmin(s.ctx, "host@example.com", "Host", "correct-horse")
	s.Require().NoError(err)
	s.admin = admin
}

func (s *IntegrationSuite) register(name string, sessionID model.SessionID) *model.Participant {
	p, err := s.app.ParticipantService.Register(s.ctx, participant.Registration{
		Name:      name,
		Surname:   "Tester",
		Email:     name + "@example.com",
		Specialty: "Cardiology",
		SessionID: sessionID,
	})
	s.Require().NoError(err)
	return p
}

// Test: A full evening from login to archive
func (s *IntegrationSuite) TestCompleteSessionFlow() {
	// Step 1: Log in and verify the token
	_, token, err := s.app.AuthService.Login(s.ctx, "host@example.com", "correct-horse")
	s.Require().NoError(err)
	authed, err := s.app.AuthService.Authenticate(s.ctx, token)
	s.Require().NoError(err)
	s.Equal(s.admin.ID, authed.ID)

	// Step 2: Create a session
	created, err := s.app.SessionController.Create(s.ctx, s.admin.ID)
	s.Require().NoError(err)
	s.Equal(model.SessionStatusPendingPlayerRegistration, created.Status)

	// Step 3: Participants register, which moves the session on
	ana := s.register("ana", created.SessionID)
	ben := s.register("ben", created.SessionID)
	cho := s.register("cho", created.SessionID)

	sess, err := s.app.SessionController.Get(s.ctx, created.SessionID)
	s.Require().NoError(err)
	s.Equal(model.SessionStatusPlayerRegistered, sess.Status)

	// Step 4: Start playing and queue everyone up
	_, err = s.app.SessionController.AdvanceStatus(s.ctx, created.SessionID, model.SessionStatusInProgress)
	s.Require().NoError(err)

	view, err := s.app.QueueService.SaveQueue(s.ctx, created.SessionID, []model.ParticipantID{ana.ID, ben.ID, cho.ID})
	s.Require().NoError(err)
	s.Len(view.Participants, 3)

	// Step 5: Ana plays and finishes, Ben is disqualified
	_, err = s.app.ParticipantService.UpdateStatus(s.ctx, ana.ID, model.ParticipantStatusPlaying, participant.ScopePublic)
	s.Require().NoError(err)
	s.app.MockClock.Advance(2 * time.Minute)
	_, err = s.app.ParticipantService.UpdateStatus(s.ctx, ana.ID, model.ParticipantStatusCompleted, participant.ScopePublic)
	s.Require().NoError(err)
	_, err = s.app.ParticipantService.UpdateStatus(s.ctx, ben.ID, model.ParticipantStatusDisqualified, participant.ScopePrivileged)
	s.Require().NoError(err)

	// Step 6: Only Cho is left waiting
	view, err = s.app.QueueService.GetQueue(s.ctx, created.SessionID)
	s.Require().NoError(err)
	s.Equal([]model.ParticipantID{cho.ID}, view.WaitingQueue)

	// Step 7: The public display sees the running session
	active, err := s.app.SessionController.GetActivePublic(s.ctx)
	s.Require().NoError(err)
	s.Require().NotNil(active)
	s.Equal(created.SessionID, active.SessionID)

	// Step 8: Close it out
	closed, err := s.app.SessionController.Close(s.ctx, created.SessionID)
	s.Require().NoError(err)
	s.Equal(model.SessionStatusArchived, closed.Status)

	active, err = s.app.SessionController.GetActivePublic(s.ctx)
	s.Require().NoError(err)
	s.Nil(active)

	// Step 9: Export still has everyone
	var buf bytes.Buffer
	count, err := s.app.ParticipantService.ExportCSV(s.ctx, &buf, created.SessionID)
	s.Require().NoError(err)
	s.Equal(3, count)

	rows, err := csv.NewReader(&buf).ReadAll()
	s.Require().NoError(err)
	s.Len(rows, 4)
}

// Test: Registration is refused once the session is archived
func (s *IntegrationSuite) TestRegisterAfterCloseFails() {
	created, err := s.app.SessionController.Create(s.ctx, s.admin.ID)
	s.Require().NoError(err)

	_, err = s.app.SessionController.Close(s.ctx, created.SessionID)
	s.Require().NoError(err)

	_, err = s.app.ParticipantService.Register(s.ctx, participant.Registration{
		Name:      "late",
		Surname:   "Comer",
		Email:     "late@example.com",
		SessionID: created.SessionID,
	})
	s.ErrorIs(err, model.ErrSessionNotActive)
}

// Test: Tokens expire a week after issue
func (s *IntegrationSuite) TestTokenExpiresAfterAWeek() {
	_, token, err := s.app.AuthService.Login(s.ctx, "host@example.com", "correct-horse")
	s.Require().NoError(err)

	s.app.MockClock.Advance(7*24*time.Hour - time.Minute)
	_, err = s.app.AuthService.Authenticate(s.ctx, token)
	s.Require().NoError(err)

	s.app.MockClock.Advance(2 * time.Minute)
	_, err = s.app.AuthService.Authenticate(s.ctx, token)
	s.Error(err)
}

// Test: Each admin only sees their own sessions, newest first
func (s *IntegrationSuite) TestSessionsScopedToAdmin() {
	other, err := s.app.AuthService.CreateAdmin(s.ctx, "other@example.com", "Other", "battery-staple")
	s.Require().NoError(err)

	first, err := s.app.SessionController.Create(s.ctx, s.admin.ID)
	s.Require().NoError(err)
	s.app.MockClock.Advance(time.Second)
	_, err = s.app.SessionController.Create(s.ctx, other.ID)
	s.Require().NoError(err)
	s.app.MockClock.Advance(time.Second)
	second, err := s.app.SessionController.Create(s.ctx, s.admin.ID)
	s.Require().NoError(err)

	sessions, err := s.app.SessionController.List(s.ctx, s.admin.ID)
	s.Require().NoError(err)
	s.Require().Len(sessions, 2)
	s.Equal(second.SessionID, sessions[0].SessionID)
	s.Equal(first.SessionID, sessions[1].SessionID)
}
