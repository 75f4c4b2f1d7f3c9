package queue

import (
	"context"
	"log/slog"

	"github.com/mcoot/roulettegame/internal/dependencies/clock"
	"github.com/mcoot/roulettegame/internal/model"
	"github.com/mcoot/roulettegame/internal/storage"
)

// View is the reconciled waiting queue of a session
type View struct {
	SessionID    model.SessionID
	WaitingQueue []model.ParticipantID
	Participants []*model.Participant
}

// Service reads and writes session waiting queues
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new queue Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// GetQueue returns the session's waiting queue in persisted order, keeping
// only the first occurrence of each live participant
func (s *Service) GetQueue(ctx context.Context, sessionID model.SessionID) (*View, error) {
	if sessionID == "" {
		return nil, model.ErrSessionIDRequired
	}

	session, err := s.storage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return s.reconcile(ctx, session)
}

// SaveQueue replaces the session's waiting queue wholesale and returns the
// reconciled result. A nil queue is rejected; an empty one clears it.
func (s *Service) SaveQueue(ctx context.Context, sessionID model.SessionID, ids []model.ParticipantID) (*View, error) {
	if sessionID == "" {
		return nil, model.ErrSessionIDRequired
	}
	if ids == nil {
		return nil, model.ErrInvalidQueue
	}

	session, err := s.storage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.WaitingQueue = append([]model.ParticipantID{}, ids...)
	session.UpdatedAt = s.clock.Now()
	if err := s.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("waiting queue saved", "session_id", sessionID, "length", len(ids))
	return s.reconcile(ctx, session)
}

func (s *Service) reconcile(ctx context.Context, session *model.Session) (*View, error) {
	participants, err := s.storage.GetParticipants(ctx, session.WaitingQueue)
	if err != nil {
		return nil, err
	}

	live := make(map[model.ParticipantID]*model.Participant, len(participants))
	for _, p := range participants {
		if p.Status.IsLive() {
			live[p.ID] = p
		}
	}

	view := &View{
		SessionID:    session.SessionID,
		WaitingQueue: []model.ParticipantID{},
		Participants: []*model.Participant{},
	}
	for _, id := range session.WaitingQueue {
		p, ok := live[id]
		if !ok {
			continue
		}
		view.WaitingQueue = append(view.WaitingQueue, id)
		view.Participants = append(view.Participants, p)
		delete(live, id)
	}
	return view, nil
}
