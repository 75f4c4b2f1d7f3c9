package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/mcoot/roulettegame/internal/model"
	"github.com/mcoot/roulettegame/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Records are copied on the way in and out so callers never share state.
type Storage struct {
	mu sync.RWMutex

	admins           map[model.AdminID]*model.Admin
	emailIndex       map[string]model.AdminID
	sessions         map[model.SessionID]*model.Session
	sessionOrder     []model.SessionID // insertion order, used to break CreatedAt ties
	plays            map[string]*model.Play
	participants     map[model.ParticipantID]*model.Participant
	participantOrder []model.ParticipantID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		admins:       make(map[model.AdminID]*model.Admin),
		emailIndex:   make(map[string]model.AdminID),
		sessions:     make(map[model.SessionID]*model.Session),
		plays:        make(map[string]*model.Play),
		participants: make(map[model.ParticipantID]*model.Participant),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Admin operations

func (s *Storage) SaveAdmin(ctx context.Context, admin *model.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(admin.Email)
	if existing, ok := s.emailIndex[email]; ok && existing != admin.ID {
		return model.ErrAdminExists
	}
	a := *admin
	s.admins[admin.ID] = &a
	s.emailIndex[email] = admin.ID
	return nil
}

func (s *Storage) GetAdmin(ctx context.Context, id model.AdminID) (*model.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	admin, ok := s.admins[id]
	if !ok {
		return nil, model.ErrAdminNotFound
	}
	a := *admin
	return &a, nil
}

func (s *Storage) GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emailIndex[strings.ToLower(email)]
	if !ok {
		return nil, model.ErrAdminNotFound
	}
	a := *s.admins[id]
	return &a, nil
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.SessionID]; !ok {
		s.sessionOrder = append(s.sessionOrder, session.SessionID)
	}
	s.sessions[session.SessionID] = copySession(session)
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return copySession(session), nil
}

func (s *Storage) SessionExists(ctx context.Context, id model.SessionID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[id]
	return ok, nil
}

func (s *Storage) ListSessions(ctx context.Context, adminID model.AdminID) ([]*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Walk newest insertion first so the stable sort keeps later inserts ahead on ties
	sessions := make([]*model.Session, 0, len(s.sessionOrder))
	for i := len(s.sessionOrder) - 1; i >= 0; i-- {
		session := s.sessions[s.sessionOrder[i]]
		if adminID != "" && session.AdminID != adminID {
			continue
		}
		sessions = append(sessions, copySession(session))
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return sessions, nil
}

// Play operations

func (s *Storage) SavePlay(ctx context.Context, play *model.Play) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *play
	s.plays[play.ID] = &p
	return nil
}

func (s *Storage) GetPlaysForSession(ctx context.Context, sessionID model.SessionID) ([]*model.Play, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var plays []*model.Play
	for _, play := range s.plays {
		if play.SessionID == sessionID {
			p := *play
			plays = append(plays, &p)
		}
	}
	return plays, nil
}

// Participant operations

func (s *Storage) SaveParticipant(ctx context.Context, participant *model.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.participants[participant.ID]; !ok {
		s.participantOrder = append(s.participantOrder, participant.ID)
	}
	s.participants[participant.ID] = copyParticipant(participant)
	return nil
}

func (s *Storage) GetParticipant(ctx context.Context, id model.ParticipantID) (*model.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	participant, ok := s.participants[id]
	if !ok {
		return nil, model.ErrParticipantNotFound
	}
	return copyParticipant(participant), nil
}

func (s *Storage) GetParticipants(ctx context.Context, ids []model.ParticipantID) ([]*model.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	participants := make([]*model.Participant, 0, len(ids))
	seen := make(map[model.ParticipantID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if participant, ok := s.participants[id]; ok {
			participants = append(participants, copyParticipant(participant))
		}
	}
	return participants, nil
}

func (s *Storage) ListParticipants(ctx context.Context, sessionID model.SessionID) ([]*model.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	participants := make([]*model.Participant, 0, len(s.participantOrder))
	for _, id := range s.participantOrder {
		participant := s.participants[id]
		if sessionID != "" && participant.SessionID != sessionID {
			continue
		}
		participants = append(participants, copyParticipant(participant))
	}
	sort.SliceStable(participants, func(i, j int) bool {
		return participants[i].CreatedAt.Before(participants[j].CreatedAt)
	})
	return participants, nil
}

func copySession(session *model.Session) *model.Session {
	c := *session
	c.WaitingQueue = append([]model.ParticipantID(nil), session.WaitingQueue...)
	return &c
}

func copyParticipant(participant *model.Participant) *model.Participant {
	c := *participant
	if participant.StartedPlayingAt != nil {
		t := *participant.StartedPlayingAt
		c.StartedPlayingAt = &t
	}
	if participant.CompletedAt != nil {
		t := *participant.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}
