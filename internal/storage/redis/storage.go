package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/roulettegame/internal/model"
	"github.com/mcoot/roulettegame/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Records never expire: sessions are archived, not deleted, and participants
// are retained for reporting.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Admin operations

func (s *Storage) SaveAdmin(ctx context.Context, admin *model.Admin) error {
	data, err := json.Marshal(admin)
	if err != nil {
		return err
	}

	// Claim the email index first so two admins can never share an email
	indexKey := adminEmailIndexKey(admin.Email)
	claimed, err := s.client.SetNX(ctx, indexKey, string(admin.ID), 0).Result()
	if err != nil {
		return err
	}
	if !claimed {
		owner, err := s.client.Get(ctx, indexKey).Result()
		if err != nil {
			return err
		}
		if owner != string(admin.ID) {
			return model.ErrAdminExists
		}
	}

	return s.client.Set(ctx, adminKey(admin.ID), data, 0).Err()
}

func (s *Storage) GetAdmin(ctx context.Context, id model.AdminID) (*model.Admin, error) {
	data, err := s.client.Get(ctx, adminKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAdminNotFound
		}
		return nil, err
	}

	var admin model.Admin
	if err := json.Unmarshal(data, &admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

func (s *Storage) GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error) {
	adminID, err := s.client.Get(ctx, adminEmailIndexKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAdminNotFound
		}
		return nil, err
	}

	return s.GetAdmin(ctx, model.AdminID(adminID))
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	member := redis.Z{
		Score:  float64(session.CreatedAt.UnixMilli()),
		Member: string(session.SessionID),
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(session.SessionID), data, 0)
	pipe.ZAdd(ctx, sessionsIndexKey(), member)
	if session.AdminID != "" {
		pipe.ZAdd(ctx, adminSessionsIndexKey(session.AdminID), member)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) SessionExists(ctx context.Context, id model.SessionID) (bool, error) {
	exists, err := s.client.Exists(ctx, sessionKey(id)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *Storage) ListSessions(ctx context.Context, adminID model.AdminID) ([]*model.Session, error) {
	indexKey := sessionsIndexKey()
	if adminID != "" {
		indexKey = adminSessionsIndexKey(adminID)
	}

	ids, err := s.client.ZRevRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = sessionKey(model.SessionID(id))
	}

	sessions := []*model.Session{}
	err = s.mgetJSON(ctx, keys, func(data []byte) error {
		var session model.Session
		if err := json.Unmarshal(data, &session); err != nil {
			return err
		}
		sessions = append(sessions, &session)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// Play operations

func (s *Storage) SavePlay(ctx context.Context, play *model.Play) error {
	data, err := json.Marshal(play)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, playKey(play.ID), data, 0)
	pipe.SAdd(ctx, playsForSessionIndexKey(play.SessionID), playKey(play.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlaysForSession(ctx context.Context, sessionID model.SessionID) ([]*model.Play, error) {
	keys, err := s.client.SMembers(ctx, playsForSessionIndexKey(sessionID)).Result()
	if err != nil {
		return nil, err
	}

	plays := []*model.Play{}
	err = s.mgetJSON(ctx, keys, func(data []byte) error {
		var play model.Play
		if err := json.Unmarshal(data, &play); err != nil {
			return err
		}
		plays = append(plays, &play)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plays, nil
}

// Participant operations

func (s *Storage) SaveParticipant(ctx context.Context, participant *model.Participant) error {
	data, err := json.Marshal(participant)
	if err != nil {
		return err
	}

	member := redis.Z{
		Score:  float64(participant.CreatedAt.UnixMilli()),
		Member: string(participant.ID),
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, participantKey(participant.ID), data, 0)
	pipe.ZAdd(ctx, participantsIndexKey(), member)
	if participant.SessionID != "" {
		pipe.ZAdd(ctx, sessionParticipantsIndexKey(participant.SessionID), member)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetParticipant(ctx context.Context, id model.ParticipantID) (*model.Participant, error) {
	data, err := s.client.Get(ctx, participantKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrParticipantNotFound
		}
		return nil, err
	}

	var participant model.Participant
	if err := json.Unmarshal(data, &participant); err != nil {
		return nil, err
	}
	return &participant, nil
}

func (s *Storage) GetParticipants(ctx context.Context, ids []model.ParticipantID) ([]*model.Participant, error) {
	seen := make(map[model.ParticipantID]bool, len(ids))
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		keys = append(keys, participantKey(id))
	}
	return s.participantsForKeys(ctx, keys)
}

func (s *Storage) ListParticipants(ctx context.Context, sessionID model.SessionID) ([]*model.Participant, error) {
	indexKey := participantsIndexKey()
	if sessionID != "" {
		indexKey = sessionParticipantsIndexKey(sessionID)
	}

	ids, err := s.client.ZRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = participantKey(model.ParticipantID(id))
	}
	return s.participantsForKeys(ctx, keys)
}

func (s *Storage) participantsForKeys(ctx context.Context, keys []string) ([]*model.Participant, error) {
	participants := []*model.Participant{}
	err := s.mgetJSON(ctx, keys, func(data []byte) error {
		var participant model.Participant
		if err := json.Unmarshal(data, &participant); err != nil {
			return err
		}
		participants = append(participants, &participant)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// mgetJSON fetches keys with a single MGET and hands each present value to fn
// in key order. Missing keys are skipped.
func (s *Storage) mgetJSON(ctx context.Context, keys []string, fn func(data []byte) error) error {
	if len(keys) == 0 {
		return nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return err
	}

	for i, val := range values {
		if val == nil {
			continue
		}
		str, ok := val.(string)
		if !ok {
			return fmt.Errorf("unexpected value type for key %s", keys[i])
		}
		if err := fn([]byte(str)); err != nil {
			return fmt.Errorf("decode %s: %w", keys[i], err)
		}
	}
	return nil
}
