package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/mcoot/roulettegame/internal/model"
	"github.com/mcoot/roulettegame/internal/storage"
)

// uniqueViolation is the PostgreSQL error code for unique_violation
const uniqueViolation = "23505"

// Storage is a PostgreSQL-backed implementation of the storage interface
type Storage struct {
	db *sql.DB
}

// New opens a connection pool, verifies it and ensures the schema exists
func New(ctx context.Context, cfg Config) (*Storage, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := CreateSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Storage{db: db}, nil
}

// NewWithDB creates a PostgreSQL storage with an existing connection pool
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

// Close closes the connection pool
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Admin operations

func (s *Storage) SaveAdmin(ctx context.Context, admin *model.Admin) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admins (id, email, name, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			password_hash = EXCLUDED.password_hash
	`, string(admin.ID), admin.Email, admin.Name, admin.PasswordHash, admin.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return model.ErrAdminExists
		}
		return fmt.Errorf("save admin: %w", err)
	}
	return nil
}

func (s *Storage) GetAdmin(ctx context.Context, id model.AdminID) (*model.Admin, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, created_at
		FROM admins WHERE id = $1
	`, string(id))
	return scanAdmin(row)
}

func (s *Storage) GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, created_at
		FROM admins WHERE LOWER(email) = LOWER($1)
	`, email)
	return scanAdmin(row)
}

func scanAdmin(row *sql.Row) (*model.Admin, error) {
	var admin model.Admin
	var id string
	err := row.Scan(&id, &admin.Email, &admin.Name, &admin.PasswordHash, &admin.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrAdminNotFound
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}
	admin.ID = model.AdminID(id)
	return &admin, nil
}

// Session operations

const sessionColumns = `id, session_id, admin_id, status, waiting_queue, created_at, updated_at`

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO game_sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (session_id) DO UPDATE SET
			status = EXCLUDED.status,
			waiting_queue = EXCLUDED.waiting_queue,
			updated_at = EXCLUDED.updated_at
	`,
		session.ID,
		string(session.SessionID),
		string(session.AdminID),
		string(session.Status),
		pq.Array(participantIDStrings(session.WaitingQueue)),
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+sessionColumns+` FROM game_sessions WHERE session_id = $1
	`, string(id))
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	sessions, err := scanSessions(rows)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, model.ErrSessionNotFound
	}
	return sessions[0], nil
}

func (s *Storage) SessionExists(ctx context.Context, id model.SessionID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM game_sessions WHERE session_id = $1)
	`, string(id)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("session exists: %w", err)
	}
	return exists, nil
}

func (s *Storage) ListSessions(ctx context.Context, adminID model.AdminID) ([]*model.Session, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if adminID == "" {
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+sessionColumns+` FROM game_sessions ORDER BY created_at DESC
		`)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+sessionColumns+` FROM game_sessions WHERE admin_id = $1 ORDER BY created_at DESC
		`, string(adminID))
	}
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return scanSessions(rows)
}

func scanSessions(rows *sql.Rows) ([]*model.Session, error) {
	defer func() { _ = rows.Close() }()

	sessions := []*model.Session{}
	for rows.Next() {
		var (
			session                    model.Session
			sessionID, adminID, status string
			queue                      []string
		)
		err := rows.Scan(
			&session.ID,
			&sessionID,
			&adminID,
			&status,
			pq.Array(&queue),
			&session.CreatedAt,
			&session.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		session.SessionID = model.SessionID(sessionID)
		session.AdminID = model.AdminID(adminID)
		session.Status = model.SessionStatus(status)
		session.WaitingQueue = make([]model.ParticipantID, len(queue))
		for i, id := range queue {
			session.WaitingQueue[i] = model.ParticipantID(id)
		}
		sessions = append(sessions, &session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan sessions: %w", err)
	}
	return sessions, nil
}

// Play operations

func (s *Storage) SavePlay(ctx context.Context, play *model.Play) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO plays (id, session_id, admin_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`,
		play.ID,
		string(play.SessionID),
		string(play.AdminID),
		string(play.Status),
		play.CreatedAt,
		play.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save play: %w", err)
	}
	return nil
}

func (s *Storage) GetPlaysForSession(ctx context.Context, sessionID model.SessionID) ([]*model.Play, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, admin_id, status, created_at, updated_at
		FROM plays WHERE session_id = $1 ORDER BY created_at
	`, string(sessionID))
	if err != nil {
		return nil, fmt.Errorf("get plays: %w", err)
	}
	defer func() { _ = rows.Close() }()

	plays := []*model.Play{}
	for rows.Next() {
		var (
			play                       model.Play
			sessionID, adminID, status string
		)
		if err := rows.Scan(&play.ID, &sessionID, &adminID, &status, &play.CreatedAt, &play.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan play: %w", err)
		}
		play.SessionID = model.SessionID(sessionID)
		play.AdminID = model.AdminID(adminID)
		play.Status = model.SessionStatus(status)
		plays = append(plays, &play)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan plays: %w", err)
	}
	return plays, nil
}

// Participant operations

const participantColumns = `id, session_id, name, surname, email, specialty, status,
	created_at, updated_at, started_playing_at, completed_at`

func (s *Storage) SaveParticipant(ctx context.Context, participant *model.Participant) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO participants (`+participantColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			session_id = EXCLUDED.session_id,
			name = EXCLUDED.name,
			surname = EXCLUDED.surname,
			email = EXCLUDED.email,
			specialty = EXCLUDED.specialty,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at,
			started_playing_at = EXCLUDED.started_playing_at,
			completed_at = EXCLUDED.completed_at
	`,
		string(participant.ID),
		nullString(string(participant.SessionID)),
		participant.Name,
		participant.Surname,
		participant.Email,
		participant.Specialty,
		string(participant.Status),
		participant.CreatedAt,
		participant.UpdatedAt,
		nullTime(participant.StartedPlayingAt),
		nullTime(participant.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("save participant: %w", err)
	}
	return nil
}

func (s *Storage) GetParticipant(ctx context.Context, id model.ParticipantID) (*model.Participant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+participantColumns+` FROM participants WHERE id = $1
	`, string(id))
	if err != nil {
		return nil, fmt.Errorf("get participant: %w", err)
	}
	participants, err := scanParticipants(rows)
	if err != nil {
		return nil, err
	}
	if len(participants) == 0 {
		return nil, model.ErrParticipantNotFound
	}
	return participants[0], nil
}

func (s *Storage) GetParticipants(ctx context.Context, ids []model.ParticipantID) ([]*model.Participant, error) {
	if len(ids) == 0 {
		return []*model.Participant{}, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+participantColumns+` FROM participants WHERE id = ANY($1)
	`, pq.Array(participantIDStrings(ids)))
	if err != nil {
		return nil, fmt.Errorf("get participants: %w", err)
	}
	return scanParticipants(rows)
}

func (s *Storage) ListParticipants(ctx context.Context, sessionID model.SessionID) ([]*model.Participant, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if sessionID == "" {
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+participantColumns+` FROM participants ORDER BY created_at
		`)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+participantColumns+` FROM participants WHERE session_id = $1 ORDER BY created_at
		`, string(sessionID))
	}
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return scanParticipants(rows)
}

func scanParticipants(rows *sql.Rows) ([]*model.Participant, error) {
	defer func() { _ = rows.Close() }()

	participants := []*model.Participant{}
	for rows.Next() {
		var (
			participant          model.Participant
			id, status           string
			sessionID            sql.NullString
			started, completedAt sql.NullTime
		)
		err := rows.Scan(
			&id,
			&sessionID,
			&participant.Name,
			&participant.Surname,
			&participant.Email,
			&participant.Specialty,
			&status,
			&participant.CreatedAt,
			&participant.UpdatedAt,
			&started,
			&completedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		participant.ID = model.ParticipantID(id)
		participant.SessionID = model.SessionID(sessionID.String)
		participant.Status = model.ParticipantStatus(status)
		if started.Valid {
			t := started.Time
			participant.StartedPlayingAt = &t
		}
		if completedAt.Valid {
			t := completedAt.Time
			participant.CompletedAt = &t
		}
		participants = append(participants, &participant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan participants: %w", err)
	}
	return participants, nil
}

func participantIDStrings(ids []model.ParticipantID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
