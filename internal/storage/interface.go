package storage

import (
	"context"

	"github.com/mcoot/roulettegame/internal/model"
)

// Storage defines the interface for data persistence.
//
// Implementations guarantee per-record atomicity only: there are no
// transactions spanning records, and concurrent saves of the same record are
// last-write-wins.
type Storage interface {
	// Admin operations
	SaveAdmin(ctx context.Context, admin *model.Admin) error
	GetAdmin(ctx context.Context, id model.AdminID) (*model.Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error)

	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)
	SessionExists(ctx context.Context, id model.SessionID) (bool, error)
	// ListSessions returns sessions newest first; an empty adminID lists all
	ListSessions(ctx context.Context, adminID model.AdminID) ([]*model.Session, error)

	// Play operations
	SavePlay(ctx context.Context, play *model.Play) error
	GetPlaysForSession(ctx context.Context, sessionID model.SessionID) ([]*model.Play, error)

	// Participant operations
	SaveParticipant(ctx context.Context, participant *model.Participant) error
	GetParticipant(ctx context.Context, id model.ParticipantID) (*model.Participant, error)
	// GetParticipants returns the participants that exist among ids, in no particular order
	GetParticipants(ctx context.Context, ids []model.ParticipantID) ([]*model.Participant, error)
	// ListParticipants returns participants oldest first; an empty sessionID lists all
	ListParticipants(ctx context.Context, sessionID model.SessionID) ([]*model.Participant, error)
}
