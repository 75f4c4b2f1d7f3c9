package participant

import (
	"context"
	"encoding/csv"
	"io"
	"time"

	"github.com/mcoot/roulettegame/internal/model"
)

// ExportColumns is the header row of the participant CSV export
var ExportColumns = []string{
	"id",
	"name",
	"surname",
	"email",
	"specialty",
	"session_id",
	"status",
	"created_at",
	"started_playing_at",
	"completed_at",
}

// ExportCSV writes participants, oldest first, as CSV with a header row.
// Timestamps are RFC 3339 in UTC; unset timestamps are empty.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, sessionID model.SessionID) (int, error) {
	participants, err := s.storage.ListParticipants(ctx, sessionID)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ExportColumns); err != nil {
		return 0, err
	}
	for _, p := range participants {
		record := []string{
			string(p.ID),
			p.Name,
			p.Surname,
			p.Email,
			p.Specialty,
			string(p.SessionID),
			string(p.Status),
			formatTime(&p.CreatedAt),
			formatTime(p.StartedPlayingAt),
			formatTime(p.CompletedAt),
		}
		if err := cw.Write(record); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	return len(participants), cw.Error()
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
