package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		o.println(string(data))
	} else {
		o.println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *Output) println(args ...any) {
	_, _ = fmt.Fprintln(o.w, args...)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case LoginResult:
		o.printAdmin(v.Admin)
	case Session:
		o.printSession(v)
	case SessionResult:
		o.printSession(v.Session)
	case CreateSessionResult:
		o.printSession(v.Session)
		if v.SessionDetails != nil {
			o.printf("Play: %s\n", v.SessionDetails.ID)
		}
	case SessionList:
		o.printSessionList(v)
	case ActiveSessionResult:
		o.printActiveSession(v)
	case QueueResult:
		o.printQueue(v)
	case ParticipantResult:
		o.printParticipant(v.Participant)
	case ParticipantList:
		o.printParticipantList(v)
	case HealthResult:
		o.printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Admin response type (matches API)
type Admin struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LoginResult is the login response
type LoginResult struct {
	Admin Admin `json:"admin"`
}

// Session response type
type Session struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	AdminID      string    `json:"admin_id"`
	Status       string    `json:"status"`
	WaitingQueue []string  `json:"waiting_queue"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Play response type
type Play struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
}

// SessionResult wraps a single session
type SessionResult struct {
	Session Session `json:"session"`
}

// CreateSessionResult is the create session response
type CreateSessionResult struct {
	SessionID      string  `json:"sessionId"`
	Session        Session `json:"session"`
	SessionDetails *Play   `json:"sessionDetails"`
}

// SessionList is the list sessions response
type SessionList struct {
	Sessions []Session `json:"sessions"`
}

// ActiveSessionResult is the active session response
type ActiveSessionResult struct {
	Session          *Session `json:"session"`
	HasActiveSession bool     `json:"hasActiveSession"`
}

// Participant response type
type Participant struct {
	ID               string     `json:"id"`
	SessionID        string     `json:"session_id,omitempty"`
	Name             string     `json:"name"`
	Surname          string     `json:"surname"`
	Email            string     `json:"email"`
	Specialty        string     `json:"specialty"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	StartedPlayingAt *time.Time `json:"started_playing_at"`
	CompletedAt      *time.Time `json:"completed_at"`
}

// ParticipantResult wraps a single participant
type ParticipantResult struct {
	Participant Participant `json:"participant"`
}

// ParticipantList is the list participants response
type ParticipantList struct {
	Participants []Participant `json:"participants"`
}

// QueueResult is the reconciled waiting queue
type QueueResult struct {
	SessionID    string        `json:"sessionId"`
	WaitingQueue []string      `json:"waitingQueue"`
	Participants []Participant `json:"participants"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printAdmin(a Admin) {
	o.printf("Admin: %s <%s>\n", a.Name, a.Email)
	o.printf("ID: %s\n", a.ID)
}

func (o *Output) printSession(s Session) {
	o.printf("Session: %s\n", s.SessionID)
	o.printf("Status: %s\n", s.Status)
	o.printf("Created: %s\n", s.CreatedAt.Format(time.RFC3339))
	o.printf("Queue length: %d\n", len(s.WaitingQueue))
}

func (o *Output) printSessionList(l SessionList) {
	if len(l.Sessions) == 0 {
		o.println("No sessions")
		return
	}
	for _, s := range l.Sessions {
		o.printf("%s  %-28s %s\n", s.SessionID, s.Status, s.CreatedAt.Format(time.RFC3339))
	}
}

func (o *Output) printActiveSession(a ActiveSessionResult) {
	if !a.HasActiveSession || a.Session == nil {
		o.println("No active session")
		return
	}
	o.printSession(*a.Session)
}

func (o *Output) printParticipant(p Participant) {
	o.printf("Participant: %s %s (%s)\n", p.Name, p.Surname, p.ID)
	o.printf("Email: %s\n", p.Email)
	if p.Specialty != "" {
		o.printf("Specialty: %s\n", p.Specialty)
	}
	o.printf("Status: %s\n", p.Status)
	if p.StartedPlayingAt != nil {
		o.printf("Started: %s\n", p.StartedPlayingAt.Format(time.RFC3339))
	}
	if p.CompletedAt != nil {
		o.printf("Completed: %s\n", p.CompletedAt.Format(time.RFC3339))
	}
}

func (o *Output) printParticipantList(l ParticipantList) {
	if len(l.Participants) == 0 {
		o.println("No participants")
		return
	}
	for _, p := range l.Participants {
		o.printf("%s  %-12s %s %s <%s>\n", p.ID, p.Status, p.Name, p.Surname, p.Email)
	}
}

func (o *Output) printQueue(q QueueResult) {
	o.printf("Queue for %s (%d waiting):\n", q.SessionID, len(q.WaitingQueue))
	byID := make(map[string]Participant, len(q.Participants))
	for _, p := range q.Participants {
		byID[p.ID] = p
	}
	for i, id := range q.WaitingQueue {
		if p, ok := byID[id]; ok {
			o.printf("  %d. %s %s [%s]\n", i+1, p.Name, p.Surname, p.Status)
		} else {
			o.printf("  %d. %s\n", i+1, id)
		}
	}
}
