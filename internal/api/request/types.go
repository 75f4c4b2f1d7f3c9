package request

import "encoding/json"

// LoginRequest is the request body for admin login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CloseSessionRequest is the request body for closing a session
type CloseSessionRequest struct {
	SessionID string `json:"sessionId"`
}

// UpdateSessionStatusRequest is the request body for advancing a session
type UpdateSessionStatusRequest struct {
	SessionID string `json:"sessionId"`
	Status    string `json:"status"`
}

// SaveQueueRequest is the request body for replacing a waiting queue.
// WaitingQueue is kept raw so a non-list value can be reported as such.
type SaveQueueRequest struct {
	SessionID    string          `json:"sessionId"`
	WaitingQueue json.RawMessage `json:"waitingQueue"`
}

// UpdateParticipantStatusRequest is the request body for changing a
// participant's status
type UpdateParticipantStatusRequest struct {
	ParticipantID string `json:"participantId"`
	Status        string `json:"status"`
}

// RegisterParticipantRequest is the request body for registering a participant
type RegisterParticipantRequest struct {
	Name      string `json:"name"`
	Surname   string `json:"surname"`
	Email     string `json:"email"`
	Specialty string `json:"specialty"`
	SessionID string `json:"sessionId,omitempty"`
}
