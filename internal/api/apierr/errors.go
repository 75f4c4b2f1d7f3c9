package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/roulettegame/internal/model"
	"github.com/mcoot/roulettegame/internal/services/auth"
)

// ErrorResponse is the JSON body of every error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error codes
const (
	CodeBadRequest    = "BAD_REQUEST"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeInternalError = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an error body
type httpError struct {
	status int
	body   ErrorResponse
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.body.Message
}

type mapping struct {
	target  error
	status  int
	code    string
	message string
}

var mappings = []mapping{
	// Admin errors
	{model.ErrInvalidAdminID, http.StatusBadRequest, CodeBadRequest, "Invalid admin id"},
	{model.ErrAdminNotFound, http.StatusNotFound, CodeNotFound, "Admin not found"},
	{model.ErrAdminExists, http.StatusConflict, CodeConflict, "An admin with this email already exists"},

	// Session errors
	{model.ErrSessionIDRequired, http.StatusBadRequest, CodeBadRequest, "Session id is required"},
	{model.ErrSessionNotFound, http.StatusNotFound, CodeNotFound, "Session not found"},
	{model.ErrSessionNotClosable, http.StatusBadRequest, CodeBadRequest, "Session has already ended"},
	{model.ErrSessionNotActive, http.StatusBadRequest, CodeBadRequest, "Session is not active"},
	{model.ErrInvalidSessionStatus, http.StatusBadRequest, CodeBadRequest, "Invalid session status"},
	{model.ErrInvalidSessionTransition, http.StatusBadRequest, CodeBadRequest, "Invalid session status transition"},

	// Queue errors
	{model.ErrInvalidQueue, http.StatusBadRequest, CodeBadRequest, "Waiting queue must be a list of participant ids"},

	// Participant errors
	{model.ErrParticipantIDRequired, http.StatusBadRequest, CodeBadRequest, "Participant id is required"},
	{model.ErrParticipantNotFound, http.StatusNotFound, CodeNotFound, "Participant not found"},
	{model.ErrInvalidParticipantStatus, http.StatusBadRequest, CodeBadRequest, "Invalid participant status"},
	{model.ErrStatusNotAllowed, http.StatusBadRequest, CodeBadRequest, "Status not allowed"},
	{model.ErrInvalidParticipant, http.StatusBadRequest, CodeBadRequest, "Invalid participant details"},

	// Auth errors
	{auth.ErrMissingCredentials, http.StatusBadRequest, CodeBadRequest, "Email and password are required"},
	{auth.ErrInvalidCredentials, http.StatusUnauthorized, CodeUnauthorized, "Invalid email or password"},
	{auth.ErrInvalidToken, http.StatusUnauthorized, CodeUnauthorized, "Invalid or expired token"},
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(he.body)
}

// StatusCode returns the HTTP status an error maps to
func StatusCode(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError. Wrapped sentinel errors carry
// their extra context in details.
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	for _, m := range mappings {
		if !errors.Is(err, m.target) {
			continue
		}
		body := ErrorResponse{Error: m.code, Message: m.message}
		if err.Error() != m.target.Error() {
			body.Details = err.Error()
		}
		return &httpError{m.status, body}
	}

	return &httpError{http.StatusInternalServerError, ErrorResponse{Error: CodeInternalError, Message: "Internal server error"}}
}

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) error {
	return &httpError{http.StatusBadRequest, ErrorResponse{Error: CodeBadRequest, Message: message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, ErrorResponse{Error: CodeUnauthorized, Message: "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, ErrorResponse{Error: CodeInternalError, Message: "Internal server error"}}
}
