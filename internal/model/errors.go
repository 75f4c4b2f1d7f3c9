package model

import "errors"

// Common errors used across the application
var (
	// Admin errors
	ErrInvalidAdminID = errors.New("invalid admin id")
	ErrAdminNotFound  = errors.New("admin not found")
	ErrAdminExists    = errors.New("admin already exists")

	// Session errors
	ErrSessionIDRequired        = errors.New("session id is required")
	ErrSessionNotFound          = errors.New("session not found")
	ErrSessionNotClosable       = errors.New("session has already ended")
	ErrSessionNotActive         = errors.New("session is not active")
	ErrInvalidSessionStatus     = errors.New("invalid session status")
	ErrInvalidSessionTransition = errors.New("invalid session status transition")
	ErrSessionIDGeneration      = errors.New("could not generate a unique session id")

	// Queue errors
	ErrInvalidQueue = errors.New("waiting queue must be a list of participant ids")

	// Participant errors
	ErrParticipantIDRequired    = errors.New("participant id is required")
	ErrParticipantNotFound      = errors.New("participant not found")
	ErrInvalidParticipantStatus = errors.New("invalid participant status")
	ErrStatusNotAllowed         = errors.New("status not allowed for this caller")
	ErrInvalidParticipant       = errors.New("invalid participant details")
)
