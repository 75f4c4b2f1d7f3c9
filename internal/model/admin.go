package model

import "time"

// AdminID uniquely identifies an administrator (a UUID string)
type AdminID string

// Admin is an administrator account able to run game sessions
type Admin struct {
	ID           AdminID
	Email        string // login email (unique)
	Name         string
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
}
