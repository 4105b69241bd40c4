package domain

import "time"

// User is the domain model for a registered account. Accounts start
// unapproved and may only move to approved; there is no way back.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Approved     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
