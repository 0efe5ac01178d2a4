package models

import "time"

// User is a durable account record. UserToken is the stable opaque handle
// embedded in signed tokens; Email is stored case-folded.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	UserToken    string
	CreatedAt    time.Time
}
