package models

import "time"

// User is an account of the identity service. Email is stored lowercased.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	Lab          string
	PasswordHash []byte
	CreatedAt    time.Time
}
