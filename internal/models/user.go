package models

import (
	"time"
)

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt hash, never serialized
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
