package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a platform identity record. The admin capability is not stored on
// the row; it is derived from the externally configured admin set.
type User struct {
	Base
	Login        string `json:"login" db:"login"`
	Name         string `json:"name" db:"name"`
	Email        string `json:"email" db:"email"`
	Password     string `json:"-" db:"-"`
	PasswordHash string `json:"-" db:"password_hash"`
	Profile      string `json:"profile" db:"profile"`
}

// UserFilters narrows List queries.
type UserFilters struct {
	Profile string
	Group   string
}

type CreateUserRequest struct {
	Login    string `json:"login" validate:"required,min=2,max=64"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Profile  string `json:"profile"`
}

type UpdateUserRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Profile *string `json:"profile"`
}

// Connection is a live user session, registered on login and removed on
// logout or by the idle reaper.
type Connection struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	ClientAddr    string    `json:"client_addr" db:"client_addr"`
	EstablishedAt time.Time `json:"established_at" db:"established_at"`
	LastActiveAt  time.Time `json:"last_active_at" db:"last_active_at"`
}
