package model

import (
	"errors"
)

// LoginForm is the /login submission.
type LoginForm struct {
	Username string `form:"username" json:"username" validate:"notblank"`
	Password string `form:"password" json:"-" validate:"required"`
}

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Identity is the authenticated user attached to a session.
type Identity struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
