package services

import "errors"

var (
	ErrBadCreds   = errors.New("invalid email or password")
	ErrUserExists = errors.New("User already exists")
	ErrBadToken   = errors.New("invalid or expired token")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("already exists")
	ErrInvalid    = errors.New("invalid input")
)
