package domain

import "errors"

// Lifecycle errors
var (
	ErrNotFound            = errors.New("record not found")
	ErrArchiveExpired      = errors.New("archive retention window has elapsed")
	ErrIncorrectCredential = errors.New("incorrect credential")
	ErrConflict            = errors.New("identity conflict")
	ErrUnauthorized        = errors.New("caller does not own this resource")
)

// Validation errors
var (
	ErrEmailTaken      = errors.New("email already registered")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrTitleRequired   = errors.New("document title is required")
	ErrContentTooLarge = errors.New("document content exceeds the size limit")
	ErrNameRequired    = errors.New("folder name is required")
)
