package model

import "errors"

var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrAccessDenied       = errors.New("access denied")
	ErrInvalidInput       = errors.New("invalid input")
	ErrBoardNotFound      = errors.New("board not found")
	ErrProblemNotFound    = errors.New("problem not found")
	ErrAccessCodeNotFound = errors.New("access code not found")
	ErrAccessCodeExpired  = errors.New("access code expired")
	ErrAccessCodeExists   = errors.New("access code already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserEmailExists    = errors.New("user already exists")
)
