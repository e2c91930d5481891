package utils

import "errors"

// Messages are part of the API: clients show them verbatim.
var (
	ErrUnauthorized    = errors.New("Unauthorized")
	ErrInvalidToken    = errors.New("Invalid token")
	ErrForbidden       = errors.New("Forbidden")
	ErrUserNotFound    = errors.New("User not found")
	ErrInvalidPassword = errors.New("Invalid password")
	ErrInvalidID       = errors.New("Invalid id")
	ErrInvalidWorker   = errors.New("Invalid worker")
	ErrServer          = errors.New("Server Error")
)
