package auth

import "github.com/pkg/errors"

var (
	ErrDuplicateAccount   = errors.New("Email already in use. Please try logging in.")
	ErrAccountNotFound    = errors.New("User not found.")
	ErrInvalidCredentials = errors.New("Invalid password.")
)
