// Package common defines sentinel errors shared by the snapshop client
// layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Account errors surfaced as inline form messages.
	ErrDuplicateAccount    = errors.New("an account with this email already exists")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrCredentialsRequired = errors.New("email and password are required")

	// Session errors.
	ErrNoSession = errors.New("not logged in")

	// Search errors.
	ErrEmptyQuery = errors.New("search query is empty")
)
