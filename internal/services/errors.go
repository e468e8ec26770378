package services

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict is returned when a username or email is already registered.
	ErrConflict = errors.New("username or email already registered")

	// ErrInvalidInput is returned for missing, oversized or unstorable form fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAuthentication is the parent of every login failure.
	ErrAuthentication = errors.New("authentication failed")
	ErrUnknownUser    = fmt.Errorf("%w: no such user", ErrAuthentication)
	ErrBadCredentials = fmt.Errorf("%w: bad credentials", ErrAuthentication)

	// ErrUnauthenticated is returned when a session does not resolve to a user.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden is returned when a user acts on a note they do not own.
	ErrForbidden = errors.New("note belongs to another user")

	ErrNoteNotFound = errors.New("note not found")
	ErrNoteTooLong  = fmt.Errorf("note exceeds %d characters", maxNoteLength)
)
