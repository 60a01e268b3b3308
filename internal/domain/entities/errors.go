package entities

import "errors"

// Domain errors
var (
	// User errors
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")

	// Verification
	ErrVerificationTokenNotFound = errors.New("verification token not found")

	// OAuth errors
	ErrOAuthStateMismatch = errors.New("oauth state mismatch")

	// Meeting errors
	ErrMeetingNotFound  = errors.New("meeting not found")
	ErrMeetingCompleted = errors.New("meeting already completed")
	ErrMeetingLocked    = errors.New("meeting is locked by another upload")

	// Store errors
	ErrStoreUnavailable = errors.New("store unavailable")
)
