package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user; a taken email yields entities.ErrUserAlreadyExists
	Create(ctx context.Context, user *entities.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*entities.User, error)

	// FindByGoogleID finds a user by Google account id
	FindByGoogleID(ctx context.Context, googleID string) (*entities.User, error)

	// Verify marks the user owning token as verified and clears the token.
	// Returns entities.ErrVerificationTokenNotFound when no user holds it.
	Verify(ctx context.Context, token string) (*entities.User, error)

	// LinkGoogle attaches a Google account to an existing user
	LinkGoogle(ctx context.Context, userID uuid.UUID, googleID string, avatarURL *string) error

	// UpdateLastLogin updates the last login timestamp
	UpdateLastLogin(ctx context.Context, userID uuid.UUID) error

	// DeleteByEmail removes a user and their audit trail
	DeleteByEmail(ctx context.Context, email string) error
}

// LoginAuditRepository appends login audit records
type LoginAuditRepository interface {
	Create(ctx context.Context, audit *entities.LoginAudit) error
}
