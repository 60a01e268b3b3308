package entities

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user in the system
type User struct {
	ID    uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Name  string    `json:"name" gorm:"type:varchar(255);not null;default:''"`

	// Local credentials
	PasswordHash *string `json:"-" gorm:"column:password_hash;type:text"` // Never expose in JSON

	// Google login
	GoogleID  *string `json:"-" gorm:"column:google_id;type:varchar(255);uniqueIndex"`
	AvatarURL *string `json:"avatar_url,omitempty" gorm:"type:varchar(500)"`

	// Email verification
	IsVerified        bool    `json:"is_verified" gorm:"default:false;not null"`
	VerificationToken *string `json:"-" gorm:"column:verification_token;type:varchar(128);uniqueIndex"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty" gorm:"type:timestamp"`

	// Timestamps
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName pins the table name used by migrations
func (User) TableName() string {
	return "users"
}

// NewLocalUser creates an unverified user that signs in with a password
func NewLocalUser(email, passwordHash, verificationToken string) *User {
	now := time.Now()
	return &User{
		ID:                uuid.New(),
		Email:             email,
		PasswordHash:      &passwordHash,
		IsVerified:        false,
		VerificationToken: &verificationToken,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// NewGoogleUser creates a user from a Google profile; the provider has verified the email
func NewGoogleUser(email, name, googleID string) *User {
	now := time.Now()
	return &User{
		ID:         uuid.New(),
		Email:      email,
		Name:       name,
		GoogleID:   &googleID,
		IsVerified: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// HasPassword reports whether the user can sign in locally
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// UpdateLastLogin updates the last login timestamp
func (u *User) UpdateLastLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// PublicUser returns a user with sensitive fields removed
type PublicUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// ToPublic converts User to PublicUser
func (u *User) ToPublic() *PublicUser {
	return &PublicUser{
		ID:    u.ID,
		Email: u.Email,
	}
}
