package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
)

// UserRepository implements the user repository interface using GORM
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return entities.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByID finds a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByEmail finds a user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// FindByGoogleID finds a user by Google account id
func (r *UserRepository) FindByGoogleID(ctx context.Context, googleID string) (*entities.User, error) {
	return r.findOne(ctx, "google_id = ?", googleID)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg interface{}) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// Verify consumes a verification token. The conditional update makes the token single-use
// even when two requests race with the same value.
func (r *UserRepository) Verify(ctx context.Context, token string) (*entities.User, error) {
	var user entities.User

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("verification_token = ?", token).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return entities.ErrVerificationTokenNotFound
			}
			return err
		}

		now := time.Now()
		res := tx.Model(&entities.User{}).
			Where("id = ? AND verification_token = ?", user.ID, token).
			Updates(map[string]interface{}{
				"is_verified":        true,
				"verification_token": nil,
				"updated_at":         now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return entities.ErrVerificationTokenNotFound
		}

		user.IsVerified = true
		user.VerificationToken = nil
		user.UpdatedAt = now
		return nil
	})
	if err != nil {
		if errors.Is(err, entities.ErrVerificationTokenNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to verify user: %w", err)
	}

	return &user, nil
}

// LinkGoogle attaches a Google account to an existing user and marks the email verified.
// Credentials set on a never-verified account were not proven by the email owner, so they are dropped.
func (r *UserRepository) LinkGoogle(ctx context.Context, userID uuid.UUID, googleID string, avatarURL *string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user entities.User
		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return entities.ErrUserNotFound
			}
			return fmt.Errorf("failed to load user: %w", err)
		}

		updates := map[string]interface{}{
			"google_id":   googleID,
			"is_verified": true,
			"updated_at":  time.Now(),
		}
		if avatarURL != nil {
			updates["avatar_url"] = *avatarURL
		}
		if !user.IsVerified {
			updates["password_hash"] = gorm.Expr("NULL")
			updates["verification_token"] = gorm.Expr("NULL")
		}

		if err := tx.Model(&entities.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to link google account: %w", err)
		}
		return nil
	})
}

// UpdateLastLogin updates the last login timestamp
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	now := time.Now()
	if err := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"last_login_at": now,
			"updated_at":    now,
		}).Error; err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// DeleteByEmail removes a user and their audit trail
func (r *UserRepository) DeleteByEmail(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user entities.User
		if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return entities.ErrUserNotFound
			}
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&entities.LoginAudit{}).Error; err != nil {
			return fmt.Errorf("failed to delete login audit: %w", err)
		}
		if err := tx.Delete(&user).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}
