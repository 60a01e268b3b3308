package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
)

// LoginAuditRepository stores login audit rows using GORM
type LoginAuditRepository struct {
	db *gorm.DB
}

// NewLoginAuditRepository creates a new login audit repository
func NewLoginAuditRepository(db *gorm.DB) *LoginAuditRepository {
	return &LoginAuditRepository{db: db}
}

// Create appends an audit record
func (r *LoginAuditRepository) Create(ctx context.Context, audit *entities.LoginAudit) error {
	if err := r.db.WithContext(ctx).Create(audit).Error; err != nil {
		return fmt.Errorf("failed to create login audit: %w", err)
	}
	return nil
}
