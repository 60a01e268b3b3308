package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// LoginMethod records how a session token was obtained
type LoginMethod string

const (
	LoginMethodPassword LoginMethod = "password"
	LoginMethodGoogle   LoginMethod = "google"
)

// LoginAudit is an append-only record of an issued token.
// The token itself is stored encrypted.
type LoginAudit struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID         uuid.UUID      `json:"user_id" gorm:"type:uuid;index;not null"`
	Email          string         `json:"email" gorm:"type:varchar(255);not null"`
	Method         LoginMethod    `json:"method" gorm:"type:varchar(20);not null"`
	EncryptedToken string         `json:"-" gorm:"column:encrypted_token;type:text;not null"`
	Metadata       datatypes.JSON `json:"metadata" gorm:"type:jsonb;default:'{}'"`
	LoginAt        time.Time      `json:"login_at" gorm:"not null"`
}

// TableName keeps the original collection name
func (LoginAudit) TableName() string {
	return "user_login"
}

// LoginContext carries request details recorded with a login
type LoginContext struct {
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}
