package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// RoleMember is the baseline role assigned when registration omits one.
	RoleMember = "member"
	// RoleAdmin is required for mutating book operations.
	RoleAdmin = "admin"
)

// User is an identity record. Email is the unique lookup key and is matched
// exactly, with no case folding on storage or lookup.
type User struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email      string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password   string         `gorm:"size:255" json:"-"` // bcrypt hash, empty for federated-only accounts
	Name       string         `gorm:"size:255" json:"name"`
	Provider   string         `gorm:"size:50" json:"-"`
	ProviderID string         `gorm:"size:255;index" json:"-"`
	Role       string         `gorm:"size:20;default:'member'" json:"role"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
