package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Book is a catalog record. Cover and File hold generated filenames assigned
// by the upload store; either may be empty when no asset was uploaded.
type Book struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string         `gorm:"not null;size:255" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Cover       string         `gorm:"size:255" json:"cover"`
	File        string         `gorm:"size:255" json:"file"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
