package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmailSubscriber is a visitor who left their email on a user's page
type EmailSubscriber struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"not null;index" json:"user_id"`

	Email  string   `gorm:"not null" json:"email"`
	Phone  string   `json:"phone"`
	Source string   `json:"source"` // which page widget collected it
	Tags   []string `gorm:"serializer:json" json:"tags"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	// GORM fields
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a UUID primary key
func (s *EmailSubscriber) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for EmailSubscriber
func (EmailSubscriber) TableName() string {
	return "email_subscribers"
}
