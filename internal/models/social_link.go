package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SocialLink is a platform icon link (Instagram, X, ...) on a user's page.
// Social links keep their own order sequence, independent from links.
type SocialLink struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"not null;index:idx_social_links_user_order" json:"user_id"`

	Platform string `gorm:"not null" json:"platform"`
	URL      string `gorm:"not null" json:"url"`
	Icon     string `json:"icon"`

	Order    int  `gorm:"column:order;not null;index:idx_social_links_user_order" json:"order"`
	IsActive bool `gorm:"default:true" json:"is_active"`

	// GORM fields
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a UUID primary key
func (s *SocialLink) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for SocialLink
func (SocialLink) TableName() string {
	return "social_links"
}
