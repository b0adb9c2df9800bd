package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Collection groups links on a user's page and carries a display layout.
// Collections keep their own order sequence, independent from links.
type Collection struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"not null;index:idx_collections_user_order" json:"user_id"`

	Name   string `gorm:"not null" json:"name"`
	Layout string `gorm:"default:grid" json:"layout"` // grid, carousel, list

	Order    int  `gorm:"column:order;not null;index:idx_collections_user_order" json:"order"`
	IsActive bool `gorm:"default:true" json:"is_active"`

	Links []Link `gorm:"foreignKey:CollectionID" json:"links,omitempty"`

	// GORM fields
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a UUID primary key
func (c *Collection) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for Collection
func (Collection) TableName() string {
	return "collections"
}
