package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Link is one entry on a user's page. Links form a user-scoped total order
// via the Order column; absolute values carry no meaning and gaps are fine.
type Link struct {
	ID           string  `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       string  `gorm:"not null;index:idx_links_user_order" json:"user_id"`
	CollectionID *string `gorm:"index" json:"collection_id"`

	Title       string `gorm:"not null" json:"title"`
	URL         string `gorm:"not null" json:"url"`
	Description string `gorm:"type:text" json:"description"`
	Icon        string `json:"icon"`
	Thumbnail   string `json:"thumbnail"`

	IsActive   bool `gorm:"default:true" json:"is_active"`
	IsPriority bool `gorm:"default:false" json:"is_priority"`
	IsFeatured bool `gorm:"default:false" json:"is_featured"`

	// Optional rich embed shown instead of a plain button
	EmbedType string `json:"embed_type"` // youtube, vimeo, tiktok
	EmbedURL  string `json:"embed_url"`

	// Optional visibility window
	ScheduleStart *time.Time `json:"schedule_start"`
	ScheduleEnd   *time.Time `json:"schedule_end"`

	Order int `gorm:"column:order;not null;index:idx_links_user_order" json:"order"`

	UTMSource   string `json:"utm_source"`
	UTMMedium   string `json:"utm_medium"`
	UTMCampaign string `json:"utm_campaign"`

	Collection *Collection `gorm:"foreignKey:CollectionID" json:"collection,omitempty"`

	// GORM fields
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a UUID primary key
func (l *Link) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for Link
func (Link) TableName() string {
	return "links"
}
