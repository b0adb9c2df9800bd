package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PageView is one profile visit event. Rows are append-only; nothing ever
// updates or deletes them during normal operation.
type PageView struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"not null;index:idx_page_views_user_created" json:"user_id"`

	Referrer *string `json:"referrer"`

	// Coarse location from the geo resolver; may be unknown
	Country *string `json:"country"`
	City    *string `json:"city"`
	Region  *string `json:"region"`

	// Classified request context
	Device  string `json:"device"` // mobile, tablet, desktop
	Browser string `json:"browser"`
	OS      string `json:"os"`

	IPAddress string `json:"ip_address"`
	UserAgent string `gorm:"type:text" json:"user_agent"`

	// First view for this (user, session) pair in the event history
	SessionID string `gorm:"index:idx_page_views_user_session" json:"session_id"`
	IsUnique  bool   `gorm:"default:false" json:"is_unique"`

	CreatedAt time.Time `gorm:"index:idx_page_views_user_created" json:"created_at"`
}

// BeforeCreate assigns a UUID primary key
func (v *PageView) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for PageView
func (PageView) TableName() string {
	return "page_views"
}

// LinkClick is one click event against a link. Ownership is resolved via the
// parent link, so the row carries no user id of its own.
type LinkClick struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	LinkID string `gorm:"not null;index:idx_link_clicks_link_created" json:"link_id"`

	Referrer *string `json:"referrer"`

	Country *string `json:"country"`
	City    *string `json:"city"`
	Region  *string `json:"region"`

	Device  string `json:"device"`
	Browser string `json:"browser"`
	OS      string `json:"os"`

	IPAddress string `json:"ip_address"`
	UserAgent string `gorm:"type:text" json:"user_agent"`

	SessionID string `gorm:"index:idx_link_clicks_link_session" json:"session_id"`
	IsUnique  bool   `gorm:"default:false" json:"is_unique"`

	// Milliseconds from page load to click, when the client reports it
	TimeToClick *int `json:"time_to_click"`

	Link Link `gorm:"foreignKey:LinkID" json:"link,omitempty"`

	CreatedAt time.Time `gorm:"index:idx_link_clicks_link_created" json:"created_at"`
}

// BeforeCreate assigns a UUID primary key
func (c *LinkClick) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for LinkClick
func (LinkClick) TableName() string {
	return "link_clicks"
}
