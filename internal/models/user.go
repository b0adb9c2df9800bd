package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a FuseLink account and its public page settings
type User struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Name     string `json:"name"`
	Bio      string `gorm:"type:text" json:"bio"`

	PasswordHash string `gorm:"type:text;not null" json:"-"`

	// Profile media
	ProfileImage string `json:"profile_image"`
	ProfileVideo string `json:"profile_video"`

	// Appearance customization for the public page
	Theme           string `gorm:"default:default" json:"theme"`
	BackgroundColor string `json:"background_color"`
	BackgroundType  string `gorm:"default:color" json:"background_type"` // color, gradient, image, video
	BackgroundValue string `json:"background_value"`
	ButtonStyle     string `gorm:"default:rounded" json:"button_style"` // rounded, square, pill
	ButtonColor     string `json:"button_color"`
	ButtonTextColor string `json:"button_text_color"`
	ButtonShadow    bool   `gorm:"default:false" json:"button_shadow"`
	FontFamily      string `json:"font_family"`
	FontSize        string `json:"font_size"`
	CustomLogo      string `json:"custom_logo"`
	Favicon         string `json:"favicon"`

	// SEO / tracking integrations
	MetaTitle         string `json:"meta_title"`
	MetaDescription   string `json:"meta_description"`
	GoogleAnalyticsID string `json:"google_analytics_id"`
	FacebookPixel     string `json:"facebook_pixel"`

	IsPublic       bool   `gorm:"default:true" json:"is_public"`
	RemoveBranding bool   `gorm:"default:false" json:"remove_branding"`
	CustomDomain   string `json:"custom_domain"`

	Plan          string     `gorm:"default:free" json:"plan"`
	PlanExpiresAt *time.Time `json:"plan_expires_at"`

	// GORM fields
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a UUID primary key so the model works on both
// postgres and the sqlite test database
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
