package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/fuselink/backend/internal/database"
	"github.com/fuselink/backend/internal/models"
	"github.com/fuselink/backend/internal/store"
	"github.com/fuselink/backend/internal/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetMe returns the authenticated user's full profile
func (h *Handlers) GetMe(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}
	util.RespondData(c, http.StatusOK, user)
}

// UpdateMeRequest is the editable subset of the profile. Pointer fields
// distinguish "not sent" from "set to empty".
type UpdateMeRequest struct {
	Name              *string `json:"name"`
	Bio               *string `json:"bio"`
	ProfileImage      *string `json:"profile_image"`
	ProfileVideo      *string `json:"profile_video"`
	MetaTitle         *string `json:"meta_title"`
	MetaDescription   *string `json:"meta_description"`
	GoogleAnalyticsID *string `json:"google_analytics_id"`
	FacebookPixel     *string `json:"facebook_pixel"`
	IsPublic          *bool   `json:"is_public"`
	RemoveBranding    *bool   `json:"remove_branding"`
	CustomDomain      *string `json:"custom_domain"`
}

// UpdateMe applies a partial profile update
func (h *Handlers) UpdateMe(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "", "invalid profile payload")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.ProfileImage != nil {
		updates["profile_image"] = *req.ProfileImage
	}
	if req.ProfileVideo != nil {
		updates["profile_video"] = *req.ProfileVideo
	}
	if req.MetaTitle != nil {
		updates["meta_title"] = *req.MetaTitle
	}
	if req.MetaDescription != nil {
		updates["meta_description"] = *req.MetaDescription
	}
	if req.GoogleAnalyticsID != nil {
		updates["google_analytics_id"] = *req.GoogleAnalyticsID
	}
	if req.FacebookPixel != nil {
		updates["facebook_pixel"] = *req.FacebookPixel
	}
	if req.IsPublic != nil {
		updates["is_public"] = *req.IsPublic
	}
	if req.RemoveBranding != nil {
		updates["remove_branding"] = *req.RemoveBranding
	}
	if req.CustomDomain != nil {
		updates["custom_domain"] = *req.CustomDomain
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
		if err := database.DB.Model(user).Updates(updates).Error; err != nil {
			util.RespondInternalError(c, "failed to update profile")
			return
		}
	}

	util.RespondData(c, http.StatusOK, user)
}

// UpdateAppearanceRequest covers the public page theming knobs
type UpdateAppearanceRequest struct {
	Theme           *string `json:"theme"`
	BackgroundColor *string `json:"background_color"`
	BackgroundType  *string `json:"background_type"`
	BackgroundValue *string `json:"background_value"`
	ButtonStyle     *string `json:"button_style"`
	ButtonColor     *string `json:"button_color"`
	ButtonTextColor *string `json:"button_text_color"`
	ButtonShadow    *bool   `json:"button_shadow"`
	FontFamily      *string `json:"font_family"`
	FontSize        *string `json:"font_size"`
	CustomLogo      *string `json:"custom_logo"`
	Favicon         *string `json:"favicon"`
}

// UpdateAppearance applies a partial appearance update
func (h *Handlers) UpdateAppearance(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	var req UpdateAppearanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "", "invalid appearance payload")
		return
	}

	updates := map[string]interface{}{}
	if req.Theme != nil {
		updates["theme"] = *req.Theme
	}
	if req.BackgroundColor != nil {
		updates["background_color"] = *req.BackgroundColor
	}
	if req.BackgroundType != nil {
		updates["background_type"] = *req.BackgroundType
	}
	if req.BackgroundValue != nil {
		updates["background_value"] = *req.BackgroundValue
	}
	if req.ButtonStyle != nil {
		updates["button_style"] = *req.ButtonStyle
	}
	if req.ButtonColor != nil {
		updates["button_color"] = *req.ButtonColor
	}
	if req.ButtonTextColor != nil {
		updates["button_text_color"] = *req.ButtonTextColor
	}
	if req.ButtonShadow != nil {
		updates["button_shadow"] = *req.ButtonShadow
	}
	if req.FontFamily != nil {
		updates["font_family"] = *req.FontFamily
	}
	if req.FontSize != nil {
		updates["font_size"] = *req.FontSize
	}
	if req.CustomLogo != nil {
		updates["custom_logo"] = *req.CustomLogo
	}
	if req.Favicon != nil {
		updates["favicon"] = *req.Favicon
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
		if err := database.DB.Model(user).Updates(updates).Error; err != nil {
			util.RespondInternalError(c, "failed to update appearance")
			return
		}
	}

	util.RespondData(c, http.StatusOK, user)
}

// PublicProfile is the payload served to page visitors
type PublicProfile struct {
	User        *models.User        `json:"user"`
	Links       []models.Link       `json:"links"`
	Collections []models.Collection `json:"collections"`
	SocialLinks []models.SocialLink `json:"social_links"`
}

// GetPublicProfile serves a user's page by username. Private profiles are
// visible only to their owner; everyone else gets a 403.
func (h *Handlers) GetPublicProfile(c *gin.Context) {
	username := c.Param("username")

	var user models.User
	err := database.DB.Where("LOWER(username) = LOWER(?)", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.RespondNotFound(c, "profile")
			return
		}
		util.RespondInternalError(c, "failed to load profile")
		return
	}

	if !user.IsPublic && util.OptionalUserID(c) != user.ID {
		util.RespondForbidden(c, "this profile is private")
		return
	}

	now := time.Now()
	profile := PublicProfile{User: &user}

	// Active links inside their schedule window, page order
	err = store.Ordered(database.DB, user.ID).
		Where("is_active = ?", true).
		Where("schedule_start IS NULL OR schedule_start <= ?", now).
		Where("schedule_end IS NULL OR schedule_end >= ?", now).
		Find(&profile.Links).Error
	if err != nil {
		util.RespondInternalError(c, "failed to load profile")
		return
	}

	err = store.Ordered(database.DB, user.ID).
		Where("is_active = ?", true).
		Find(&profile.Collections).Error
	if err != nil {
		util.RespondInternalError(c, "failed to load profile")
		return
	}

	err = store.Ordered(database.DB, user.ID).
		Where("is_active = ?", true).
		Find(&profile.SocialLinks).Error
	if err != nil {
		util.RespondInternalError(c, "failed to load profile")
		return
	}

	util.RespondData(c, http.StatusOK, profile)
}

// DeleteAccount soft deletes the authenticated user and their curated
// entities. Recorded events stay; aggregation excludes deleted links via
// the ownership join.
func (h *Handlers) DeleteAccount(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Link{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Collection{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.SocialLink{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.EmailSubscriber{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", userID).Delete(&models.User{}).Error
	})
	if err != nil {
		util.RespondInternalError(c, "failed to delete account")
		return
	}

	util.RespondMessage(c, http.StatusOK, "account deleted")
}
