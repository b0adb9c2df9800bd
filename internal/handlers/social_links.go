package handlers

import (
	"errors"
	"net/http"

	"github.com/fuselink/backend/internal/database"
	"github.com/fuselink/backend/internal/models"
	"github.com/fuselink/backend/internal/store"
	"github.com/fuselink/backend/internal/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateSocialLinkRequest carries the fields a social link is created with
type CreateSocialLinkRequest struct {
	Platform string `json:"platform" binding:"required,max=50"`
	URL      string `json:"url" binding:"required,url"`
	Icon     string `json:"icon"`
}

// UpdateSocialLinkRequest is the partial-update form
type UpdateSocialLinkRequest struct {
	Platform *string `json:"platform"`
	URL      *string `json:"url"`
	Icon     *string `json:"icon"`
	IsActive *bool   `json:"is_active"`
}

// GetSocialLinks lists the user's social links in page order
func (h *Handlers) GetSocialLinks(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var socialLinks []models.SocialLink
	if err := store.Ordered(database.DB, userID).Find(&socialLinks).Error; err != nil {
		util.RespondInternalError(c, "failed to load social links")
		return
	}

	util.RespondData(c, http.StatusOK, socialLinks)
}

// CreateSocialLink appends a social link to the user's page
func (h *Handlers) CreateSocialLink(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req CreateSocialLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "", "platform and a valid url are required")
		return
	}

	order, err := store.NextOrder(database.DB, &models.SocialLink{}, userID)
	if err != nil {
		util.RespondInternalError(c, "failed to create social link")
		return
	}

	socialLink := models.SocialLink{
		UserID:   userID,
		Platform: req.Platform,
		URL:      req.URL,
		Icon:     req.Icon,
		Order:    order,
		IsActive: true,
	}

	if err := database.DB.Create(&socialLink).Error; err != nil {
		util.RespondInternalError(c, "failed to create social link")
		return
	}

	util.RespondData(c, http.StatusCreated, socialLink)
}

// UpdateSocialLink applies a partial update to one of the user's social links
func (h *Handlers) UpdateSocialLink(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	socialLink, ok := h.ownedSocialLink(c, userID, c.Param("id"))
	if !ok {
		return
	}

	var req UpdateSocialLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "", "invalid social link payload")
		return
	}

	updates := map[string]interface{}{}
	if req.Platform != nil {
		updates["platform"] = *req.Platform
	}
	if req.URL != nil {
		updates["url"] = *req.URL
	}
	if req.Icon != nil {
		updates["icon"] = *req.Icon
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := database.DB.Model(socialLink).Updates(updates).Error; err != nil {
			util.RespondInternalError(c, "failed to update social link")
			return
		}
	}

	util.RespondData(c, http.StatusOK, socialLink)
}

// DeleteSocialLink soft deletes one of the user's social links
func (h *Handlers) DeleteSocialLink(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	socialLink, ok := h.ownedSocialLink(c, userID, c.Param("id"))
	if !ok {
		return
	}

	if err := database.DB.Delete(socialLink).Error; err != nil {
		util.RespondInternalError(c, "failed to delete social link")
		return
	}

	util.RespondMessage(c, http.StatusOK, "social link deleted")
}

// ReorderSocialLinks applies a batch of order updates atomically
func (h *Handlers) ReorderSocialLinks(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req struct {
		SocialLinks []store.OrderUpdate `json:"social_links" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "social_links", "a non-empty social_links array is required")
		return
	}

	if err := store.Reorder(database.DB, &models.SocialLink{}, userID, req.SocialLinks); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.RespondNotFound(c, "social link")
			return
		}
		util.RespondInternalError(c, "failed to reorder social links")
		return
	}

	util.RespondMessage(c, http.StatusOK, "social links reordered")
}

func (h *Handlers) ownedSocialLink(c *gin.Context, userID, socialLinkID string) (*models.SocialLink, bool) {
	var socialLink models.SocialLink
	err := database.DB.Where("id = ? AND user_id = ?", socialLinkID, userID).First(&socialLink).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.RespondNotFound(c, "social link")
		} else {
			util.RespondInternalError(c, "failed to load social link")
		}
		return nil, false
	}
	return &socialLink, true
}
