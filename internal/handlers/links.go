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

// CreateLinkRequest carries the fields a link can be created with. Order is
// assigned by the store, never by the client.
type CreateLinkRequest struct {
	Title         string     `json:"title" binding:"required,max=200"`
	URL           string     `json:"url" binding:"required,url"`
	Description   string     `json:"description"`
	Icon          string     `json:"icon"`
	Thumbnail     string     `json:"thumbnail"`
	CollectionID  *string    `json:"collection_id"`
	IsPriority    bool       `json:"is_priority"`
	IsFeatured    bool       `json:"is_featured"`
	EmbedType     string     `json:"embed_type"`
	EmbedURL      string     `json:"embed_url"`
	ScheduleStart *time.Time `json:"schedule_start"`
	ScheduleEnd   *time.Time `json:"schedule_end"`
	UTMSource     string     `json:"utm_source"`
	UTMMedium     string     `json:"utm_medium"`
	UTMCampaign   string     `json:"utm_campaign"`
}

// UpdateLinkRequest is the partial-update form of CreateLinkRequest
type UpdateLinkRequest struct {
	Title         *string    `json:"title"`
	URL           *string    `json:"url"`
	Description   *string    `json:"description"`
	Icon          *string    `json:"icon"`
	Thumbnail     *string    `json:"thumbnail"`
	CollectionID  *string    `json:"collection_id"`
	IsActive      *bool      `json:"is_active"`
	IsPriority    *bool      `json:"is_priority"`
	IsFeatured    *bool      `json:"is_featured"`
	EmbedType     *string    `json:"embed_type"`
	EmbedURL      *string    `json:"embed_url"`
	ScheduleStart *time.Time `json:"schedule_start"`
	ScheduleEnd   *time.Time `json:"schedule_end"`
	UTMSource     *string    `json:"utm_source"`
	UTMMedium     *string    `json:"utm_medium"`
	UTMCampaign   *string    `json:"utm_campaign"`
}

// GetLinks lists the user's links in page order with their click counts
func (h *Handlers) GetLinks(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var links []models.Link
	err := store.Ordered(database.DB, userID).
		Preload("Collection").
		Find(&links).Error
	if err != nil {
		util.RespondInternalError(c, "failed to load links")
		return
	}

	type linkWithClicks struct {
		models.Link
		ClickCount int64 `json:"click_count"`
	}

	out := make([]linkWithClicks, 0, len(links))
	for _, link := range links {
		var clicks int64
		if err := database.DB.Model(&models.LinkClick{}).Where("link_id = ?", link.ID).Count(&clicks).Error; err != nil {
			util.RespondInternalError(c, "failed to load links")
			return
		}
		out = append(out, linkWithClicks{Link: link, ClickCount: clicks})
	}

	util.RespondData(c, http.StatusOK, out)
}

// CreateLink appends a link to the end of the user's page
func (h *Handlers) CreateLink(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "", "title and a valid url are required")
		return
	}

	if req.CollectionID != nil {
		if _, ok := h.ownedCollection(c, userID, *req.CollectionID); !ok {
			return
		}
	}

	order, err := store.NextOrder(database.DB, &models.Link{}, userID)
	if err != nil {
		util.RespondInternalError(c, "failed to create link")
		return
	}

	link := models.Link{
		UserID:        userID,
		CollectionID:  req.CollectionID,
		Title:         req.Title,
		URL:           req.URL,
		Description:   req.Description,
		Icon:          req.Icon,
		Thumbnail:     req.Thumbnail,
		IsActive:      true,
		IsPriority:    req.IsPriority,
		IsFeatured:    req.IsFeatured,
		EmbedType:     req.EmbedType,
		EmbedURL:      req.EmbedURL,
		ScheduleStart: req.ScheduleStart,
		ScheduleEnd:   req.ScheduleEnd,
		Order:         order,
		UTMSource:     req.UTMSource,
		UTMMedium:     req.UTMMedium,
		UTMCampaign:   req.UTMCampaign,
	}

	if err := database.DB.Create(&link).Error; err != nil {
		util.RespondInternalError(c, "failed to create link")
		return
	}

	util.RespondData(c, http.StatusCreated, link)
}

// UpdateLink applies a partial update to one of the user's links
func (h *Handlers) UpdateLink(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	link, ok := h.ownedLink(c, userID, c.Param("id"))
	if !ok {
		return
	}

	var req UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "", "invalid link payload")
		return
	}

	if req.CollectionID != nil && *req.CollectionID != "" {
		if _, ok := h.ownedCollection(c, userID, *req.CollectionID); !ok {
			return
		}
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.URL != nil {
		updates["url"] = *req.URL
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Icon != nil {
		updates["icon"] = *req.Icon
	}
	if req.Thumbnail != nil {
		updates["thumbnail"] = *req.Thumbnail
	}
	if req.CollectionID != nil {
		if *req.CollectionID == "" {
			updates["collection_id"] = nil
		} else {
			updates["collection_id"] = *req.CollectionID
		}
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.IsPriority != nil {
		updates["is_priority"] = *req.IsPriority
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}
	if req.EmbedType != nil {
		updates["embed_type"] = *req.EmbedType
	}
	if req.EmbedURL != nil {
		updates["embed_url"] = *req.EmbedURL
	}
	if req.ScheduleStart != nil {
		updates["schedule_start"] = *req.ScheduleStart
	}
	if req.ScheduleEnd != nil {
		updates["schedule_end"] = *req.ScheduleEnd
	}
	if req.UTMSource != nil {
		updates["utm_source"] = *req.UTMSource
	}
	if req.UTMMedium != nil {
		updates["utm_medium"] = *req.UTMMedium
	}
	if req.UTMCampaign != nil {
		updates["utm_campaign"] = *req.UTMCampaign
	}

	if len(updates) > 0 {
		if err := database.DB.Model(link).Updates(updates).Error; err != nil {
			util.RespondInternalError(c, "failed to update link")
			return
		}
	}

	util.RespondData(c, http.StatusOK, link)
}

// DeleteLink soft deletes one of the user's links. Its click history stays
// recorded but drops out of the owner's aggregates.
func (h *Handlers) DeleteLink(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	link, ok := h.ownedLink(c, userID, c.Param("id"))
	if !ok {
		return
	}

	if err := database.DB.Delete(link).Error; err != nil {
		util.RespondInternalError(c, "failed to delete link")
		return
	}

	util.RespondMessage(c, http.StatusOK, "link deleted")
}

// ReorderLinks applies a batch of order updates atomically. A batch naming a
// link the user does not own fails whole with a 404 and changes nothing.
func (h *Handlers) ReorderLinks(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req struct {
		Links []store.OrderUpdate `json:"links" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "links", "a non-empty links array is required")
		return
	}

	if err := store.Reorder(database.DB, &models.Link{}, userID, req.Links); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.RespondNotFound(c, "link")
			return
		}
		util.RespondInternalError(c, "failed to reorder links")
		return
	}

	util.RespondMessage(c, http.StatusOK, "links reordered")
}

// GetLinkAnalytics returns the click rollup for one of the user's links
func (h *Handlers) GetLinkAnalytics(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	link, ok := h.ownedLink(c, userID, c.Param("id"))
	if !ok {
		return
	}

	stats, err := h.aggregator.GetLinkStats(link.ID, windowDays(c))
	if err != nil {
		util.RespondInternalError(c, "failed to load link analytics")
		return
	}

	util.RespondData(c, http.StatusOK, stats)
}

// ownedLink loads a link and verifies ownership. Someone else's link and a
// missing link are indistinguishable to the caller; both read as not found.
func (h *Handlers) ownedLink(c *gin.Context, userID, linkID string) (*models.Link, bool) {
	var link models.Link
	err := database.DB.Where("id = ? AND user_id = ?", linkID, userID).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.RespondNotFound(c, "link")
		} else {
			util.RespondInternalError(c, "failed to load link")
		}
		return nil, false
	}
	return &link, true
}
