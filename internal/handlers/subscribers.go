package handlers

import (
	"errors"
	"net/http"

	"github.com/fuselink/backend/internal/database"
	"github.com/fuselink/backend/internal/models"
	"github.com/fuselink/backend/internal/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateSubscriberRequest is the public capture-widget payload. The user id
// names whose page collected the subscriber; the caller is anonymous.
type CreateSubscriberRequest struct {
	UserID string   `json:"user_id" binding:"required"`
	Email  string   `json:"email" binding:"required,email"`
	Phone  string   `json:"phone"`
	Source string   `json:"source"`
	Tags   []string `json:"tags"`
}

// GetSubscribers lists the user's subscribers, newest first
func (h *Handlers) GetSubscribers(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var subscribers []models.EmailSubscriber
	err := database.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&subscribers).Error
	if err != nil {
		util.RespondInternalError(c, "failed to load subscribers")
		return
	}

	util.RespondData(c, http.StatusOK, subscribers)
}

// CreateSubscriber records a new subscriber from a public page widget
func (h *Handlers) CreateSubscriber(c *gin.Context) {
	var req CreateSubscriberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "email", "user_id and a valid email are required")
		return
	}

	var user models.User
	err := database.DB.Select("id").Where("id = ?", req.UserID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.RespondNotFound(c, "user")
			return
		}
		util.RespondInternalError(c, "failed to subscribe")
		return
	}

	subscriber := models.EmailSubscriber{
		UserID:   user.ID,
		Email:    req.Email,
		Phone:    req.Phone,
		Source:   req.Source,
		Tags:     req.Tags,
		IsActive: true,
	}

	if err := database.DB.Create(&subscriber).Error; err != nil {
		util.RespondInternalError(c, "failed to subscribe")
		return
	}

	util.RespondData(c, http.StatusCreated, subscriber)
}

// DeleteSubscriber removes one of the user's subscribers. Someone else's
// subscriber reads as not found.
func (h *Handlers) DeleteSubscriber(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var subscriber models.EmailSubscriber
	err := database.DB.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&subscriber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.RespondNotFound(c, "subscriber")
			return
		}
		util.RespondInternalError(c, "failed to delete subscriber")
		return
	}

	if err := database.DB.Delete(&subscriber).Error; err != nil {
		util.RespondInternalError(c, "failed to delete subscriber")
		return
	}

	util.RespondMessage(c, http.StatusOK, "subscriber deleted")
}

// ExportSubscribers returns the full subscriber list for download, same
// shape as GetSubscribers
func (h *Handlers) ExportSubscribers(c *gin.Context) {
	h.GetSubscribers(c)
}
