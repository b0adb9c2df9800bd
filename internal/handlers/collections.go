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

// CreateCollectionRequest carries the fields a collection is created with
type CreateCollectionRequest struct {
	Name   string `json:"name" binding:"required,max=100"`
	Layout string `json:"layout" binding:"omitempty,oneof=grid carousel list"`
}

// UpdateCollectionRequest is the partial-update form
type UpdateCollectionRequest struct {
	Name     *string `json:"name"`
	Layout   *string `json:"layout" binding:"omitempty,oneof=grid carousel list"`
	IsActive *bool   `json:"is_active"`
}

// GetCollections lists the user's collections in page order with their links
func (h *Handlers) GetCollections(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var collections []models.Collection
	err := store.Ordered(database.DB, userID).
		Preload("Links", func(db *gorm.DB) *gorm.DB {
			return db.Order(`"order" ASC, created_at ASC`)
		}).
		Find(&collections).Error
	if err != nil {
		util.RespondInternalError(c, "failed to load collections")
		return
	}

	util.RespondData(c, http.StatusOK, collections)
}

// CreateCollection appends a collection to the user's page
func (h *Handlers) CreateCollection(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "name", "name is required")
		return
	}

	order, err := store.NextOrder(database.DB, &models.Collection{}, userID)
	if err != nil {
		util.RespondInternalError(c, "failed to create collection")
		return
	}

	collection := models.Collection{
		UserID:   userID,
		Name:     req.Name,
		Layout:   req.Layout,
		Order:    order,
		IsActive: true,
	}
	if collection.Layout == "" {
		collection.Layout = "grid"
	}

	if err := database.DB.Create(&collection).Error; err != nil {
		util.RespondInternalError(c, "failed to create collection")
		return
	}

	util.RespondData(c, http.StatusCreated, collection)
}

// UpdateCollection applies a partial update to one of the user's collections
func (h *Handlers) UpdateCollection(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	collection, ok := h.ownedCollection(c, userID, c.Param("id"))
	if !ok {
		return
	}

	var req UpdateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "", "invalid collection payload")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Layout != nil {
		updates["layout"] = *req.Layout
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := database.DB.Model(collection).Updates(updates).Error; err != nil {
			util.RespondInternalError(c, "failed to update collection")
			return
		}
	}

	util.RespondData(c, http.StatusOK, collection)
}

// DeleteCollection soft deletes a collection. Its links survive as
// top-level links.
func (h *Handlers) DeleteCollection(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	collection, ok := h.ownedCollection(c, userID, c.Param("id"))
	if !ok {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Link{}).
			Where("collection_id = ? AND user_id = ?", collection.ID, userID).
			Update("collection_id", nil).Error
		if err != nil {
			return err
		}
		return tx.Delete(collection).Error
	})
	if err != nil {
		util.RespondInternalError(c, "failed to delete collection")
		return
	}

	util.RespondMessage(c, http.StatusOK, "collection deleted")
}

// ReorderCollections applies a batch of order updates atomically
func (h *Handlers) ReorderCollections(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req struct {
		Collections []store.OrderUpdate `json:"collections" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "collections", "a non-empty collections array is required")
		return
	}

	if err := store.Reorder(database.DB, &models.Collection{}, userID, req.Collections); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.RespondNotFound(c, "collection")
			return
		}
		util.RespondInternalError(c, "failed to reorder collections")
		return
	}

	util.RespondMessage(c, http.StatusOK, "collections reordered")
}

func (h *Handlers) ownedCollection(c *gin.Context, userID, collectionID string) (*models.Collection, bool) {
	var collection models.Collection
	err := database.DB.Where("id = ? AND user_id = ?", collectionID, userID).First(&collection).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.RespondNotFound(c, "collection")
		} else {
			util.RespondInternalError(c, "failed to load collection")
		}
		return nil, false
	}
	return &collection, true
}
