package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/fuselink/backend/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// allowedUploadExts is the image/video whitelist for page media
var allowedUploadExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".mp4":  true,
	".webm": true,
}

// UploadFile accepts a multipart image or video and stores it under the
// upload directory with a random name. The same handler backs every upload
// kind; the route only signals intent to the client.
func (h *Handlers) UploadFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		util.RespondBadRequest(c, "no file provided in 'file' field")
		return
	}

	if file.Size > h.maxFileSize {
		util.RespondBadRequest(c, fmt.Sprintf("file exceeds the %d byte limit", h.maxFileSize))
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedUploadExts[ext] {
		util.RespondBadRequest(c, "invalid file type, only images and videos are allowed")
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		util.RespondInternalError(c, "failed to store file")
		return
	}

	filename := uuid.NewString() + ext
	dst := filepath.Join(h.uploadDir, filename)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		util.RespondInternalError(c, "failed to store file")
		return
	}

	util.RespondData(c, http.StatusOK, gin.H{
		"url":      "/uploads/" + filename,
		"filename": filename,
		"size":     file.Size,
	})
}
