package handlers

import (
	"github.com/fuselink/backend/internal/analytics"
	"github.com/fuselink/backend/internal/auth"
	"github.com/fuselink/backend/internal/cache"
	"github.com/fuselink/backend/internal/geo"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	auth        *auth.Service
	aggregator  *analytics.Aggregator
	geo         geo.Resolver
	cache       *cache.RedisClient
	uploadDir   string
	maxFileSize int64
}

// NewHandlers creates a new handlers instance
func NewHandlers(authService *auth.Service, aggregator *analytics.Aggregator, resolver geo.Resolver) *Handlers {
	return &Handlers{
		auth:        authService,
		aggregator:  aggregator,
		geo:         resolver,
		uploadDir:   "uploads",
		maxFileSize: 5 * 1024 * 1024,
	}
}

// SetCache sets the optional Redis cache used by the analytics endpoints
func (h *Handlers) SetCache(client *cache.RedisClient) {
	h.cache = client
}

// SetUploadConfig sets the upload directory and per-file size limit
func (h *Handlers) SetUploadConfig(dir string, maxFileSize int64) {
	h.uploadDir = dir
	h.maxFileSize = maxFileSize
}
