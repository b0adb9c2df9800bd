package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fuselink/backend/internal/analytics"
	"github.com/fuselink/backend/internal/metrics"
	"github.com/fuselink/backend/internal/util"
	"github.com/gin-gonic/gin"
)

const overviewCacheTTL = 60 * time.Second

// GetAnalyticsOverview returns the headline numbers for the trailing window.
// Results are cached briefly per (user, window); the dashboard polls this.
func (h *Handlers) GetAnalyticsOverview(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	days := windowDays(c)

	cacheKey := fmt.Sprintf("analytics:overview:%s:%d", userID, days)
	if h.cache != nil {
		if cached, hit := h.cache.Get(c.Request.Context(), cacheKey); hit {
			var overview analytics.Overview
			if err := json.Unmarshal([]byte(cached), &overview); err == nil {
				metrics.Get().CacheHitsTotal.WithLabelValues("analytics_overview").Inc()
				util.RespondData(c, http.StatusOK, &overview)
				return
			}
		}
		metrics.Get().CacheMissesTotal.WithLabelValues("analytics_overview").Inc()
	}

	overview, err := h.aggregator.GetOverview(userID, days)
	if err != nil {
		util.RespondInternalError(c, "failed to load analytics overview")
		return
	}

	if h.cache != nil {
		if payload, err := json.Marshal(overview); err == nil {
			h.cache.Set(c.Request.Context(), cacheKey, string(payload), overviewCacheTTL)
		}
	}

	util.RespondData(c, http.StatusOK, overview)
}

// GetAnalyticsChart returns the zero-filled daily view/click series
func (h *Handlers) GetAnalyticsChart(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	points, err := h.aggregator.GetChart(userID, windowDays(c))
	if err != nil {
		util.RespondInternalError(c, "failed to load analytics chart")
		return
	}

	util.RespondData(c, http.StatusOK, points)
}

// GetAnalyticsReferrers returns the top referrers breakdown
func (h *Handlers) GetAnalyticsReferrers(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	stats, err := h.aggregator.GetReferrers(userID, windowDays(c))
	if err != nil {
		util.RespondInternalError(c, "failed to load referrers")
		return
	}

	util.RespondData(c, http.StatusOK, stats)
}

// GetAnalyticsLocations returns the top locations breakdown
func (h *Handlers) GetAnalyticsLocations(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	stats, err := h.aggregator.GetLocations(userID, windowDays(c))
	if err != nil {
		util.RespondInternalError(c, "failed to load locations")
		return
	}

	util.RespondData(c, http.StatusOK, stats)
}

// GetAnalyticsDevices returns the device breakdown
func (h *Handlers) GetAnalyticsDevices(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	stats, err := h.aggregator.GetDevices(userID, windowDays(c))
	if err != nil {
		util.RespondInternalError(c, "failed to load devices")
		return
	}

	util.RespondData(c, http.StatusOK, stats)
}

// ExportAnalytics returns the raw event rows for offline analysis. Defaults
// to a 30 day window, wider than the dashboard views.
func (h *Handlers) ExportAnalytics(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	days := util.ParseInt(c.Query("days"), 30)
	if days < 1 || days > 365 {
		days = 30
	}

	export, err := h.aggregator.GetExport(userID, days)
	if err != nil {
		util.RespondInternalError(c, "failed to export analytics")
		return
	}

	util.RespondData(c, http.StatusOK, export)
}
