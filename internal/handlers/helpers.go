package handlers

import (
	"github.com/fuselink/backend/internal/analytics"
	"github.com/fuselink/backend/internal/util"
	"github.com/gin-gonic/gin"
)

// clientIP extracts the caller's address, preferring X-Forwarded-For so the
// recorded events survive a reverse proxy
func clientIP(c *gin.Context) string {
	return analytics.ClientIP(c.GetHeader("X-Forwarded-For"), c.ClientIP())
}

// windowDays parses the shared ?days query parameter. days=0 is legal and
// yields a single-day window covering today; negatives clamp to 0 and
// oversized values to a year.
func windowDays(c *gin.Context) int {
	days := util.ParseInt(c.Query("days"), 7)
	if days < 0 {
		days = 0
	}
	if days > 365 {
		days = 365
	}
	return days
}

// nilIfEmpty maps an absent form value to NULL so breakdowns can exclude it
func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
