package handlers

import (
	"errors"
	"net/http"

	"github.com/fuselink/backend/internal/analytics"
	"github.com/fuselink/backend/internal/database"
	"github.com/fuselink/backend/internal/metrics"
	"github.com/fuselink/backend/internal/models"
	"github.com/fuselink/backend/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const sessionCookie = "session_id"

// TrackViewRequest identifies the visited profile by its owner's email
type TrackViewRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// TrackClickRequest identifies the clicked link, with the optional
// milliseconds from page load to click
type TrackClickRequest struct {
	LinkID      string `json:"link_id" binding:"required"`
	TimeToClick *int   `json:"time_to_click"`
}

// TrackView records a page view event. Anonymous by design; the uniqueness
// flag is per (profile, session). Recording never fails on geo lookup.
func (h *Handlers) TrackView(c *gin.Context) {
	var req TrackViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "email", "a valid email is required")
		return
	}

	var user models.User
	err := database.DB.Select("id").Where("LOWER(email) = LOWER(?)", req.Email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.RespondNotFound(c, "user")
			return
		}
		util.RespondInternalError(c, "failed to track view")
		return
	}

	sessionID := h.sessionID(c)
	ctx := h.eventContextFrom(c)
	view := models.PageView{
		UserID:    user.ID,
		SessionID: sessionID,
		Referrer:  ctx.Referrer,
		Country:   ctx.Country,
		City:      ctx.City,
		Region:    ctx.Region,
		Device:    ctx.Device,
		Browser:   ctx.Browser,
		OS:        ctx.OS,
		IPAddress: ctx.IPAddress,
		UserAgent: ctx.UserAgent,
	}

	// Best-effort uniqueness: first view for this (profile, session) pair.
	// Not atomic against a concurrent duplicate, which is acceptable for an
	// analytics signal.
	var prior int64
	err = database.DB.Model(&models.PageView{}).
		Where("user_id = ? AND session_id = ?", user.ID, sessionID).
		Count(&prior).Error
	if err != nil {
		util.RespondInternalError(c, "failed to track view")
		return
	}
	view.IsUnique = prior == 0

	if err := database.DB.Create(&view).Error; err != nil {
		util.RespondInternalError(c, "failed to track view")
		return
	}

	metrics.Get().PageViewsRecorded.Inc()

	c.SetCookie(sessionCookie, sessionID, 60*60*24*365, "/", "", false, true)
	util.RespondData(c, http.StatusOK, gin.H{"session_id": sessionID})
}

// TrackClick records a link click event. Same session and uniqueness rules
// as TrackView, keyed by link instead of profile.
func (h *Handlers) TrackClick(c *gin.Context) {
	var req TrackClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "link_id", "link_id is required")
		return
	}

	var link models.Link
	err := database.DB.Select("id").Where("id = ?", req.LinkID).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.RespondNotFound(c, "link")
			return
		}
		util.RespondInternalError(c, "failed to track click")
		return
	}

	sessionID := h.sessionID(c)
	ctx := h.eventContextFrom(c)
	click := models.LinkClick{
		LinkID:      link.ID,
		SessionID:   sessionID,
		TimeToClick: req.TimeToClick,
		Referrer:    ctx.Referrer,
		Country:     ctx.Country,
		City:        ctx.City,
		Region:      ctx.Region,
		Device:      ctx.Device,
		Browser:     ctx.Browser,
		OS:          ctx.OS,
		IPAddress:   ctx.IPAddress,
		UserAgent:   ctx.UserAgent,
	}

	var prior int64
	err = database.DB.Model(&models.LinkClick{}).
		Where("link_id = ? AND session_id = ?", link.ID, sessionID).
		Count(&prior).Error
	if err != nil {
		util.RespondInternalError(c, "failed to track click")
		return
	}
	click.IsUnique = prior == 0

	if err := database.DB.Create(&click).Error; err != nil {
		util.RespondInternalError(c, "failed to track click")
		return
	}

	metrics.Get().LinkClicksRecorded.Inc()

	c.SetCookie(sessionCookie, sessionID, 60*60*24*365, "/", "", false, true)
	util.RespondData(c, http.StatusOK, gin.H{"session_id": sessionID})
}

// sessionID reads the visitor's session cookie, minting a fresh identifier
// when none is present. The caller persists it via the response cookie.
func (h *Handlers) sessionID(c *gin.Context) string {
	if sessionID, err := c.Cookie(sessionCookie); err == nil && sessionID != "" {
		return sessionID
	}
	return uuid.NewString()
}

// eventContext is the derived request context shared by both event kinds
type eventContext struct {
	Referrer  *string
	Country   *string
	City      *string
	Region    *string
	Device    string
	Browser   string
	OS        string
	IPAddress string
	UserAgent string
}

// eventContextFrom derives the shared event columns from the request: the
// referrer header, classified user agent, client address, and geo lookup.
// The geo resolver never fails; unknown fields stay NULL.
func (h *Handlers) eventContextFrom(c *gin.Context) eventContext {
	ua := c.GetHeader("User-Agent")
	ip := clientIP(c)
	location := h.geo.Resolve(ip)

	return eventContext{
		Referrer:  nilIfEmpty(c.GetHeader("Referer")),
		Country:   nilIfEmpty(location.Country),
		City:      nilIfEmpty(location.City),
		Region:    nilIfEmpty(location.Region),
		Device:    analytics.DeviceFromUserAgent(ua),
		Browser:   analytics.BrowserFromUserAgent(ua),
		OS:        analytics.OSFromUserAgent(ua),
		IPAddress: ip,
		UserAgent: ua,
	}
}
