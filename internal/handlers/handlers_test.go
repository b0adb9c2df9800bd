package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/fuselink/backend/internal/analytics"
	"github.com/fuselink/backend/internal/auth"
	"github.com/fuselink/backend/internal/database"
	"github.com/fuselink/backend/internal/geo"
	"github.com/fuselink/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// HandlersTestSuite runs the API handlers against an in-memory database
type HandlersTestSuite struct {
	suite.Suite
	db       *gorm.DB
	router   *gin.Engine
	handlers *Handlers
}

var userCounter int64

// SetupSuite initializes test database and handlers
func (suite *HandlersTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open("file:handlers_test?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(suite.T(), err)

	require.NoError(suite.T(), db.AutoMigrate(
		&models.User{},
		&models.Collection{},
		&models.Link{},
		&models.SocialLink{},
		&models.PageView{},
		&models.LinkClick{},
		&models.EmailSubscriber{},
	))

	database.DB = db
	suite.db = db

	authService := auth.NewService([]byte("test-secret-key-not-for-production"))
	suite.handlers = NewHandlers(authService, analytics.NewAggregator(db), geo.NewUnknownResolver())

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.setupRoutes()
}

// setupRoutes configures the test router. Auth is injected from the
// X-User-ID header so tests do not mint tokens for every request.
func (suite *HandlersTestSuite) setupRoutes() {
	authMiddleware := func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			c.Abort()
			return
		}
		var user models.User
		if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			c.Abort()
			return
		}
		c.Set("user_id", user.ID)
		c.Set("user", &user)
		c.Next()
	}

	optionalAuth := func(c *gin.Context) {
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			var user models.User
			if err := database.DB.First(&user, "id = ?", userID).Error; err == nil {
				c.Set("user_id", user.ID)
				c.Set("user", &user)
			}
		}
		c.Next()
	}

	api := suite.router.Group("/api/v1")

	api.POST("/analytics/track-view", suite.handlers.TrackView)
	api.POST("/analytics/track-click", suite.handlers.TrackClick)
	api.POST("/subscribers", suite.handlers.CreateSubscriber)
	api.GET("/users/:username", optionalAuth, suite.handlers.GetPublicProfile)

	authed := api.Group("")
	authed.Use(authMiddleware)

	authed.GET("/links", suite.handlers.GetLinks)
	authed.POST("/links", suite.handlers.CreateLink)
	authed.PATCH("/links/reorder", suite.handlers.ReorderLinks)
	authed.PUT("/links/:id", suite.handlers.UpdateLink)
	authed.DELETE("/links/:id", suite.handlers.DeleteLink)
	authed.GET("/links/:id/analytics", suite.handlers.GetLinkAnalytics)

	authed.GET("/collections", suite.handlers.GetCollections)
	authed.POST("/collections", suite.handlers.CreateCollection)
	authed.PATCH("/collections/reorder", suite.handlers.ReorderCollections)
	authed.PUT("/collections/:id", suite.handlers.UpdateCollection)
	authed.DELETE("/collections/:id", suite.handlers.DeleteCollection)

	authed.GET("/social-links", suite.handlers.GetSocialLinks)
	authed.POST("/social-links", suite.handlers.CreateSocialLink)
	authed.PATCH("/social-links/reorder", suite.handlers.ReorderSocialLinks)
	authed.PUT("/social-links/:id", suite.handlers.UpdateSocialLink)
	authed.DELETE("/social-links/:id", suite.handlers.DeleteSocialLink)

	authed.GET("/analytics/overview", suite.handlers.GetAnalyticsOverview)
	authed.GET("/analytics/chart", suite.handlers.GetAnalyticsChart)
	authed.GET("/analytics/referrers", suite.handlers.GetAnalyticsReferrers)
	authed.GET("/analytics/devices", suite.handlers.GetAnalyticsDevices)
	authed.GET("/analytics/export", suite.handlers.ExportAnalytics)

	authed.GET("/subscribers", suite.handlers.GetSubscribers)
	authed.DELETE("/subscribers/:id", suite.handlers.DeleteSubscriber)

	authed.GET("/users/me/profile", suite.handlers.GetMe)
	authed.PUT("/users/me/profile", suite.handlers.UpdateMe)
	authed.PUT("/users/me/appearance", suite.handlers.UpdateAppearance)
}

// createUser inserts a user directly; handler tests don't go through
// the register endpoint
func (suite *HandlersTestSuite) createUser() *models.User {
	n := atomic.AddInt64(&userCounter, 1)
	user := &models.User{
		Email:        fmt.Sprintf("user%d@test.fuselink.io", n),
		Username:     fmt.Sprintf("user%d", n),
		Name:         fmt.Sprintf("User %d", n),
		PasswordHash: "x",
		IsPublic:     true,
	}
	require.NoError(suite.T(), suite.db.Create(user).Error)
	return user
}

// request performs an HTTP call against the test router. A non-nil user is
// attached via the test auth header.
func (suite *HandlersTestSuite) request(method, path string, body interface{}, user *models.User) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(suite.T(), err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(suite.T(), err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		req.Header.Set("X-User-ID", user.ID)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// decodeData unmarshals the "data" member of a success envelope
func (suite *HandlersTestSuite) decodeData(w *httptest.ResponseRecorder) map[string]interface{} {
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(suite.T(), envelope.Success)

	var data map[string]interface{}
	require.NoError(suite.T(), json.Unmarshal(envelope.Data, &data))
	return data
}

// decodeList unmarshals the "data" member when it is an array
func (suite *HandlersTestSuite) decodeList(w *httptest.ResponseRecorder) []interface{} {
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(suite.T(), envelope.Success)

	var data []interface{}
	require.NoError(suite.T(), json.Unmarshal(envelope.Data, &data))
	return data
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
