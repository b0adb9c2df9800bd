package handlers

import (
	"net/http"

	"github.com/fuselink/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *HandlersTestSuite) TestPublicProfileShowsActiveEntitiesInOrder() {
	t := suite.T()
	user := suite.createUser()

	w := suite.request("POST", "/api/v1/links", CreateLinkRequest{Title: "Visible", URL: "https://example.com"}, user)
	require.Equal(t, http.StatusCreated, w.Code)

	w = suite.request("POST", "/api/v1/links", CreateLinkRequest{Title: "Hidden", URL: "https://example.com"}, user)
	require.Equal(t, http.StatusCreated, w.Code)
	hiddenID := suite.decodeData(w)["id"].(string)
	w = suite.request("PUT", "/api/v1/links/"+hiddenID, map[string]interface{}{"is_active": false}, user)
	require.Equal(t, http.StatusOK, w.Code)

	w = suite.request("POST", "/api/v1/social-links", CreateSocialLinkRequest{Platform: "github", URL: "https://github.com/someone"}, user)
	require.Equal(t, http.StatusCreated, w.Code)

	w = suite.request("GET", "/api/v1/users/"+user.Username, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := suite.decodeData(w)

	links := data["links"].([]interface{})
	require.Len(t, links, 1)
	assert.Equal(t, "Visible", links[0].(map[string]interface{})["title"])

	socialLinks := data["social_links"].([]interface{})
	assert.Len(t, socialLinks, 1)

	// The password hash never appears in the public payload
	profileUser := data["user"].(map[string]interface{})
	_, leaked := profileUser["PasswordHash"]
	assert.False(t, leaked)
	_, leaked = profileUser["password_hash"]
	assert.False(t, leaked)
}

func (suite *HandlersTestSuite) TestPrivateProfileVisibleOnlyToOwner() {
	t := suite.T()
	user := suite.createUser()
	stranger := suite.createUser()

	require.NoError(t, suite.db.Model(user).Update("is_public", false).Error)

	// Anonymous visitors are refused
	w := suite.request("GET", "/api/v1/users/"+user.Username, nil, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// So are other authenticated users
	w = suite.request("GET", "/api/v1/users/"+user.Username, nil, stranger)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The owner can preview their own page
	w = suite.request("GET", "/api/v1/users/"+user.Username, nil, user)
	assert.Equal(t, http.StatusOK, w.Code)
}

func (suite *HandlersTestSuite) TestPublicProfileUnknownUsername() {
	t := suite.T()
	w := suite.request("GET", "/api/v1/users/nobody-here", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestUpdateAppearance() {
	t := suite.T()
	user := suite.createUser()

	w := suite.request("PUT", "/api/v1/users/me/appearance", map[string]interface{}{
		"theme":        "dark",
		"button_style": "pill",
	}, user)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.User
	require.NoError(t, suite.db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, "dark", reloaded.Theme)
	assert.Equal(t, "pill", reloaded.ButtonStyle)
	// Fields outside the payload keep their defaults
	assert.Equal(t, "color", reloaded.BackgroundType)
}

func (suite *HandlersTestSuite) TestSubscriberLifecycle() {
	t := suite.T()
	user := suite.createUser()
	other := suite.createUser()

	// Public capture widget, anonymous caller
	w := suite.request("POST", "/api/v1/subscribers", CreateSubscriberRequest{
		UserID: user.ID,
		Email:  "fan@example.com",
		Source: "page_widget",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	subscriberID := suite.decodeData(w)["id"].(string)

	// Unknown page owner is refused
	w = suite.request("POST", "/api/v1/subscribers", CreateSubscriberRequest{
		UserID: "no-such-user",
		Email:  "fan@example.com",
	}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Only the owner sees their subscribers
	w = suite.request("GET", "/api/v1/subscribers", nil, user)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, suite.decodeList(w), 1)

	w = suite.request("GET", "/api/v1/subscribers", nil, other)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, suite.decodeList(w))

	// Someone else's subscriber reads as missing
	w = suite.request("DELETE", "/api/v1/subscribers/"+subscriberID, nil, other)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = suite.request("DELETE", "/api/v1/subscribers/"+subscriberID, nil, user)
	assert.Equal(t, http.StatusOK, w.Code)
}

func (suite *HandlersTestSuite) TestAnalyticsOverviewEndpoint() {
	t := suite.T()
	user := suite.createUser()

	w := suite.request("POST", "/api/v1/links", CreateLinkRequest{Title: "L", URL: "https://example.com"}, user)
	require.Equal(t, http.StatusCreated, w.Code)
	linkID := suite.decodeData(w)["id"].(string)

	suite.trackRequest("/api/v1/analytics/track-view", TrackViewRequest{Email: user.Email}, "ov-1")
	suite.trackRequest("/api/v1/analytics/track-view", TrackViewRequest{Email: user.Email}, "ov-2")
	suite.trackRequest("/api/v1/analytics/track-click", TrackClickRequest{LinkID: linkID}, "ov-1")

	w = suite.request("GET", "/api/v1/analytics/overview?days=7", nil, user)
	require.Equal(t, http.StatusOK, w.Code)
	data := suite.decodeData(w)

	assert.Equal(t, float64(2), data["total_views"])
	assert.Equal(t, float64(2), data["unique_views"])
	assert.Equal(t, float64(1), data["total_clicks"])
	assert.Equal(t, float64(50), data["ctr"])
}

func (suite *HandlersTestSuite) TestAnalyticsChartZeroDayWindow() {
	t := suite.T()
	user := suite.createUser()

	suite.trackRequest("/api/v1/analytics/track-view", TrackViewRequest{Email: user.Email}, "zd-1")

	// days=0 degenerates to a single-day window covering today
	w := suite.request("GET", "/api/v1/analytics/chart?days=0", nil, user)
	require.Equal(t, http.StatusOK, w.Code)

	points := suite.decodeList(w)
	require.Len(t, points, 1)
	point := points[0].(map[string]interface{})
	assert.Equal(t, float64(1), point["views"])
}

func (suite *HandlersTestSuite) TestAnalyticsRequiresAuth() {
	t := suite.T()
	w := suite.request("GET", "/api/v1/analytics/overview", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func (suite *HandlersTestSuite) TestCollectionLifecycle() {
	t := suite.T()
	user := suite.createUser()

	w := suite.request("POST", "/api/v1/collections", CreateCollectionRequest{Name: "Music"}, user)
	require.Equal(t, http.StatusCreated, w.Code)
	data := suite.decodeData(w)
	collectionID := data["id"].(string)
	assert.Equal(t, "grid", data["layout"])

	// A link can live inside the collection
	w = suite.request("POST", "/api/v1/links", CreateLinkRequest{
		Title:        "Inside",
		URL:          "https://example.com",
		CollectionID: &collectionID,
	}, user)
	require.Equal(t, http.StatusCreated, w.Code)
	linkID := suite.decodeData(w)["id"].(string)

	// Deleting the collection frees its links instead of deleting them
	w = suite.request("DELETE", "/api/v1/collections/"+collectionID, nil, user)
	require.Equal(t, http.StatusOK, w.Code)

	var link models.Link
	require.NoError(t, suite.db.First(&link, "id = ?", linkID).Error)
	assert.Nil(t, link.CollectionID)
}

func (suite *HandlersTestSuite) TestCreateLinkInForeignCollection() {
	t := suite.T()
	owner := suite.createUser()
	intruder := suite.createUser()

	w := suite.request("POST", "/api/v1/collections", CreateCollectionRequest{Name: "Private shelf"}, owner)
	require.Equal(t, http.StatusCreated, w.Code)
	collectionID := suite.decodeData(w)["id"].(string)

	w = suite.request("POST", "/api/v1/links", CreateLinkRequest{
		Title:        "Sneaky",
		URL:          "https://example.com",
		CollectionID: &collectionID,
	}, intruder)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
