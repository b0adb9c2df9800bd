package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/fuselink/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trackRequest posts a tracking payload with an optional session cookie
func (suite *HandlersTestSuite) trackRequest(path string, body interface{}, sessionID string) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	require.NoError(suite.T(), err)

	req, err := http.NewRequest("POST", path, bytes.NewReader(payload))
	require.NoError(suite.T(), err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", chromeWindowsTestUA)
	req.Header.Set("Referer", "https://instagram.com")
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: "session_id", Value: sessionID})
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

const chromeWindowsTestUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"

func (suite *HandlersTestSuite) TestTrackViewUniquenessPerSession() {
	t := suite.T()
	user := suite.createUser()

	// First view from a session is unique
	w := suite.trackRequest("/api/v1/analytics/track-view", TrackViewRequest{Email: user.Email}, "session-a")
	require.Equal(t, http.StatusOK, w.Code)

	// Second view from the same session is not
	w = suite.trackRequest("/api/v1/analytics/track-view", TrackViewRequest{Email: user.Email}, "session-a")
	require.Equal(t, http.StatusOK, w.Code)

	// A different session is unique again
	w = suite.trackRequest("/api/v1/analytics/track-view", TrackViewRequest{Email: user.Email}, "session-b")
	require.Equal(t, http.StatusOK, w.Code)

	var views []models.PageView
	require.NoError(t, suite.db.Where("user_id = ?", user.ID).Order("created_at ASC").Find(&views).Error)
	require.Len(t, views, 3)

	var uniqueCount int
	for _, v := range views {
		if v.IsUnique {
			uniqueCount++
		}
	}
	assert.Equal(t, 2, uniqueCount)

	first := views[0]
	assert.Equal(t, "desktop", first.Device)
	assert.Equal(t, "Chrome", first.Browser)
	assert.Equal(t, "Windows", first.OS)
	require.NotNil(t, first.Referrer)
	assert.Equal(t, "https://instagram.com", *first.Referrer)
	// Unresolved geo stays NULL rather than failing the call
	assert.Nil(t, first.Country)
}

func (suite *HandlersTestSuite) TestTrackViewMintsSession() {
	t := suite.T()
	user := suite.createUser()

	// No cookie: the recorder mints a session and returns it
	w := suite.trackRequest("/api/v1/analytics/track-view", TrackViewRequest{Email: user.Email}, "")
	require.Equal(t, http.StatusOK, w.Code)

	data := suite.decodeData(w)
	minted, ok := data["session_id"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, minted)

	// The same session is also set as a cookie for the next visit
	cookies := w.Result().Cookies()
	var found bool
	for _, c := range cookies {
		if c.Name == "session_id" {
			found = true
			assert.Equal(t, minted, c.Value)
		}
	}
	assert.True(t, found)
}

func (suite *HandlersTestSuite) TestTrackViewUnknownProfile() {
	t := suite.T()
	w := suite.trackRequest("/api/v1/analytics/track-view", TrackViewRequest{Email: "ghost@test.fuselink.io"}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = suite.trackRequest("/api/v1/analytics/track-view", map[string]string{"email": "not-an-email"}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlersTestSuite) TestTrackClickUniquenessPerLink() {
	t := suite.T()
	user := suite.createUser()

	w := suite.request("POST", "/api/v1/links", CreateLinkRequest{Title: "Clickable", URL: "https://example.com"}, user)
	require.Equal(t, http.StatusCreated, w.Code)
	linkID := suite.decodeData(w)["id"].(string)

	ttc := 1200
	w = suite.trackRequest("/api/v1/analytics/track-click", TrackClickRequest{LinkID: linkID, TimeToClick: &ttc}, "session-c")
	require.Equal(t, http.StatusOK, w.Code)
	w = suite.trackRequest("/api/v1/analytics/track-click", TrackClickRequest{LinkID: linkID}, "session-c")
	require.Equal(t, http.StatusOK, w.Code)

	var clicks []models.LinkClick
	require.NoError(t, suite.db.Where("link_id = ?", linkID).Order("created_at ASC").Find(&clicks).Error)
	require.Len(t, clicks, 2)
	assert.True(t, clicks[0].IsUnique)
	assert.False(t, clicks[1].IsUnique)
	require.NotNil(t, clicks[0].TimeToClick)
	assert.Equal(t, 1200, *clicks[0].TimeToClick)
}

func (suite *HandlersTestSuite) TestTrackClickUnknownLink() {
	t := suite.T()
	w := suite.trackRequest("/api/v1/analytics/track-click", TrackClickRequest{LinkID: "no-such-link"}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
