package handlers

import (
	"fmt"
	"net/http"

	"github.com/fuselink/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *HandlersTestSuite) TestCreateLinkAppendsToEnd() {
	t := suite.T()
	user := suite.createUser()

	for i := 1; i <= 3; i++ {
		w := suite.request("POST", "/api/v1/links", CreateLinkRequest{
			Title: fmt.Sprintf("Link %d", i),
			URL:   "https://example.com",
		}, user)
		require.Equal(t, http.StatusCreated, w.Code)
		data := suite.decodeData(w)
		assert.Equal(t, float64(i), data["order"])
	}

	w := suite.request("GET", "/api/v1/links", nil, user)
	require.Equal(t, http.StatusOK, w.Code)
	list := suite.decodeList(w)
	require.Len(t, list, 3)
	assert.Equal(t, "Link 1", list[0].(map[string]interface{})["title"])
	assert.Equal(t, "Link 3", list[2].(map[string]interface{})["title"])
}

func (suite *HandlersTestSuite) TestCreateLinkValidation() {
	t := suite.T()
	user := suite.createUser()

	// Missing URL
	w := suite.request("POST", "/api/v1/links", map[string]string{"title": "no url"}, user)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Malformed URL
	w = suite.request("POST", "/api/v1/links", map[string]string{"title": "bad", "url": "not a url"}, user)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlersTestSuite) TestUpdateLinkOwnershipIsNotFound() {
	t := suite.T()
	owner := suite.createUser()
	intruder := suite.createUser()

	w := suite.request("POST", "/api/v1/links", CreateLinkRequest{Title: "Mine", URL: "https://example.com"}, owner)
	require.Equal(t, http.StatusCreated, w.Code)
	linkID := suite.decodeData(w)["id"].(string)

	// Someone else's link reads as missing, not forbidden
	w = suite.request("PUT", "/api/v1/links/"+linkID, map[string]string{"title": "Stolen"}, intruder)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = suite.request("DELETE", "/api/v1/links/"+linkID, nil, intruder)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The owner still sees the original title
	var link models.Link
	require.NoError(t, suite.db.First(&link, "id = ?", linkID).Error)
	assert.Equal(t, "Mine", link.Title)
}

func (suite *HandlersTestSuite) TestUpdateLinkPartial() {
	t := suite.T()
	user := suite.createUser()

	w := suite.request("POST", "/api/v1/links", CreateLinkRequest{Title: "Before", URL: "https://example.com"}, user)
	require.Equal(t, http.StatusCreated, w.Code)
	linkID := suite.decodeData(w)["id"].(string)

	w = suite.request("PUT", "/api/v1/links/"+linkID, map[string]interface{}{
		"title":     "After",
		"is_active": false,
	}, user)
	require.Equal(t, http.StatusOK, w.Code)

	var link models.Link
	require.NoError(t, suite.db.First(&link, "id = ?", linkID).Error)
	assert.Equal(t, "After", link.Title)
	assert.False(t, link.IsActive)
	// Untouched fields survive
	assert.Equal(t, "https://example.com", link.URL)

	// Toggling back is idempotent in effect
	w = suite.request("PUT", "/api/v1/links/"+linkID, map[string]interface{}{"is_active": true}, user)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, suite.db.First(&link, "id = ?", linkID).Error)
	assert.True(t, link.IsActive)
}

func (suite *HandlersTestSuite) TestDeleteLinkSoftDeletes() {
	t := suite.T()
	user := suite.createUser()

	w := suite.request("POST", "/api/v1/links", CreateLinkRequest{Title: "Doomed", URL: "https://example.com"}, user)
	require.Equal(t, http.StatusCreated, w.Code)
	linkID := suite.decodeData(w)["id"].(string)

	w = suite.request("DELETE", "/api/v1/links/"+linkID, nil, user)
	assert.Equal(t, http.StatusOK, w.Code)

	// Gone from the API
	w = suite.request("GET", "/api/v1/links", nil, user)
	assert.Empty(t, suite.decodeList(w))

	// But the row survives for event history
	var count int64
	suite.db.Unscoped().Model(&models.Link{}).Where("id = ?", linkID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func (suite *HandlersTestSuite) TestReorderLinks() {
	t := suite.T()
	user := suite.createUser()

	var ids []string
	for i := 1; i <= 3; i++ {
		w := suite.request("POST", "/api/v1/links", CreateLinkRequest{
			Title: fmt.Sprintf("L%d", i),
			URL:   "https://example.com",
		}, user)
		require.Equal(t, http.StatusCreated, w.Code)
		ids = append(ids, suite.decodeData(w)["id"].(string))
	}

	w := suite.request("PATCH", "/api/v1/links/reorder", map[string]interface{}{
		"links": []map[string]interface{}{
			{"id": ids[2], "order": 1},
			{"id": ids[0], "order": 2},
			{"id": ids[1], "order": 3},
		},
	}, user)
	require.Equal(t, http.StatusOK, w.Code)

	w = suite.request("GET", "/api/v1/links", nil, user)
	list := suite.decodeList(w)
	require.Len(t, list, 3)
	assert.Equal(t, "L3", list[0].(map[string]interface{})["title"])
	assert.Equal(t, "L1", list[1].(map[string]interface{})["title"])
	assert.Equal(t, "L2", list[2].(map[string]interface{})["title"])
}

func (suite *HandlersTestSuite) TestReorderLinksForeignBatchFails() {
	t := suite.T()
	owner := suite.createUser()
	intruder := suite.createUser()

	w := suite.request("POST", "/api/v1/links", CreateLinkRequest{Title: "Owned", URL: "https://example.com"}, owner)
	require.Equal(t, http.StatusCreated, w.Code)
	ownedID := suite.decodeData(w)["id"].(string)

	w = suite.request("POST", "/api/v1/links", CreateLinkRequest{Title: "Intruder link", URL: "https://example.com"}, intruder)
	require.Equal(t, http.StatusCreated, w.Code)
	intruderID := suite.decodeData(w)["id"].(string)

	// A batch naming someone else's link fails whole
	w = suite.request("PATCH", "/api/v1/links/reorder", map[string]interface{}{
		"links": []map[string]interface{}{
			{"id": intruderID, "order": 5},
			{"id": ownedID, "order": 6},
		},
	}, intruder)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Nothing moved, including the intruder's own link
	var link models.Link
	require.NoError(t, suite.db.First(&link, "id = ?", intruderID).Error)
	assert.Equal(t, 1, link.Order)
}

func (suite *HandlersTestSuite) TestLinkAnalyticsOwnershipAndShape() {
	t := suite.T()
	owner := suite.createUser()
	intruder := suite.createUser()

	w := suite.request("POST", "/api/v1/links", CreateLinkRequest{Title: "Tracked", URL: "https://example.com"}, owner)
	require.Equal(t, http.StatusCreated, w.Code)
	linkID := suite.decodeData(w)["id"].(string)

	w = suite.request("POST", "/api/v1/analytics/track-click", TrackClickRequest{LinkID: linkID}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = suite.request("GET", "/api/v1/links/"+linkID+"/analytics", nil, owner)
	require.Equal(t, http.StatusOK, w.Code)
	data := suite.decodeData(w)
	assert.Equal(t, float64(1), data["total_clicks"])
	assert.Equal(t, float64(1), data["unique_clicks"])

	w = suite.request("GET", "/api/v1/links/"+linkID+"/analytics", nil, intruder)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
