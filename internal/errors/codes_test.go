package errors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodeMapping(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, ErrNotFound.StatusCode())
	assert.Equal(t, http.StatusUnprocessableEntity, ErrValidation.StatusCode())
	assert.Equal(t, http.StatusTooManyRequests, ErrRateLimited.StatusCode())

	// Unknown codes degrade to 500 rather than panicking
	assert.Equal(t, http.StatusInternalServerError, ErrorCode("MYSTERY").StatusCode())
}

func TestConstructorsCarryMappedStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, NotFound("link").Status)
	assert.Equal(t, http.StatusUnprocessableEntity, ValidationError("email", "invalid").Status)
	assert.Equal(t, http.StatusTooManyRequests, RateLimited("rate limit exceeded").Status)
	assert.Equal(t, "link not found", NotFound("link").Message)
}
