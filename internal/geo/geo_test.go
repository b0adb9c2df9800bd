package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnknownResolver(t *testing.T) {
	r := NewUnknownResolver()

	// Every address resolves, none resolve to anything
	assert.Equal(t, Unknown, r.Resolve("203.0.113.7"))
	assert.Equal(t, Unknown, r.Resolve(""))
	assert.Equal(t, Unknown, r.Resolve("not-an-ip"))

	// Empty fields so callers store NULL for unresolved locations
	assert.Empty(t, Unknown.Country)
	assert.Empty(t, Unknown.City)
	assert.Empty(t, Unknown.Region)
}
