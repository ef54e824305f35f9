package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// This test requires a running memcached instance
// If memcached is not available, the test will be skipped
func TestMemcacheService(t *testing.T) {
	mc := NewMemcacheService("localhost:11211", "carcrawler_test:")

	if err := mc.Ping(); err != nil {
		t.Skip("Memcached is not available, skipping test")
	}

	// Set a value
	err := mc.Set("page_key", []byte("<html></html>"), 1*time.Second)
	assert.NoError(t, err)

	// Get the value
	value, err := mc.Get("page_key")
	assert.NoError(t, err)
	assert.Equal(t, "<html></html>", string(value))

	// Delete the value
	assert.NoError(t, mc.Delete("page_key"))
	assert.NoError(t, mc.Delete("page_key"), "deleting a missing key is not an error")

	// Try to get the deleted value
	_, err = mc.Get("page_key")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
