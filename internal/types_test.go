package internal

import (
	"context"
	"path/filepath"
	"testing"

	"sjsage522/carcrawler/config"
	apperrors "sjsage522/carcrawler/pkg/errors"
	"sjsage522/carcrawler/services/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDependenciesDefaults(t *testing.T) {
	cfg := config.LoadConfig()
	cfg.OutputPath = filepath.Join(t.TempDir(), "CarData.csv")
	cfg.MemcacheAddr = ""
	cfg.RedisAddr = ""

	deps, err := NewDependencies(context.Background(), cfg)
	require.NoError(t, err)
	defer deps.Cleanup()

	assert.IsType(t, &cache.MemoryCache{}, deps.Cache)
	assert.Nil(t, deps.Publisher)
	assert.NotNil(t, deps.Writer)
}

func TestNewDependenciesUnreachableServices(t *testing.T) {
	cfg := config.LoadConfig()
	cfg.OutputPath = filepath.Join(t.TempDir(), "CarData.csv")
	cfg.MemcacheAddr = "127.0.0.1:1"
	cfg.RedisAddr = ""

	deps, err := NewDependencies(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &cache.MemoryCache{}, deps.Cache, "falls back to memory")

	cfg.RedisAddr = "127.0.0.1:1"
	_, err = NewDependencies(context.Background(), cfg)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypePublisher))
}
