package engineconfig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devfeat/devfeat/internal/model"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir(), nil)
	require.NoError(t, err)

	assert.Equal(t, 60*time.Second, cfg.DefaultFetchTimeout)
	assert.Equal(t, "https://api.github.com", cfg.GitHubAPIBaseURL)
	assert.Equal(t, model.BackendAdvanced, cfg.PreferredBackend)
}

func TestLoad_FlagOverride(t *testing.T) {
	cfg, err := Load(t.TempDir(), map[string]interface{}{
		"preferred_backend": "legacy",
	})
	require.NoError(t, err)
	assert.Equal(t, model.BackendLegacy, cfg.PreferredBackend)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("DEVFEAT_CACHE_DIR", "/tmp/devfeat-cache")
	cfg, err := Load(t.TempDir(), nil)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/devfeat-cache", cfg.CacheDir)
}
