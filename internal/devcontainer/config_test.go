package devcontainer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devfeat/devfeat/internal/model"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "devcontainer.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_ImageAndFeatures(t *testing.T) {
	path := writeTempConfig(t, `{
		// trailing comment support via JSONC
		"image": "mcr.microsoft.com/devcontainers/base:ubuntu",
		"features": {
			"ghcr.io/devcontainers/features/go:1": "1.21",
			"ghcr.io/devcontainers/features/docker-in-docker:2": {
				"version": "latest",
				"moby": true
			}
		},
		"remoteUser": "vscode"
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "mcr.microsoft.com/devcontainers/base:ubuntu", cfg.Image)
	assert.Equal(t, "vscode", cfg.RemoteUser)
	assert.Nil(t, cfg.UpdateRemoteUserUID)

	assert.Equal(t, "1.21", cfg.Features["ghcr.io/devcontainers/features/go:1"])

	didFeature, ok := cfg.Features["ghcr.io/devcontainers/features/docker-in-docker:2"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "latest", didFeature["version"])
}

func TestLoadConfig_UpdateRemoteUserUIDExplicitFalse(t *testing.T) {
	path := writeTempConfig(t, `{"image": "ubuntu", "updateRemoteUserUID": false}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.UpdateRemoteUserUID)
	assert.False(t, *cfg.UpdateRemoteUserUID)
}

func TestLoadConfig_PreservesUnknownKeysInExtra(t *testing.T) {
	path := writeTempConfig(t, `{"image": "ubuntu", "name": "my-dev-container"}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "my-dev-container", cfg.Extra["name"])
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitHostIOFailed, cliErr.Code)
}

func TestLoadDocument_PreservesUnknownKeys(t *testing.T) {
	path := writeTempConfig(t, `{"image": "ubuntu", "customTool": {"nested": true}}`)

	doc, err := LoadDocument(path)
	require.NoError(t, err)

	assert.Equal(t, "ubuntu", doc["image"])
	custom, ok := doc["customTool"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, custom["nested"])
}

func TestFindDevContainerJSON_PreferredLocation(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".devcontainer"), 0o755))
	want := filepath.Join(dir, ".devcontainer", "devcontainer.json")
	require.NoError(t, os.WriteFile(want, []byte(`{}`), 0o644))

	got, err := FindDevContainerJSON(dir)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFindDevContainerJSON_AlternateLocation(t *testing.T) {
	dir := t.TempDir()
	want := filepath.Join(dir, ".devcontainer.json")
	require.NoError(t, os.WriteFile(want, []byte(`{}`), 0o644))

	got, err := FindDevContainerJSON(dir)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFindDevContainerJSON_NotFound(t *testing.T) {
	_, err := FindDevContainerJSON(t.TempDir())
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitHostIOFailed, cliErr.Code)
}
