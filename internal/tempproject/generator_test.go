package tempproject

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestGenerate_WritesMinimalDevContainerJSON(t *testing.T) {
	root, err := Generate("ubuntu:22.04", "ghcr.io/devcontainers/features", []string{"go", "docker-in-docker"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(root) })

	assert.True(t, strings.Contains(root, filepath.Join("vsch", "container-features-test")))

	configPath := filepath.Join(root, ".devcontainer", "devcontainer.json")
	data, err := os.ReadFile(configPath)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "ubuntu:22.04", doc["image"])

	features, ok := doc["features"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "latest", features["ghcr.io/devcontainers/features/go"])
	assert.Equal(t, "latest", features["ghcr.io/devcontainers/features/docker-in-docker"])

	manifestData, err := os.ReadFile(filepath.Join(root, "fixture.yaml"))
	require.NoError(t, err)

	var manifest fixtureManifest
	require.NoError(t, yaml.Unmarshal(manifestData, &manifest))
	assert.Equal(t, "ubuntu:22.04", manifest.BaseImage)
	assert.Equal(t, "ghcr.io/devcontainers/features", manifest.CollectionPath)
	assert.ElementsMatch(t, []string{"go", "docker-in-docker"}, manifest.FeatureIDs)
}

func TestGenerate_EmptyFeatureListStillWritesImage(t *testing.T) {
	root, err := Generate("debian:bookworm", "ghcr.io/devcontainers/features", nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(root) })

	configPath := filepath.Join(root, ".devcontainer", "devcontainer.json")
	data, err := os.ReadFile(configPath)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "debian:bookworm", doc["image"])
	assert.Empty(t, doc["features"])
}

func TestGenerate_DistinctTimestampedDirsAcrossCalls(t *testing.T) {
	rootA, err := Generate("ubuntu:22.04", "col", []string{"a"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(rootA) })

	rootB, err := Generate("ubuntu:22.04", "col", []string{"a"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(rootB) })

	assert.NotEqual(t, rootA, rootB)
}
