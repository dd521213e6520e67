package assemble

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devfeat/devfeat/internal/model"
)

func writeFeaturePayload(t *testing.T, dstFolder, infoStr, featureID, metadataJSON string, withAcquire bool) {
	t.Helper()
	featureDir := filepath.Join(dstFolder, infoStr, "features", featureID)
	require.NoError(t, os.MkdirAll(featureDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(featureDir, "devcontainer-features.json"), []byte(metadataJSON), 0o644))
	if withAcquire {
		require.NoError(t, os.MkdirAll(filepath.Join(featureDir, "bin"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(featureDir, "bin", "acquire"), []byte("#!/bin/sh"), 0o755))
	}
}

func TestAssemble_GroupsBySourceAndEnrichesMetadata(t *testing.T) {
	dst := t.TempDir()
	writeFeaturePayload(t, dst, "local-cache", "helloworld",
		`{"id":"helloworld","buildArg":"HELLOARG","containerEnv":{"GREETING":"hi"}}`, false)

	a := New(nil, zerolog.Nop())
	features := map[string]interface{}{
		"helloworld": "latest",
	}

	cfg, err := a.Assemble(features, dst)
	require.NoError(t, err)

	require.Len(t, cfg.FeatureSets, 1)
	set := cfg.FeatureSets[0]
	assert.Equal(t, model.SourceLocalCache, set.SourceInformation.Kind)
	require.Len(t, set.Features, 1)

	f := set.Features[0]
	assert.Equal(t, "helloworld", f.ID)
	assert.Equal(t, "latest", f.Value.Scalar)
	assert.Equal(t, "HELLOARG", f.BuildArg)
	assert.Equal(t, "hi", f.ContainerEnv["GREETING"])
	assert.True(t, f.Included)
	assert.False(t, f.HasAcquire)
}

func TestAssemble_SkipsRejectedIdentifiers(t *testing.T) {
	dst := t.TempDir()
	a := New(nil, zerolog.Nop())

	features := map[string]interface{}{
		"not a valid id!!": "latest",
	}

	cfg, err := a.Assemble(features, dst)
	require.NoError(t, err)
	assert.Empty(t, cfg.FeatureSets)
}

func TestAssemble_DetectsAcquireAndConfigure(t *testing.T) {
	dst := t.TempDir()
	writeFeaturePayload(t, dst, "local-cache", "staged", `{"id":"staged"}`, true)
	configurePath := filepath.Join(dst, "local-cache", "features", "staged", "bin", "configure")
	require.NoError(t, os.WriteFile(configurePath, []byte("#!/bin/sh"), 0o755))

	a := New(nil, zerolog.Nop())
	cfg, err := a.Assemble(map[string]interface{}{"staged": "latest"}, dst)
	require.NoError(t, err)

	f := cfg.FeatureSets[0].Features[0]
	assert.True(t, f.HasAcquire)
	assert.True(t, f.HasConfigure)
}

func TestAssemble_PolicyExcludesFeature(t *testing.T) {
	dst := t.TempDir()
	writeFeaturePayload(t, dst, "local-cache", "excluded", `{"id":"excluded"}`, false)

	excludeAll := func(model.Feature) bool { return false }
	a := New(excludeAll, zerolog.Nop())

	cfg, err := a.Assemble(map[string]interface{}{"excluded": "latest"}, dst)
	require.NoError(t, err)

	// local-cache features are always included regardless of policy.
	assert.True(t, cfg.FeatureSets[0].Features[0].Included)
}

func TestAssemble_OptionsObjectValue(t *testing.T) {
	dst := t.TempDir()
	writeFeaturePayload(t, dst, "local-cache", "configurable", `{"id":"configurable"}`, false)

	a := New(nil, zerolog.Nop())
	features := map[string]interface{}{
		"configurable": map[string]interface{}{"version": "1.2.3"},
	}

	cfg, err := a.Assemble(features, dst)
	require.NoError(t, err)

	f := cfg.FeatureSets[0].Features[0]
	assert.False(t, f.Value.IsScalar())
	assert.Equal(t, "1.2.3", f.Value.Options["version"])
}
