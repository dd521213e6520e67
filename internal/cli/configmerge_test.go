package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSONFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunConfigMerge_PrintsMergedDocument(t *testing.T) {
	dir := t.TempDir()
	parentPath := writeJSONFile(t, dir, "parent.json", `{"image": "ubuntu:22.04", "remoteUser": "root"}`)
	childPath := writeJSONFile(t, dir, "child.json", `{"remoteUser": "vscode"}`)
	behaviorsPath := writeJSONFile(t, dir, "behaviors.json", `{"remoteUser": "replace"}`)

	flags := &configMergeFlags{
		parentPath:    parentPath,
		childPath:     childPath,
		behaviorsPath: behaviorsPath,
	}

	err := runConfigMerge(flags)
	require.NoError(t, err)
}

func TestLoadBehaviors_ParsesExtendBehaviorMap(t *testing.T) {
	dir := t.TempDir()
	path := writeJSONFile(t, dir, "behaviors.json", `{"features": "merge", "image": "replace"}`)

	behaviors, err := loadBehaviors(path)
	require.NoError(t, err)
	assert.Len(t, behaviors, 2)
	assert.EqualValues(t, "merge", behaviors["features"])
	assert.EqualValues(t, "replace", behaviors["image"])
}

func TestRunConfigMerge_MissingParentFileFails(t *testing.T) {
	dir := t.TempDir()
	childPath := writeJSONFile(t, dir, "child.json", `{}`)
	behaviorsPath := writeJSONFile(t, dir, "behaviors.json", `{}`)

	flags := &configMergeFlags{
		parentPath:    filepath.Join(dir, "missing.json"),
		childPath:     childPath,
		behaviorsPath: behaviorsPath,
	}

	err := runConfigMerge(flags)
	require.Error(t, err)
}
