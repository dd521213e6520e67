// Package devcontainer loads and serializes devcontainer.json documents.
//
// The devcontainer.json specification supports JSONC (JSON with Comments),
// so this package uses github.com/tidwall/jsonc to strip comments before
// parsing with the standard encoding/json library — the same two-step
// pipeline the driving CLI uses for its own config file.
//
// Only a narrow slice of the document is meaningful to the engine: the
// base image, the features mapping, and the remote-user knobs (§3's
// DevContainerConfig). Everything else in the document is preserved in
// raw map form so the Config Merger can operate on unrecognized keys
// too, and so a rewritten document round-trips fields this package
// doesn't model.
package devcontainer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/devfeat/devfeat/internal/model"
)

// reservedTopLevelKeys are the devcontainer.json keys LoadConfig models
// directly; everything else lands in DevContainerConfig.Extra.
var reservedTopLevelKeys = map[string]bool{
	"image":               true,
	"features":            true,
	"remoteUser":          true,
	"updateRemoteUserUID": true,
}

// LoadConfig reads a devcontainer.json file, strips JSONC comments, and
// extracts the fields the engine cares about into a model.DevContainerConfig.
// Every other top-level key is preserved verbatim in Extra.
//
// Returns a CLIError with ExitHostIOFailed if the file does not exist.
func LoadConfig(path string) (*model.DevContainerConfig, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}

	cfg := &model.DevContainerConfig{
		Extra: make(map[string]interface{}),
	}

	if image, ok := doc["image"].(string); ok {
		cfg.Image = image
	}
	if remoteUser, ok := doc["remoteUser"].(string); ok {
		cfg.RemoteUser = remoteUser
	}
	if updateUID, ok := doc["updateRemoteUserUID"].(bool); ok {
		cfg.UpdateRemoteUserUID = &updateUID
	}
	if features, ok := doc["features"].(map[string]interface{}); ok {
		cfg.Features = features
	}

	for key, value := range doc {
		if !reservedTopLevelKeys[key] {
			cfg.Extra[key] = value
		}
	}

	return cfg, nil
}

// LoadDocument reads a devcontainer.json file into a generic map, for
// callers (the Config Merger, the `config merge` CLI command) that need
// every key the document carries rather than just the fields LoadConfig
// models.
func LoadDocument(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.WrapCLIError(
				model.ExitHostIOFailed,
				fmt.Sprintf("devcontainer.json not found: %s", path),
				err,
			)
		}
		return nil, fmt.Errorf("failed to read devcontainer.json: %w", err)
	}

	cleanJSON := jsonc.ToJSON(data)

	var doc map[string]interface{}
	if err := json.Unmarshal(cleanJSON, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse devcontainer.json at %s: %w", path, err)
	}
	return doc, nil
}

// FindDevContainerJSON searches for devcontainer.json in the standard
// locations within a project directory.
//
// Search order:
//  1. <projectPath>/.devcontainer/devcontainer.json
//  2. <projectPath>/.devcontainer.json
func FindDevContainerJSON(projectPath string) (string, error) {
	candidates := []string{
		filepath.Join(projectPath, ".devcontainer", "devcontainer.json"),
		filepath.Join(projectPath, ".devcontainer.json"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", model.NewCLIError(
		model.ExitHostIOFailed,
		fmt.Sprintf("devcontainer.json not found in %s (searched .devcontainer/devcontainer.json and .devcontainer.json)", projectPath),
	)
}
