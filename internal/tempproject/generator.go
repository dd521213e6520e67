package tempproject

import (
	"fmt"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/devfeat/devfeat/internal/devcontainer"
	"github.com/devfeat/devfeat/internal/host"
	"github.com/devfeat/devfeat/internal/model"
)

// fixtureManifest records the parameters a temp project was generated
// from, written alongside devcontainer.json for test reproducibility —
// the same "small sidecar YAML next to the generated config" idiom the
// driving CLI uses for its Compose override files.
type fixtureManifest struct {
	BaseImage      string   `yaml:"baseImage"`
	CollectionPath string   `yaml:"collectionPath"`
	FeatureIDs     []string `yaml:"featureIds"`
	GeneratedAt    string   `yaml:"generatedAt"`
}

// Generate creates a throwaway dev-container workspace under
// <tmp>/vsch/container-features-test/<timestamp>/.devcontainer/, writing a
// devcontainer.json that pins baseImage and a features mapping from
// "<collectionPath>/<featureID>" to "latest" for each of featureIDs. It
// returns the workspace's root folder path. A nil h defaults to the
// OS-backed host.Host.
func Generate(baseImage, collectionPath string, featureIDs []string, h host.Host) (string, error) {
	if h == nil {
		h = host.New()
	}

	timestamp := time.Now().UTC().Format("20060102-150405.000000")
	root := h.Join(h.TmpDir(), "vsch", "container-features-test", timestamp)
	devcontainerDir := h.Join(root, ".devcontainer")

	if err := h.Mkdirp(devcontainerDir); err != nil {
		return "", &model.HostIOError{Op: "mkdir " + devcontainerDir, Err: err}
	}

	featureRefs := make(map[string]string, len(featureIDs))
	for _, id := range featureIDs {
		featureRefs[toSlashJoin(collectionPath, id)] = "latest"
	}

	doc := devcontainer.NewImageFeaturesDocument(baseImage, featureRefs)
	data, err := devcontainer.WriteDocument(doc)
	if err != nil {
		return "", fmt.Errorf("synthesizing temp project devcontainer.json: %w", err)
	}

	configPath := h.Join(devcontainerDir, "devcontainer.json")
	if err := h.WriteFile(configPath, data, 0o644); err != nil {
		return "", &model.HostIOError{Op: "write " + configPath, Err: err}
	}

	manifest := fixtureManifest{
		BaseImage:      baseImage,
		CollectionPath: collectionPath,
		FeatureIDs:     featureIDs,
		GeneratedAt:    timestamp,
	}
	manifestData, err := yaml.Marshal(manifest)
	if err != nil {
		return "", fmt.Errorf("serializing temp project fixture manifest: %w", err)
	}

	manifestPath := h.Join(root, "fixture.yaml")
	if err := h.WriteFile(manifestPath, manifestData, 0o644); err != nil {
		return "", &model.HostIOError{Op: "write " + manifestPath, Err: err}
	}

	return root, nil
}

func toSlashJoin(collectionPath, featureID string) string {
	return filepath.ToSlash(filepath.Join(collectionPath, featureID))
}
