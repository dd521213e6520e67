// rewrite.go serializes devcontainer.json documents back to formatted JSON.
//
// Using map[string]interface{} rather than a typed struct preserves every
// field present in a source document, including ones the engine doesn't
// model — important for the Config Merger, whose merged output should
// round-trip unrecognized keys, and for the Temp Project Generator, which
// synthesizes a document from scratch.
package devcontainer

import (
	"encoding/json"
	"fmt"
)

// WriteDocument serializes a generic devcontainer.json-shaped map with
// 2-space indentation and a trailing newline, matching the formatting
// convention of hand-authored devcontainer.json files.
func WriteDocument(doc map[string]interface{}) ([]byte, error) {
	result, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize devcontainer.json: %w", err)
	}
	return append(result, '\n'), nil
}

// NewImageFeaturesDocument builds the minimal devcontainer.json document
// the Temp Project Generator writes: a base image plus a features mapping
// from collection-relative identifier to a version pin.
func NewImageFeaturesDocument(baseImage string, featureRefs map[string]string) map[string]interface{} {
	features := make(map[string]interface{}, len(featureRefs))
	for ref, version := range featureRefs {
		features[ref] = version
	}
	return map[string]interface{}{
		"image":    baseImage,
		"features": features,
	}
}
