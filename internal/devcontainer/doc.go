// Package devcontainer loads devcontainer.json documents into the fields
// the engine needs (image, features, remote-user settings) and serializes
// generic document maps back to formatted JSON.
//
// JSONC (JSON with Comments) is supported via github.com/tidwall/jsonc,
// ensuring compatibility with the common practice of commenting
// devcontainer.json files.
package devcontainer
