// Package engineconfig loads the ambient EngineConfig that parameterizes
// the rest of the engine (default fetch timeout, GitHub API base URL,
// cache directory, preferred backend), layered the way this repository's
// driving CLI layers configuration: built-in defaults, an optional
// devfeat.yaml file, DEVFEAT_-prefixed environment variables, and finally
// CLI flags.
package engineconfig
