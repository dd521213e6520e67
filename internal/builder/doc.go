// Package builder implements the Build Driver: invoking the container
// builder subprocess against a synthesized recipe, in either the
// advanced (buildx, named build contexts) or legacy (throwaway content
// image) backend mode, and reporting a BuildResult.
package builder
