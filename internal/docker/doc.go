// Package docker provides Docker daemon client initialization and
// reachability checks used by the Build Driver before invoking a
// buildx/build subprocess.
//
// The package uses github.com/docker/docker/client as the underlying
// Docker SDK, with version negotiation enabled for broad compatibility,
// and automatic socket detection across Linux, macOS, and Windows.
package docker
