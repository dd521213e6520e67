package model

import (
	"fmt"
	"strings"
	"time"
)

// ExtendBehavior controls how the Config Merger combines a single top-level
// key between a parent and a child document.
type ExtendBehavior string

const (
	// BehaviorReplace: result key = child's value (even if absent).
	BehaviorReplace ExtendBehavior = "replace"

	// BehaviorSkip: result key = parent's value; child ignored.
	BehaviorSkip ExtendBehavior = "skip"

	// BehaviorMerge: both values must be ordered sequences; result is their
	// deduplicated union, parent-first.
	BehaviorMerge ExtendBehavior = "merge"
)

// IsValid reports whether b is one of the three known behaviors.
func (b ExtendBehavior) IsValid() bool {
	switch b {
	case BehaviorReplace, BehaviorSkip, BehaviorMerge:
		return true
	default:
		return false
	}
}

// ParseExtendBehavior converts a string to an ExtendBehavior.
func ParseExtendBehavior(s string) (ExtendBehavior, error) {
	b := ExtendBehavior(strings.ToLower(s))
	if !b.IsValid() {
		return "", fmt.Errorf("invalid merge behavior: %q (valid: replace, skip, merge)", s)
	}
	return b, nil
}

// BackendMode selects which container-builder strategy the Build Driver
// uses: the advanced BuildKit-style backend (named build contexts) or the
// legacy classic-build backend (throwaway content image).
type BackendMode string

const (
	// BackendAdvanced supports named build contexts (buildx).
	BackendAdvanced BackendMode = "advanced"

	// BackendLegacy has no build-context support; content is staged through
	// a throwaway FROM-scratch image.
	BackendLegacy BackendMode = "legacy"
)

// IsValid reports whether m is one of the two known backends.
func (m BackendMode) IsValid() bool {
	switch m {
	case BackendAdvanced, BackendLegacy:
		return true
	default:
		return false
	}
}

// SupportsBuildContext reports whether this backend can receive additional
// named build contexts (§9's builder strategy capability flag).
func (m BackendMode) SupportsBuildContext() bool {
	return m == BackendAdvanced
}

// ParseBackendMode converts a string to a BackendMode.
func ParseBackendMode(s string) (BackendMode, error) {
	mode := BackendMode(strings.ToLower(s))
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid backend mode: %q (valid: advanced, legacy)", s)
	}
	return mode, nil
}

// BuildResult is returned by the Build Driver on a successful build, for
// CLI summary printing (JSON or text).
type BuildResult struct {
	ImageTag string        `json:"imageTag"`
	Backend  BackendMode   `json:"backend"`
	Duration time.Duration `json:"duration"`
}

// ExitCode defines process exit codes for the devfeat CLI. Every engine
// error kind maps to exactly one of these at the CLI boundary.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitNoFeaturesSpecified indicates "features test" was invoked with an
	// empty feature list.
	ExitNoFeaturesSpecified ExitCode = 1

	// ExitFetchFailed indicates a FetchError (network, timeout, http-status,
	// or auth) aborted the build.
	ExitFetchFailed ExitCode = 2

	// ExitExtractFailed indicates an ExtractError or PayloadError aborted
	// the build.
	ExitExtractFailed ExitCode = 3

	// ExitMergeFailed indicates a MergeTypeError from the Config Merger.
	ExitMergeFailed ExitCode = 4

	// ExitBuildFailed indicates the container builder exited non-zero.
	ExitBuildFailed ExitCode = 5

	// ExitHostIOFailed indicates a HostIOError from the host abstraction.
	ExitHostIOFailed ExitCode = 6

	// ExitDockerNotRunning indicates the Docker daemon is not reachable.
	ExitDockerNotRunning ExitCode = 7
)

// CLIError is a custom error type that carries an exit code. Engine
// packages never construct one directly; the CLI layer wraps engine errors
// into a CLIError at the command boundary (see internal/cli).
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
