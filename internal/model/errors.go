package model

import "fmt"

// FetchErrorKind classifies why a Feature Fetcher download failed.
type FetchErrorKind string

const (
	FetchKindNetwork    FetchErrorKind = "network"
	FetchKindTimeout    FetchErrorKind = "timeout"
	FetchKindHTTPStatus FetchErrorKind = "http-status"
	FetchKindAuth       FetchErrorKind = "auth"
)

// FetchError is returned by the Feature Fetcher when a source cannot be
// retrieved. It always aborts the build for the affected feature set.
type FetchError struct {
	Kind   FetchErrorKind
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %s: %v", e.Source, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractError is returned when a downloaded payload is not a well-formed
// tar+gzip archive.
type ExtractError struct {
	Source string
	Err    error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Source, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// PayloadError is returned when an extracted tree lacks the expected
// features/<id>/ subtree.
type PayloadError struct {
	Source    string
	FeatureID string
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("payload %s: missing features/%s/", e.Source, e.FeatureID)
}

// MergeTypeError is returned by the Config Merger when a key bound to
// BehaviorMerge does not hold ordered-sequence values on both sides.
type MergeTypeError struct {
	Key string
}

func (e *MergeTypeError) Error() string {
	return fmt.Sprintf("merge: key %q is bound to merge behavior but is not an array on both sides", e.Key)
}

// BuildError is returned by the Build Driver when the container builder
// process exits non-zero. Stderr is captured verbatim.
type BuildError struct {
	ExitCode int
	Stderr   string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build failed (exit %d): %s", e.ExitCode, e.Stderr)
}

// HostIOError wraps a failure from the host abstraction (internal/host)
// untouched, per the error-handling design.
type HostIOError struct {
	Op  string
	Err error
}

func (e *HostIOError) Error() string {
	return fmt.Sprintf("host io %s: %v", e.Op, e.Err)
}

func (e *HostIOError) Unwrap() error { return e.Err }

// ParseError reports that an identifier string did not match any of the
// Identifier Resolver's grammar rules. It is never surfaced to the user;
// callers log it at Warn and skip the entry.
type ParseError struct {
	Identifier string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("identifier %q not recognized", e.Identifier)
}
