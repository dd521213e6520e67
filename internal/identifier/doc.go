// Package identifier implements the Identifier Resolver: parsing a feature
// identifier string into a typed model.SourceInformation variant, and
// deriving the canonical source-info string used throughout the engine as
// a directory name and build-stage-name prefix.
//
// Resolution rules are evaluated in a fixed priority order (direct-tarball,
// file-path, github-repo, local-cache); anything else is a rejection, which
// is reported as a *model.ParseError rather than a build-aborting error —
// callers log it and skip the entry.
package identifier
