// Package fetch implements the Feature Fetcher: for each resolved
// model.SourceInformation, materializing a local directory containing the
// feature's payload (scripts, metadata) under a build's dstFolder.
//
// Fetches for distinct source-info strings run concurrently, bounded by
// the number of distinct sources, honoring the caller's context for
// cancellation and timeout (default 60s, see internal/engineconfig).
package fetch
