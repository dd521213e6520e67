// Package tempproject implements the Temp Project Generator used by the
// `devfeat features test` command: it produces a minimal, throwaway
// dev-container workspace pinning a base image plus a list of features,
// so the ordinary build pipeline can be driven against it.
package tempproject
