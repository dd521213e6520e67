// Package mergeconfig implements the Config Merger: combining a parent
// dev-container configuration document with a child document under a
// per-key ExtendBehavior table.
//
// Merge is a pure function — it takes no logger and performs no I/O.
// Callers that want visibility into individual per-key decisions (the
// original tool's debug-log-every-decision behavior) pass a TraceFunc,
// invoked once per key with the chosen behavior; the `config merge` command
// in internal/cli binds it to VerboseLog, which prints each decision to
// stderr when --verbose is set.
package mergeconfig
