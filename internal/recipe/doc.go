// Package recipe implements the Build Recipe Synthesizer: it turns a
// FeaturesConfig into an ordered list of typed Dockerfile stanzas, writes
// per-feature environment files, and hands the stanza list to a single
// pretty-printer that is the only place string concatenation happens.
//
// Every function other than the pretty-printer operates on the structured
// stanza list, never on raw Dockerfile text.
package recipe
