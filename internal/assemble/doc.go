// Package assemble implements the Feature Set Assembler: grouping a
// user's feature mapping into FeatureSets by resolved source, enriching
// each Feature with metadata read from the fetched payload's
// devcontainer-features.json, and applying the inclusion policy.
//
// Assembly is deterministic: given the same feature mapping and the same
// fetched payloads, it produces a bitwise-identical FeaturesConfig modulo
// temp paths.
package assemble
