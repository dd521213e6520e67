// Package model defines the domain types and value objects for the
// devfeat Feature Composition Engine.
//
// This package contains pure data structures with no external dependencies
// beyond struct validation tags. It defines the engine's error kinds
// (wrapped at the CLI boundary into CLIError/ExitCode), the ExtendBehavior
// and BackendMode enums, and the feature/source-information data model
// consumed by every other internal package.
package model
