// Package cli — featurestest.go implements the "devfeat features test"
// command: it generates a throwaway dev-container workspace pinning a base
// image plus a list of features, then drives the ordinary build pipeline
// against it.
package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devfeat/devfeat/internal/host"
	"github.com/devfeat/devfeat/internal/model"
	"github.com/devfeat/devfeat/internal/tempproject"
)

// featuresTestFlags holds the flag values for "features test".
type featuresTestFlags struct {
	baseImage  string
	collection string
	features   string
	backend    string
}

// NewFeaturesCommand creates the "features" parent command and its "test"
// subcommand.
func NewFeaturesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "features",
		Short: "Feature-payload tooling",
	}
	cmd.AddCommand(newFeaturesTestCommand())
	return cmd
}

func newFeaturesTestCommand() *cobra.Command {
	flags := &featuresTestFlags{}

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Build a throwaway image pinning the given features",
		Long: `test generates a minimal dev-container workspace that pins --base-image
and a features mapping built from --collection and --features, then runs
the ordinary build pipeline against it.

Examples:
  devfeat features test --base-image ubuntu:22.04 \
    --collection ghcr.io/devcontainers/features --features go,docker-in-docker`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeaturesTest(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.baseImage, "base-image", "", "Base image to pin in the generated devcontainer.json (required)")
	cmd.Flags().StringVar(&flags.collection, "collection", "", "Feature collection path or identifier prefix (required)")
	cmd.Flags().StringVar(&flags.features, "features", "", "Comma-separated feature ids to pin (required)")
	cmd.Flags().StringVar(&flags.backend, "backend", "", "Build backend: advanced or legacy")

	_ = cmd.MarkFlagRequired("base-image")
	_ = cmd.MarkFlagRequired("collection")
	_ = cmd.MarkFlagRequired("features")

	return cmd
}

func runFeaturesTest(ctx context.Context, flags *featuresTestFlags) error {
	ids := splitCSV(flags.features)
	if len(ids) == 0 {
		return model.NewCLIError(model.ExitNoFeaturesSpecified, "--features must list at least one feature id")
	}

	projectDir, err := tempproject.Generate(flags.baseImage, flags.collection, ids, host.New())
	if err != nil {
		return model.WrapCLIError(model.ExitHostIOFailed, "failed to generate temp project", err)
	}

	buildFlags := &buildFlags{
		configPath: projectDir + "/.devcontainer/devcontainer.json",
		imageTag:   "devfeat-features-test:" + strings.Join(ids, "-"),
		backend:    flags.backend,
	}

	return runBuild(ctx, buildFlags)
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
