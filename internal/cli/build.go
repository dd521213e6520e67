// Package cli — build.go implements the "devfeat build" command.
//
// build drives the full pipeline: load a devcontainer.json, resolve and
// fetch every referenced feature, assemble a FeaturesConfig, synthesize a
// Dockerfile, and invoke the container builder. It prints the resulting
// BuildResult as text or JSON, depending on the --json flag.
package cli

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/devfeat/devfeat/internal/assemble"
	"github.com/devfeat/devfeat/internal/builder"
	"github.com/devfeat/devfeat/internal/devcontainer"
	"github.com/devfeat/devfeat/internal/docker"
	"github.com/devfeat/devfeat/internal/engineconfig"
	"github.com/devfeat/devfeat/internal/fetch"
	"github.com/devfeat/devfeat/internal/host"
	"github.com/devfeat/devfeat/internal/identifier"
	"github.com/devfeat/devfeat/internal/model"
	"github.com/devfeat/devfeat/internal/recipe"
)

// buildFlags holds the flag values for the build command.
type buildFlags struct {
	configPath string
	imageTag   string
	backend    string
	dstFolder  string
}

// NewBuildCommand creates the "build" cobra command.
func NewBuildCommand() *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compose dev-container features into a built image",
		Long: `build loads a devcontainer.json, resolves every feature identifier it
references, fetches each feature's payload, synthesizes a Dockerfile, and
drives the container builder to produce the final image.

Examples:
  devfeat build --config .devcontainer/devcontainer.json --tag myimage:latest
  devfeat build --config .devcontainer/devcontainer.json --tag myimage:latest --backend legacy`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", "", "Path to devcontainer.json (required)")
	cmd.Flags().StringVar(&flags.imageTag, "tag", "", "Tag to apply to the built image (required)")
	cmd.Flags().StringVar(&flags.backend, "backend", "", "Build backend: advanced or legacy (default from devfeat.yaml)")
	cmd.Flags().StringVar(&flags.dstFolder, "dst", "", "Staging folder for fetched feature payloads (default: a temp directory)")

	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("tag")

	return cmd
}

func runBuild(ctx context.Context, flags *buildFlags) error {
	logger := LoggerFromContext(ctx)

	overrides := map[string]interface{}{}
	if flags.backend != "" {
		overrides["preferred_backend"] = flags.backend
	}
	engineCfg, err := engineconfig.Load("", overrides)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to load engine configuration", err)
	}

	backend := engineCfg.PreferredBackend
	if flags.backend != "" {
		parsed, err := model.ParseBackendMode(flags.backend)
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "invalid --backend value", err)
		}
		backend = parsed
	}

	cfg, err := devcontainer.LoadConfig(flags.configPath)
	if err != nil {
		return model.WrapCLIError(model.ExitHostIOFailed, "failed to load devcontainer.json", err)
	}

	dstFolder := flags.dstFolder
	if dstFolder == "" {
		tmp, err := os.MkdirTemp("", "devfeat-build-*")
		if err != nil {
			return model.WrapCLIError(model.ExitHostIOFailed, "failed to create staging directory", err)
		}
		defer os.RemoveAll(tmp)
		dstFolder = tmp
	}

	sources := distinctSources(cfg.Features, logger)

	if len(sources) > 0 {
		fetcher := fetch.New(host.New(), engineCfg.CacheDir, engineCfg.DefaultFetchTimeout, logger)
		fetcher.GitHubToken = os.Getenv("GITHUB_TOKEN")
		if err := fetcher.FetchAll(ctx, sources, dstFolder); err != nil {
			return model.WrapCLIError(model.ExitFetchFailed, "failed to fetch feature payloads", err)
		}
	}

	assembler := assemble.New(assemble.Default, logger)
	featuresCfg, err := assembler.Assemble(cfg.Features, dstFolder)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to assemble feature set", err)
	}

	buildID, err := randomBuildID()
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to generate build id", err)
	}

	rec, err := recipe.Synthesize(featuresCfg, cfg.Image, backend, buildID, host.New())
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to synthesize build recipe", err)
	}

	dockerClient, err := docker.NewClient()
	if err != nil {
		return err
	}
	defer dockerClient.Close()

	driver := builder.New(dockerClient, host.New(), logger)
	result, err := driver.Build(ctx, rec, dstFolder, flags.imageTag, backend, nil, buildID)
	if err != nil {
		return model.WrapCLIError(model.ExitBuildFailed, "build failed", err)
	}

	return printBuildResult(result)
}

// distinctSources resolves every key of a devcontainer.json features
// mapping, deduplicated by source-info string, skipping identifiers the
// Identifier Resolver rejects (logged at Warn, not fatal — matching
// assemble.Assembler's own rejection handling).
func distinctSources(features map[string]interface{}, logger zerolog.Logger) []model.SourceInformation {
	seen := make(map[string]bool)
	var sources []model.SourceInformation

	for rawID := range features {
		src, _, err := identifier.Resolve(rawID)
		if err != nil {
			logger.Warn().Str("identifier", rawID).Msg("rejected feature identifier, skipping")
			continue
		}
		infoStr := identifier.GetSourceInfoString(src)
		if seen[infoStr] {
			continue
		}
		seen[infoStr] = true
		sources = append(sources, src)
	}

	return sources
}

func printBuildResult(result *model.BuildResult) error {
	if IsJSONOutput() {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Built %s (%s backend) in %s\n", result.ImageTag, result.Backend, result.Duration)
	return nil
}

// randomBuildID generates a short, per-invocation opaque token used to
// suffix the legacy backend's throwaway content-image tag, closing the
// fixed-name collision risk a hardcoded tag would carry.
func randomBuildID() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
