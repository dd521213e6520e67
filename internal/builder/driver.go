package builder

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/devfeat/devfeat/internal/docker"
	"github.com/devfeat/devfeat/internal/host"
	"github.com/devfeat/devfeat/internal/model"
	"github.com/devfeat/devfeat/internal/recipe"
)

// featureContentContextName is the named build context the advanced
// backend injects, carrying the fetched feature payload tree.
const featureContentContextName = "dev_containers_feature_content_source"

// Driver invokes the container builder subprocess against a synthesized
// recipe.
type Driver struct {
	DockerClient *docker.Client
	Host         host.Host
	Logger       zerolog.Logger
}

// New constructs a Driver. dockerClient may be nil to skip the
// daemon-reachability preflight (used in tests). A nil h defaults to the
// OS-backed host.Host.
func New(dockerClient *docker.Client, h host.Host, logger zerolog.Logger) *Driver {
	if h == nil {
		h = host.New()
	}
	return &Driver{DockerClient: dockerClient, Host: h, Logger: logger}
}

// Build drives recipe against dstFolder: in advanced mode it invokes
// buildx directly; in legacy mode it first builds a throwaway content
// image, then builds the final image from a guaranteed-empty context.
func (d *Driver) Build(ctx context.Context, rec *recipe.Recipe, dstFolder, imageTag string, backend model.BackendMode, buildArgs map[string]string, buildID string) (*model.BuildResult, error) {
	start := time.Now()
	d.Logger.Debug().Str("platform", d.Host.Platform()).Str("backend", string(backend)).Msg("starting build")

	if d.DockerClient != nil {
		if err := d.DockerClient.Ping(ctx); err != nil {
			return nil, err
		}
	}

	dockerfilePath := d.Host.Join(dstFolder, "Dockerfile")
	if err := d.Host.WriteFile(dockerfilePath, []byte(rec.Dockerfile), 0o644); err != nil {
		return nil, &model.HostIOError{Op: "write " + dockerfilePath, Err: err}
	}

	switch backend {
	case model.BackendAdvanced:
		if err := d.buildAdvanced(ctx, dockerfilePath, dstFolder, imageTag, buildArgs); err != nil {
			return nil, err
		}

	case model.BackendLegacy:
		contentImageTag := "dev_container_feature_content_temp_" + buildID
		if err := d.buildContentImage(ctx, rec, dstFolder, contentImageTag); err != nil {
			return nil, err
		}
		if err := d.buildLegacy(ctx, dockerfilePath, imageTag, buildArgs, buildID); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unsupported backend mode %q", backend)
	}

	return &model.BuildResult{
		ImageTag: imageTag,
		Backend:  backend,
		Duration: time.Since(start),
	}, nil
}

func (d *Driver) buildAdvanced(ctx context.Context, dockerfilePath, dstFolder, imageTag string, buildArgs map[string]string) error {
	args := []string{
		"buildx", "build", "--load",
		"-f", dockerfilePath,
		"-t", imageTag,
		"--build-context", featureContentContextName + "=" + dstFolder,
	}
	args = append(args, buildArgFlags(buildArgs)...)
	args = append(args, dstFolder)

	d.Logger.Debug().Strs("args", args).Msg("invoking advanced-backend build")
	return d.run(ctx, args)
}

func (d *Driver) buildContentImage(ctx context.Context, rec *recipe.Recipe, dstFolder, contentImageTag string) error {
	contentDockerfile := d.Host.Join(dstFolder, "Dockerfile.buildContent")
	if err := d.Host.WriteFile(contentDockerfile, []byte(rec.BuildContentDockerfile), 0o644); err != nil {
		return &model.HostIOError{Op: "write " + contentDockerfile, Err: err}
	}

	args := []string{"build", "-f", contentDockerfile, "-t", contentImageTag, dstFolder}
	d.Logger.Debug().Strs("args", args).Msg("building legacy-backend content image")
	return d.run(ctx, args)
}

func (d *Driver) buildLegacy(ctx context.Context, dockerfilePath, imageTag string, buildArgs map[string]string, buildID string) error {
	emptyCtx := d.Host.Join(d.Host.TmpDir(), "devfeat-empty-context-"+buildID)
	if err := d.Host.Mkdirp(emptyCtx); err != nil {
		return &model.HostIOError{Op: "mkdir " + emptyCtx, Err: err}
	}
	defer os.RemoveAll(emptyCtx)

	args := []string{"build", "-f", dockerfilePath, "-t", imageTag}
	args = append(args, buildArgFlags(buildArgs)...)
	args = append(args, emptyCtx)

	d.Logger.Debug().Strs("args", args).Msg("invoking legacy-backend build")
	return d.run(ctx, args)
}

func buildArgFlags(buildArgs map[string]string) []string {
	keys := make([]string, 0, len(buildArgs))
	for k := range buildArgs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	flags := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		flags = append(flags, "--build-arg", fmt.Sprintf("%s=%s", k, buildArgs[k]))
	}
	return flags
}

// run invokes `docker <args...>` through d.Host.Exec, streaming stdout
// continuously. If stdin is a TTY it is forwarded to the subprocess (the
// PTY variant); otherwise the subprocess runs with no stdin attached (the
// non-PTY variant), per §4.6. Stderr is always captured so a non-zero exit
// can carry it in a BuildError.
func (d *Driver) run(ctx context.Context, args []string) error {
	var stdin io.Reader
	if term.IsTerminal(int(os.Stdin.Fd())) {
		stdin = os.Stdin
	}

	res, err := d.Host.Exec(ctx, "", stdin, os.Stdout, os.Stderr, "docker", args...)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return &model.BuildError{ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	return nil
}
