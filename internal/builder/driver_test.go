package builder

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devfeat/devfeat/internal/host"
	"github.com/devfeat/devfeat/internal/model"
	"github.com/devfeat/devfeat/internal/recipe"
)

// fakeDocker writes an executable "docker" shim onto PATH that echoes its
// arguments to stderr and exits with the given status, then returns the
// shim's directory. PATH is restored through t.Cleanup.
func fakeDocker(t *testing.T, exitCode int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell shim not supported on windows")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "docker")
	body := "#!/bin/sh\necho \"$@\" >&2\nexit " + itoa(exitCode) + "\n"
	require.NoError(t, os.WriteFile(script, []byte(body), 0o755))

	origPath := os.Getenv("PATH")
	os.Setenv("PATH", dir+string(os.PathListSeparator)+origPath)
	t.Cleanup(func() { os.Setenv("PATH", origPath) })

	return dir
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func TestBuild_AdvancedBackendSuccess(t *testing.T) {
	fakeDocker(t, 0)

	dst := t.TempDir()
	rec := &recipe.Recipe{Dockerfile: "FROM scratch\n"}
	drv := New(nil, host.New(), zerolog.Nop())

	result, err := drv.Build(context.Background(), rec, dst, "myimage:latest", model.BackendAdvanced, map[string]string{"FOO": "bar"}, "build1")
	require.NoError(t, err)
	assert.Equal(t, "myimage:latest", result.ImageTag)
	assert.Equal(t, model.BackendAdvanced, result.Backend)

	data, err := os.ReadFile(filepath.Join(dst, "Dockerfile"))
	require.NoError(t, err)
	assert.Equal(t, rec.Dockerfile, string(data))
}

func TestBuild_LegacyBackendSuccess(t *testing.T) {
	fakeDocker(t, 0)

	dst := t.TempDir()
	rec := &recipe.Recipe{
		Dockerfile:             "FROM scratch\n",
		BuildContentDockerfile: "FROM scratch\nCOPY . /tmp/build-features/\n",
	}
	drv := New(nil, host.New(), zerolog.Nop())

	result, err := drv.Build(context.Background(), rec, dst, "myimage:legacy", model.BackendLegacy, nil, "build2")
	require.NoError(t, err)
	assert.Equal(t, model.BackendLegacy, result.Backend)

	_, err = os.Stat(filepath.Join(dst, "Dockerfile.buildContent"))
	require.NoError(t, err)
}

func TestBuild_SubprocessFailureReturnsBuildError(t *testing.T) {
	fakeDocker(t, 7)

	dst := t.TempDir()
	rec := &recipe.Recipe{Dockerfile: "FROM scratch\n"}
	drv := New(nil, host.New(), zerolog.Nop())

	_, err := drv.Build(context.Background(), rec, dst, "myimage:fail", model.BackendAdvanced, nil, "build3")
	require.Error(t, err)

	var buildErr *model.BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, 7, buildErr.ExitCode)
}

func TestBuild_RejectsUnsupportedBackend(t *testing.T) {
	fakeDocker(t, 0)

	dst := t.TempDir()
	rec := &recipe.Recipe{Dockerfile: "FROM scratch\n"}
	drv := New(nil, host.New(), zerolog.Nop())

	_, err := drv.Build(context.Background(), rec, dst, "myimage:x", model.BackendMode("bogus"), nil, "build4")
	require.Error(t, err)
}

func TestBuildArgFlags_SortedDeterministicOrder(t *testing.T) {
	flags := buildArgFlags(map[string]string{"B": "2", "A": "1"})
	assert.Equal(t, []string{"--build-arg", "A=1", "--build-arg", "B=2"}, flags)
}
