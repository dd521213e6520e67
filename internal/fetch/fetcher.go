package fetch

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/devfeat/devfeat/internal/host"
	"github.com/devfeat/devfeat/internal/identifier"
	"github.com/devfeat/devfeat/internal/model"
)

// Fetcher retrieves feature payloads for resolved SourceInformation values.
type Fetcher struct {
	Host           host.Host
	HTTPClient     *http.Client
	GitHubToken    string
	LocalCacheRoot string
	Timeout        time.Duration
	Logger         zerolog.Logger
}

// New constructs a Fetcher with the given bundled-feature-tree root and
// per-fetch timeout.
func New(h host.Host, localCacheRoot string, timeout time.Duration, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		Host:           h,
		HTTPClient:     &http.Client{},
		LocalCacheRoot: localCacheRoot,
		Timeout:        timeout,
		Logger:         logger,
	}
}

// FetchAll fetches every distinct SourceInformation concurrently, bounded
// by the number of distinct sources (§5), and returns the first error
// encountered (cancelling the remaining in-flight fetches).
func (f *Fetcher) FetchAll(ctx context.Context, sources []model.SourceInformation, dstFolder string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan error, len(sources))

	for _, src := range sources {
		wg.Add(1)
		go func(src model.SourceInformation) {
			defer wg.Done()
			if err := f.Fetch(ctx, src, dstFolder); err != nil {
				errCh <- err
				cancel()
			}
		}(src)
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return nil
}

// Fetch materializes one SourceInformation's payload under
// dstFolder/<source-info-string>/.
func (f *Fetcher) Fetch(ctx context.Context, src model.SourceInformation, dstFolder string) error {
	infoStr := identifier.GetSourceInfoString(src)
	dest := filepath.Join(dstFolder, infoStr)

	switch src.Kind {
	case model.SourceLocalCache:
		f.Logger.Debug().Str("source", infoStr).Msg("copying bundled local-cache tree")
		return f.copyTree(f.LocalCacheRoot, dest)

	case model.SourceFilePath:
		f.Logger.Debug().Str("source", infoStr).Str("path", src.FilePath).Msg("copying file-path payload")
		return f.copyTree(src.FilePath, dest)

	case model.SourceDirectTar:
		f.Logger.Debug().Str("source", infoStr).Str("uri", src.TarballUri).Msg("downloading direct-tarball payload")
		return f.downloadAndExtract(ctx, src.TarballUri, dest, infoStr)

	case model.SourceGitHubRepo:
		f.Logger.Debug().Str("source", infoStr).Str("uri", src.UnauthenticatedUri).Msg("downloading github-repo payload")
		return f.downloadAndExtract(ctx, src.UnauthenticatedUri, dest, infoStr)

	default:
		return &model.FetchError{Kind: model.FetchKindNetwork, Source: infoStr, Err: fmt.Errorf("unknown source kind %q", src.Kind)}
	}
}

func (f *Fetcher) downloadAndExtract(ctx context.Context, url, dest, infoStr string) error {
	timeout := f.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, url, nil)
	if err != nil {
		return &model.FetchError{Kind: model.FetchKindNetwork, Source: infoStr, Err: err}
	}
	if f.GitHubToken != "" {
		req.Header.Set("Authorization", "Bearer "+f.GitHubToken)
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		if fetchCtx.Err() != nil {
			return &model.FetchError{Kind: model.FetchKindTimeout, Source: infoStr, Err: err}
		}
		return &model.FetchError{Kind: model.FetchKindNetwork, Source: infoStr, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &model.FetchError{Kind: model.FetchKindAuth, Source: infoStr, Err: fmt.Errorf("http %d", resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusOK {
		return &model.FetchError{Kind: model.FetchKindHTTPStatus, Source: infoStr, Err: fmt.Errorf("http %d", resp.StatusCode)}
	}

	if err := extractTarGz(f.Host, resp.Body, dest); err != nil {
		return &model.ExtractError{Source: infoStr, Err: err}
	}
	return nil
}

// extractTarGz verifies the stream is well-formed tar+gzip and extracts it
// into dest, which is created if necessary, through h rather than calling
// os.MkdirAll/os.OpenFile directly.
func extractTarGz(h host.Host, r io.Reader, dest string) error {
	gzr, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("not a valid gzip stream: %w", err)
	}
	defer gzr.Close()

	if err := h.Mkdirp(dest); err != nil {
		return err
	}

	tr := tar.NewReader(gzr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("not a valid tar stream: %w", err)
		}

		target := filepath.Join(dest, hdr.Name)
		if !withinRoot(dest, target) {
			return fmt.Errorf("tar entry %q escapes extraction root", hdr.Name)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := h.Mkdirp(target); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := h.Mkdirp(filepath.Dir(target)); err != nil {
				return err
			}
			data, err := io.ReadAll(tr)
			if err != nil {
				return err
			}
			if err := h.WriteFile(target, data, os.FileMode(hdr.Mode)); err != nil {
				return err
			}
		}
	}
}

func withinRoot(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel != ".." && !filepathHasPrefix(rel, "../")
}

func filepathHasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// copyTree copies a directory tree from src to dest, skipping symlinks,
// preserving file modes — the same shape as the driving CLI's
// CopyDevContainerDir/copyFile helpers, generalized to copy an entire
// feature payload tree rather than a single devcontainer directory. Every
// directory/file operation routes through f.Host rather than calling os
// directly.
func (f *Fetcher) copyTree(src, dest string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := f.Host.Join(dest, rel)

		if info.IsDir() {
			return f.Host.Mkdirp(target)
		}
		return copyFile(f.Host, path, target, info.Mode())
	})
}

func copyFile(h host.Host, src, dest string, mode os.FileMode) error {
	if err := h.Mkdirp(filepath.Dir(dest)); err != nil {
		return err
	}
	data, err := h.ReadFile(src)
	if err != nil {
		return err
	}
	return h.WriteFile(dest, data, mode)
}

// CheckPayload verifies that the extracted/copied tree for a source
// contains the expected features/<id>/ subtree.
func CheckPayload(h host.Host, dstFolder, sourceInfoStr, featureID string) error {
	path := h.Join(dstFolder, sourceInfoStr, "features", featureID)
	if !h.IsDir(path) {
		return &model.PayloadError{Source: sourceInfoStr, FeatureID: featureID}
	}
	return nil
}
