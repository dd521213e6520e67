package identifier

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/devfeat/devfeat/internal/model"
)

// validate runs the go-playground/validator struct tags declared on
// model.SourceInformation, which require Kind to be one of the four known
// source kinds. The variant-specific field groups are not validated.
var validate = validator.New()

// validID matches the feature-id charset: a leading alphanumeric or
// underscore, followed by any run of alphanumerics, underscores, hyphens.
var validID = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_\-]*$`)

// directTarball matches "<anything>.tgz#<id>".
var directTarball = regexp.MustCompile(`^(.+\.tgz)#([^/#]*)$`)

// githubTagged matches an optional "@<tag>" suffix on the trailing segment
// of a github-repo identifier.
var githubTagged = regexp.MustCompile(`^(.*)@([^@]+)$`)

// Resolve parses an identifier string into a (SourceInformation, featureID)
// pair, or returns a *model.ParseError if no rule in the grammar matches.
// Resolve never returns any other error kind.
func Resolve(ident string) (model.SourceInformation, string, error) {
	// Rule 1: direct-tarball. Any identifier containing a URI scheme
	// separator is judged exclusively against this rule — it either
	// matches the full ".tgz#<id>" grammar or is rejected outright.
	if strings.Contains(ident, "://") {
		m := directTarball.FindStringSubmatch(ident)
		if m == nil {
			return model.SourceInformation{}, "", &model.ParseError{Identifier: ident}
		}
		tarballUri, id := m[1], m[2]
		if id == "" || !validID.MatchString(id) {
			return model.SourceInformation{}, "", &model.ParseError{Identifier: ident}
		}
		src := model.SourceInformation{
			Kind:       model.SourceDirectTar,
			TarballUri: tarballUri,
		}
		if err := validate.Struct(src); err != nil {
			return model.SourceInformation{}, "", &model.ParseError{Identifier: ident}
		}
		return src, id, nil
	}

	// Rule 2: file-path. The trailing path segment is the feature id,
	// taken verbatim from the identifier string — no rewriting (see
	// DESIGN.md, Open Question 1).
	if strings.HasPrefix(ident, "./") || strings.HasPrefix(ident, "../") || strings.HasPrefix(ident, "/") {
		id := filepath.Base(ident)
		if id == "" || id == "." || id == "/" {
			return model.SourceInformation{}, "", &model.ParseError{Identifier: ident}
		}
		src := model.SourceInformation{
			Kind:       model.SourceFilePath,
			FilePath:   ident,
			IsRelative: !filepath.IsAbs(ident),
		}
		if err := validate.Struct(src); err != nil {
			return model.SourceInformation{}, "", &model.ParseError{Identifier: ident}
		}
		return src, id, nil
	}

	// Rule 3: github-repo. Exactly three slash-separated segments before
	// any "@<tag>" suffix on the last segment.
	parts := strings.Split(ident, "/")
	if len(parts) == 3 {
		owner, repo, idAndTag := parts[0], parts[1], parts[2]
		id := idAndTag
		tag := ""
		isLatest := true
		if m := githubTagged.FindStringSubmatch(idAndTag); m != nil {
			id, tag = m[1], m[2]
			isLatest = false
		}
		if owner != "" && repo != "" && id != "" && validID.MatchString(id) {
			src := model.SourceInformation{
				Kind:     model.SourceGitHubRepo,
				Owner:    owner,
				Repo:     repo,
				Tag:      tag,
				IsLatest: isLatest,
			}
			if isLatest {
				src.APIUri = fmt.Sprintf("https://api.github.com/repos/%s/%s/releases/latest", owner, repo)
				src.UnauthenticatedUri = fmt.Sprintf("https://github.com/%s/%s/releases/latest/download/devcontainer-features.tgz", owner, repo)
			} else {
				src.APIUri = fmt.Sprintf("https://api.github.com/repos/%s/%s/releases/tags/%s", owner, repo, tag)
				src.UnauthenticatedUri = fmt.Sprintf("https://github.com/%s/%s/releases/download/%s/devcontainer-features.tgz", owner, repo, tag)
			}
			if err := validate.Struct(src); err != nil {
				return model.SourceInformation{}, "", &model.ParseError{Identifier: ident}
			}
			return src, id, nil
		}
	}

	// Rule 4: local-cache. A bare id with no path or scheme structure.
	if validID.MatchString(ident) {
		src := model.SourceInformation{Kind: model.SourceLocalCache}
		if err := validate.Struct(src); err != nil {
			return model.SourceInformation{}, "", &model.ParseError{Identifier: ident}
		}
		return src, ident, nil
	}

	// Rule 5: reject.
	return model.SourceInformation{}, "", &model.ParseError{Identifier: ident}
}

// GetSourceInfoString derives the canonical, stable, collision-resistant
// directory/stage-name string for a SourceInformation.
func GetSourceInfoString(src model.SourceInformation) string {
	switch src.Kind {
	case model.SourceLocalCache:
		return "local-cache"
	case model.SourceGitHubRepo:
		ref := "latest"
		if !src.IsLatest {
			ref = src.Tag
		}
		return fmt.Sprintf("github-%s-%s-%s", src.Owner, src.Repo, ref)
	case model.SourceDirectTar:
		return "tarball-" + slug(src.TarballUri)
	case model.SourceFilePath:
		abs := src.FilePath
		if src.IsRelative {
			if a, err := filepath.Abs(src.FilePath); err == nil {
				abs = a
			}
		}
		return "filepath-" + slug(abs)
	default:
		return "unknown-" + slug(fmt.Sprintf("%#v", src))
	}
}

// slug derives a short, filesystem-safe, collision-resistant token from an
// arbitrary string via a truncated SHA-256 hex digest.
func slug(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:16]
}
