package model

// SourceKind discriminates the SourceInformation tagged variant.
type SourceKind string

const (
	SourceLocalCache   SourceKind = "local-cache"
	SourceGitHubRepo   SourceKind = "github-repo"
	SourceDirectTar    SourceKind = "direct-tarball"
	SourceFilePath     SourceKind = "file-path"
)

// SourceInformation is the tagged variant describing where a feature's
// payload comes from. Exactly one of the variant-specific field groups is
// populated, selected by Kind.
type SourceInformation struct {
	Kind SourceKind `json:"kind" validate:"required,oneof=local-cache github-repo direct-tarball file-path"`

	// github-repo fields.
	Owner               string `json:"owner,omitempty"`
	Repo                string `json:"repo,omitempty"`
	Tag                 string `json:"tag,omitempty"`
	IsLatest            bool   `json:"isLatest,omitempty"`
	APIUri              string `json:"apiUri,omitempty"`
	UnauthenticatedUri  string `json:"unauthenticatedUri,omitempty"`

	// direct-tarball fields.
	TarballUri string `json:"tarballUri,omitempty"`

	// file-path fields.
	FilePath   string `json:"filePath,omitempty"`
	IsRelative bool   `json:"isRelative,omitempty"`
}

// FeatureOptionValue is either a bare scalar (e.g. "latest") or a
// structured mapping of option-name to scalar value.
type FeatureOptionValue struct {
	Scalar  string            `json:"-"`
	Options map[string]string `json:"-"`
}

// IsScalar reports whether the value selected a bare scalar rather than a
// structured option object.
func (v FeatureOptionValue) IsScalar() bool {
	return v.Options == nil
}

// FeatureMetadata is the subset of a devcontainer-features.json record the
// engine reads. Unknown keys are ignored by the decoder.
type FeatureMetadata struct {
	ID           string            `json:"id"`
	Name         string            `json:"name,omitempty"`
	Options      map[string]OptionSchema `json:"options,omitempty"`
	BuildArg     string            `json:"buildArg,omitempty"`
	ContainerEnv map[string]string `json:"containerEnv,omitempty"`
	Entrypoint   string            `json:"entrypoint,omitempty"`
}

// OptionSchema describes one user-configurable option for a feature, as
// declared in devcontainer-features.json.
type OptionSchema struct {
	Type    string `json:"type,omitempty"`
	Default string `json:"default,omitempty"`
}

// Feature is one resolved, metadata-enriched entry from a user's features
// mapping.
type Feature struct {
	ID           string              `json:"id" validate:"required"`
	Value        FeatureOptionValue  `json:"value"`
	BuildArg     string              `json:"buildArg,omitempty"`
	ContainerEnv map[string]string   `json:"containerEnv,omitempty"`
	Options      map[string]OptionSchema `json:"options,omitempty"`
	Included     bool                `json:"included"`

	// HasAcquire/HasConfigure/HasCommon reflect the payload layout on disk
	// (features/<id>/bin/acquire, bin/configure, sibling common/) and are
	// populated by the Feature Set Assembler after the Feature Fetcher has
	// materialized the payload.
	HasAcquire  bool `json:"-"`
	HasConfigure bool `json:"-"`
	HasCommon   bool `json:"-"`
}

// FeatureSet groups every Feature sharing one SourceInformation.
type FeatureSet struct {
	SourceInformation SourceInformation `json:"sourceInformation"`
	Features          []Feature         `json:"features"`
	DstFolder         string            `json:"dstFolder"`
}

// FeaturesConfig is the Feature Set Assembler's output: every FeatureSet
// for one build, sharing one DstFolder.
type FeaturesConfig struct {
	FeatureSets []FeatureSet `json:"featureSets"`
	DstFolder   string       `json:"dstFolder"`
}

// DevContainerConfig is the subset of a user-authored devcontainer.json the
// engine reads and writes.
type DevContainerConfig struct {
	Image                string                 `json:"image,omitempty"`
	Features             map[string]interface{} `json:"features,omitempty"`
	RemoteUser           string                 `json:"remoteUser,omitempty"`
	UpdateRemoteUserUID  *bool                  `json:"updateRemoteUserUID,omitempty"`

	// Extra holds every other top-level key verbatim, so the Config Merger
	// can operate over the full document without the engine needing to
	// model every devcontainer.json key.
	Extra map[string]interface{} `json:"-"`
}
