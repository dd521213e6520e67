package recipe

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/devfeat/devfeat/internal/host"
	"github.com/devfeat/devfeat/internal/identifier"
	"github.com/devfeat/devfeat/internal/model"
)

// Recipe is the synthesizer's output: the main Dockerfile content, the
// legacy-mode content-image Dockerfile (empty in advanced mode), and the
// paths of every per-feature environment file written to disk.
type Recipe struct {
	Dockerfile             string
	BuildContentDockerfile string
	EnvFilesWritten        []string
}

// Synthesize builds the stanza list from a FeaturesConfig, writes every
// per-feature (or per-source-info-string, for install.sh-style features)
// environment file to disk through h, and renders the final Dockerfile via
// the single pretty-printer in stanza.go. A nil h defaults to the OS-backed
// host.Host.
func Synthesize(cfg *model.FeaturesConfig, baseImage string, backend model.BackendMode, buildID string, h host.Host) (*Recipe, error) {
	if h == nil {
		h = host.New()
	}
	if !backend.IsValid() {
		return nil, fmt.Errorf("invalid backend mode %q", backend)
	}

	legacy := backend == model.BackendLegacy
	contentRoot := "."
	if legacy {
		contentRoot = "/tmp/build-features/"
	}

	var stages []stanza
	var buildStages []stanza  // featureBuildStages: acquire side-stages, independent of the main line
	var copyStages []stanza   // copyFeatureBuildStages: copy-backs onto the main line
	var envStanzas []stanza   // containerEnv lines, emitted on the main line
	var installEntries []installEntry
	sharedEnvContent := make(map[string][]string) // source-info-string -> accumulated env lines
	var envFilesWritten []string

	base := baseStanza{BaseImageArg: baseImage}
	if !legacy {
		base.SyntaxDirective = "docker/dockerfile:1"
	}
	stages = append(stages, base)

	contentImageTag := ""
	var buildContentDockerfile string
	if legacy {
		contentImageTag = "dev_container_feature_content_temp_" + buildID
		buildContentDockerfile = "FROM scratch\nCOPY . /tmp/build-features/\n"
	}
	stages = append(stages, contentSourceStanza{ContentImageTag: contentImageTag})

	for _, set := range cfg.FeatureSets {
		infoStr := identifier.GetSourceInfoString(set.SourceInformation)

		for _, feature := range set.Features {
			if !feature.Included {
				continue
			}

			safeID := safeFeatureID(feature.ID)
			featurePath := toSlashJoin(infoStr, "features", feature.ID)
			envLines := buildEnvLines(feature, safeID)

			if feature.HasAcquire {
				envLines = append(envLines, fmt.Sprintf("_BUILD_ARG_%s_TARGETPATH=/usr/local/devcontainer-features/%s/%s", safeID, infoStr, feature.ID))

				envFilePath := filepath.Join(cfg.DstFolder, infoStr, "features", feature.ID, "devcontainer-features.env")
				if err := writeEnvFile(h, envFilePath, envLines); err != nil {
					return nil, err
				}
				envFilesWritten = append(envFilesWritten, envFilePath)

				stageName := infoStr + "_" + feature.ID
				buildStages = append(buildStages, stageStanza{
					Name:        stageName,
					FeaturePath: featurePath,
					CommonPath:  toSlashJoin(infoStr, "features", "common"),
					HasCommon:   feature.HasCommon,
				})
				copyStages = append(copyStages, copyStanza{
					StageName:    stageName,
					FeaturePath:  featurePath,
					HasConfigure: feature.HasConfigure,
				})
			} else {
				sharedEnvContent[infoStr] = append(sharedEnvContent[infoStr], envLines...)
				installEntries = append(installEntries, installEntry{
					FeaturePath: featurePath,
					EnvFile:     toSlashJoin(infoStr, "devcontainer-features.env"),
				})
			}

			for _, k := range sortedKeys(feature.ContainerEnv) {
				if v := feature.ContainerEnv[k]; v != "" {
					envStanzas = append(envStanzas, envStanza{Key: k, Value: v})
				}
			}
		}
	}

	for infoStr, lines := range sharedEnvContent {
		envFilePath := filepath.Join(cfg.DstFolder, infoStr, "devcontainer-features.env")
		if err := writeEnvFile(h, envFilePath, lines); err != nil {
			return nil, err
		}
		envFilesWritten = append(envFilesWritten, envFilePath)
	}

	// featureBuildStages are declared as independent side stages off
	// dev_containers_target_stage first; resumeTargetStageStanza then
	// re-enters the main line so featureLayer, containerEnv, and the
	// copy-backs all land on dev_containers_target_stage, which stays the
	// final (default-built) stage regardless of how many side stages
	// preceded it.
	stages = append(stages, buildStages...)
	stages = append(stages, resumeTargetStageStanza{})
	if len(installEntries) > 0 {
		stages = append(stages, installStanza{Entries: installEntries})
	}
	stages = append(stages, envStanzas...)
	stages = append(stages, copyStages...)

	dockerfile := render(stages, renderContext{ContentSourceRoot: contentRoot, Legacy: legacy})

	return &Recipe{
		Dockerfile:             dockerfile,
		BuildContentDockerfile: buildContentDockerfile,
		EnvFilesWritten:        envFilesWritten,
	}, nil
}

// safeFeatureID computes SAFE_ID per §4.5: upper-cased id with "/" and
// "-" replaced by "_".
func safeFeatureID(id string) string {
	replacer := strings.NewReplacer("/", "_", "-", "_")
	return strings.ToUpper(replacer.Replace(id))
}

func buildEnvLines(feature model.Feature, safeID string) []string {
	var lines []string

	for _, optName := range sortedOptionKeys(feature.Options) {
		value := ""
		if feature.Value.Options != nil {
			value = feature.Value.Options[optName]
		} else if feature.Value.IsScalar() {
			value = feature.Value.Scalar
		}
		lines = append(lines, fmt.Sprintf("_BUILD_ARG_%s_%s=%q", safeID, strings.ToUpper(optName), value))
	}

	lines = append(lines, fmt.Sprintf("_BUILD_ARG_%s=true", safeID))

	if feature.BuildArg != "" {
		main := feature.Value.Scalar
		lines = append(lines, fmt.Sprintf("%s=%s", feature.BuildArg, main))
	}

	return lines
}

func writeEnvFile(h host.Host, path string, lines []string) error {
	if err := h.Mkdirp(filepath.Dir(path)); err != nil {
		return &model.HostIOError{Op: "mkdir " + filepath.Dir(path), Err: err}
	}
	content := strings.Join(lines, "\n") + "\n"
	if err := h.WriteFile(path, []byte(content), 0o644); err != nil {
		return &model.HostIOError{Op: "write " + path, Err: err}
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedOptionKeys(m map[string]model.OptionSchema) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func toSlashJoin(elem ...string) string {
	return filepath.ToSlash(filepath.Join(elem...))
}
