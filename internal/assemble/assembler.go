package assemble

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/devfeat/devfeat/internal/identifier"
	"github.com/devfeat/devfeat/internal/model"
)

// PolicyFunc decides whether a resolved Feature should be included in the
// build. The engine accepts this as an external collaborator; Default
// always returns true.
type PolicyFunc func(model.Feature) bool

// Default is the product-policy predicate shipped with this repository:
// it never excludes a feature.
func Default(model.Feature) bool {
	return true
}

// Assembler groups resolved features by source and enriches them with
// fetched metadata.
type Assembler struct {
	Policy PolicyFunc
	Logger zerolog.Logger
}

// New constructs an Assembler. A nil policy defaults to Default.
func New(policy PolicyFunc, logger zerolog.Logger) *Assembler {
	if policy == nil {
		policy = Default
	}
	return &Assembler{Policy: policy, Logger: logger}
}

// Assemble groups every entry of a devcontainer.json features mapping into
// FeatureSets by resolved SourceInformation, enriches each Feature with
// metadata read from dstFolder/<source-info-string>/features/<id>/devcontainer-features.json,
// and returns the resulting FeaturesConfig.
//
// Iteration order over the features mapping is the sorted order of its
// keys — encoding/json discards a JSON object's original key order when
// decoding into a Go map, so this is the closest deterministic
// approximation to the "declaration order" ordering guarantee available
// without a custom ordered decoder; see DESIGN.md.
func (a *Assembler) Assemble(features map[string]interface{}, dstFolder string) (*model.FeaturesConfig, error) {
	ids := make([]string, 0, len(features))
	for id := range features {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	cfg := &model.FeaturesConfig{DstFolder: dstFolder}
	setIndex := make(map[string]int)

	for _, rawID := range ids {
		src, featureID, err := identifier.Resolve(rawID)
		if err != nil {
			a.Logger.Warn().Str("identifier", rawID).Msg("rejected feature identifier, skipping")
			continue
		}

		infoStr := identifier.GetSourceInfoString(src)
		idx, ok := setIndex[infoStr]
		if !ok {
			idx = len(cfg.FeatureSets)
			setIndex[infoStr] = idx
			cfg.FeatureSets = append(cfg.FeatureSets, model.FeatureSet{
				SourceInformation: src,
				DstFolder:         dstFolder,
			})
		}

		value := toOptionValue(features[rawID])

		feature := model.Feature{
			ID:    featureID,
			Value: value,
		}

		meta, err := loadMetadata(dstFolder, infoStr, featureID)
		if err != nil {
			a.Logger.Debug().Err(err).Str("feature", featureID).Msg("no feature metadata found, using defaults")
		} else {
			feature.BuildArg = meta.BuildArg
			feature.ContainerEnv = meta.ContainerEnv
			feature.Options = meta.Options
		}

		feature.HasAcquire = hasScript(dstFolder, infoStr, featureID, "bin/acquire")
		feature.HasConfigure = hasScript(dstFolder, infoStr, featureID, "bin/configure")
		feature.HasCommon = dirExists(filepath.Join(dstFolder, infoStr, "features", "common"))

		if src.Kind == model.SourceLocalCache {
			feature.Included = true
		} else {
			feature.Included = a.Policy(feature)
		}

		cfg.FeatureSets[idx].Features = append(cfg.FeatureSets[idx].Features, feature)
	}

	return cfg, nil
}

func toOptionValue(v interface{}) model.FeatureOptionValue {
	switch val := v.(type) {
	case string:
		return model.FeatureOptionValue{Scalar: val}
	case map[string]interface{}:
		opts := make(map[string]string, len(val))
		for k, ov := range val {
			opts[k] = fmt.Sprintf("%v", ov)
		}
		return model.FeatureOptionValue{Options: opts}
	case nil:
		return model.FeatureOptionValue{}
	default:
		return model.FeatureOptionValue{Scalar: fmt.Sprintf("%v", val)}
	}
}

func loadMetadata(dstFolder, infoStr, featureID string) (model.FeatureMetadata, error) {
	path := filepath.Join(dstFolder, infoStr, "features", featureID, "devcontainer-features.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return model.FeatureMetadata{}, err
	}

	var records []model.FeatureMetadata
	if err := json.Unmarshal(data, &records); err == nil {
		for _, rec := range records {
			if rec.ID == featureID {
				return rec, nil
			}
		}
	}

	var single model.FeatureMetadata
	if err := json.Unmarshal(data, &single); err != nil {
		return model.FeatureMetadata{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return single, nil
}

func hasScript(dstFolder, infoStr, featureID, rel string) bool {
	path := filepath.Join(dstFolder, infoStr, "features", featureID, rel)
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
