package recipe

import "strings"

// Reserved build-arg names, per §6 of the build-file contract.
const (
	ArgBaseImage            = "_DEV_CONTAINERS_BASE_IMAGE"
	ArgImageUser            = "_DEV_CONTAINERS_IMAGE_USER"
	ArgFeatureContentSource = "_DEV_CONTAINERS_FEATURE_CONTENT_SOURCE"
)

// stanza is the sum type the synthesizer assembles and the pretty-printer
// renders. Every stanza kind corresponds to one region of the build file
// described in §4.5.
type stanza interface {
	render(w *strings.Builder, ctx renderContext)
}

// renderContext carries the backend-dependent knobs every stanza kind may
// need: the content-source root and whether a legacy content image stage
// must be prepended.
type renderContext struct {
	ContentSourceRoot string
	Legacy            bool
}

// baseStanza emits the builder syntax directive (advanced only) and the
// base-image build argument declaration.
type baseStanza struct {
	SyntaxDirective string // empty in legacy mode
	BaseImageArg    string
}

func (s baseStanza) render(w *strings.Builder, _ renderContext) {
	if s.SyntaxDirective != "" {
		w.WriteString("# syntax=" + s.SyntaxDirective + "\n")
	}
	w.WriteString("ARG " + ArgBaseImage + "=" + s.BaseImageArg + "\n")
	w.WriteString("FROM $" + ArgBaseImage + " AS dev_containers_target_stage\n\n")
}

// contentSourceStanza emits the legacy-mode fallback: a stage named
// dev_containers_feature_content_source built FROM the throwaway content
// image. In advanced mode this stanza is a no-op — content arrives through
// an injected build context instead.
type contentSourceStanza struct {
	ContentImageTag string
}

func (s contentSourceStanza) render(w *strings.Builder, ctx renderContext) {
	if !ctx.Legacy {
		return
	}
	w.WriteString("FROM " + s.ContentImageTag + " AS dev_containers_feature_content_source\n\n")
}

// stageStanza emits one intermediate build stage for a feature that
// declares a bin/acquire script: copy its payload plus the shared common/
// directory, source its env file, and run the acquire script.
type stageStanza struct {
	Name        string // "<source-info-string>_<id>"
	FeaturePath string // "<source-info-string>/features/<id>"
	CommonPath  string // "<source-info-string>/features/common"
	HasCommon   bool
}

func (s stageStanza) render(w *strings.Builder, ctx renderContext) {
	w.WriteString("FROM dev_containers_target_stage AS " + s.Name + "\n")
	w.WriteString("COPY --from=dev_containers_feature_content_source " +
		joinRoot(ctx.ContentSourceRoot, s.FeaturePath) + " " + s.FeaturePath + "\n")
	if s.HasCommon {
		w.WriteString("COPY --from=dev_containers_feature_content_source " +
			joinRoot(ctx.ContentSourceRoot, s.CommonPath) + " " + s.CommonPath + "\n")
	}
	w.WriteString("RUN cd " + s.FeaturePath + " && . ./devcontainer-features.env && ./bin/acquire\n\n")
}

// resumeTargetStageStanza re-enters dev_containers_target_stage after zero
// or more featureBuildStages have been declared as side stages off it. Every
// stanza emitted after this one is attributed to dev_containers_target_stage
// again, including it being the final (and therefore default-built) stage,
// per §4.5(a)'s featureLayer -> containerEnv -> copyFeatureBuildStages order.
type resumeTargetStageStanza struct{}

func (resumeTargetStageStanza) render(w *strings.Builder, _ renderContext) {
	w.WriteString("FROM dev_containers_target_stage\n\n")
}

// copyStanza emits the post-build-stage COPY (and optional configure RUN)
// for one acquire-using feature, back onto the main image.
type copyStanza struct {
	StageName    string
	FeaturePath  string
	HasConfigure bool
}

func (s copyStanza) render(w *strings.Builder, _ renderContext) {
	w.WriteString("COPY --from=" + s.StageName + " " + s.FeaturePath + " " + s.FeaturePath + "\n")
	if s.HasConfigure {
		w.WriteString("RUN cd " + s.FeaturePath + " && . ./devcontainer-features.env && ./bin/configure\n")
	}
}

// envStanza emits one containerEnv ENV line.
type envStanza struct {
	Key   string
	Value string
}

func (s envStanza) render(w *strings.Builder, _ renderContext) {
	w.WriteString("ENV " + s.Key + "=" + quoteEnvValue(s.Value) + "\n")
}

// installStanza emits the single featureLayer RUN that installs every
// feature lacking an acquire script, via install.sh.
type installStanza struct {
	Entries []installEntry
}

// installEntry describes one install.sh-style feature. EnvFile is the
// source-info-string-level shared env file path (§4.5c), distinct from
// FeaturePath because install.sh features don't get a per-feature file.
type installEntry struct {
	FeaturePath string
	EnvFile     string
}

func (s installStanza) render(w *strings.Builder, ctx renderContext) {
	if len(s.Entries) == 0 {
		return
	}
	if ctx.Legacy {
		copiedEnvFiles := make(map[string]bool)
		for _, e := range s.Entries {
			w.WriteString("COPY --from=dev_containers_feature_content_source " +
				joinRoot(ctx.ContentSourceRoot, e.FeaturePath) + " " + e.FeaturePath + "\n")
			if !copiedEnvFiles[e.EnvFile] {
				copiedEnvFiles[e.EnvFile] = true
				w.WriteString("COPY --from=dev_containers_feature_content_source " +
					joinRoot(ctx.ContentSourceRoot, e.EnvFile) + " " + e.EnvFile + "\n")
			}
		}
	}
	var cmds []string
	for _, e := range s.Entries {
		cmds = append(cmds, "( . "+e.EnvFile+" && cd "+e.FeaturePath+" && ./install.sh )")
	}
	w.WriteString("RUN " + strings.Join(cmds, " && \\\n    ") + "\n\n")
}

func joinRoot(root, rel string) string {
	if root == "." || root == "" {
		return rel
	}
	return strings.TrimSuffix(root, "/") + "/" + rel
}

func quoteEnvValue(v string) string {
	if !strings.ContainsAny(v, " \t\"") {
		return v
	}
	return "\"" + strings.ReplaceAll(v, "\"", "\\\"") + "\""
}

// render is the single pretty-printer: the only place in this package
// that concatenates Dockerfile text. Every synthesizer function before
// this point operates on the stanza list, never on raw strings.
func render(stanzas []stanza, ctx renderContext) string {
	var w strings.Builder
	for _, s := range stanzas {
		s.render(&w, ctx)
	}
	return w.String()
}
