// Package cli — configmerge.go implements the "devfeat config merge"
// command, exposing the Config Merger directly for debugging dev-container
// config composition.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/devfeat/devfeat/internal/devcontainer"
	"github.com/devfeat/devfeat/internal/mergeconfig"
	"github.com/devfeat/devfeat/internal/model"
)

// configMergeFlags holds the flag values for "config merge".
type configMergeFlags struct {
	parentPath    string
	childPath     string
	behaviorsPath string
}

// NewConfigCommand creates the "config" parent command and its "merge"
// subcommand.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "devcontainer.json configuration tooling",
	}
	cmd.AddCommand(newConfigMergeCommand())
	return cmd
}

func newConfigMergeCommand() *cobra.Command {
	flags := &configMergeFlags{}

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge two devcontainer.json documents and print the result",
		Long: `merge combines --child into --parent under the per-key ExtendBehavior
table in --behaviors, and prints the merged document.

Examples:
  devfeat config merge --parent base/devcontainer.json --child override/devcontainer.json --behaviors behaviors.json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigMerge(flags)
		},
	}

	cmd.Flags().StringVar(&flags.parentPath, "parent", "", "Path to the parent devcontainer.json (required)")
	cmd.Flags().StringVar(&flags.childPath, "child", "", "Path to the child devcontainer.json (required)")
	cmd.Flags().StringVar(&flags.behaviorsPath, "behaviors", "", "Path to a JSON document mapping top-level key to extend behavior (required)")

	_ = cmd.MarkFlagRequired("parent")
	_ = cmd.MarkFlagRequired("child")
	_ = cmd.MarkFlagRequired("behaviors")

	return cmd
}

func runConfigMerge(flags *configMergeFlags) error {
	parent, err := devcontainer.LoadDocument(flags.parentPath)
	if err != nil {
		return model.WrapCLIError(model.ExitHostIOFailed, "failed to load --parent", err)
	}

	child, err := devcontainer.LoadDocument(flags.childPath)
	if err != nil {
		return model.WrapCLIError(model.ExitHostIOFailed, "failed to load --child", err)
	}

	behaviors, err := loadBehaviors(flags.behaviorsPath)
	if err != nil {
		return model.WrapCLIError(model.ExitHostIOFailed, "failed to load --behaviors", err)
	}

	trace := func(key string, behavior model.ExtendBehavior, source string) {
		VerboseLog("merge key %q: behavior=%s source=%s", key, behavior, source)
	}

	merged, err := mergeconfig.Merge(parent, child, behaviors, trace)
	if err != nil {
		return model.WrapCLIError(model.ExitMergeFailed, "merge failed", err)
	}

	data, err := devcontainer.WriteDocument(merged)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to serialize merged document", err)
	}

	if IsJSONOutput() {
		var doc map[string]interface{}
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
		pretty, err := json.MarshalIndent(map[string]interface{}{"merged": doc}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(pretty))
		return nil
	}

	fmt.Println(string(data))
	return nil
}

func loadBehaviors(path string) (map[string]model.ExtendBehavior, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	behaviors := make(map[string]model.ExtendBehavior, len(raw))
	for k, v := range raw {
		behaviors[k] = model.ExtendBehavior(v)
	}
	return behaviors, nil
}
