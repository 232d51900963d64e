package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/packdrift/packdrift/internal/config"
	"github.com/packdrift/packdrift/pkg/errors"
)

func newSysdepsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "sysdeps [path]",
		Short: "Verify the host tools the project relies on",
		Long:  "Sysdeps checks the configured host utilities are on PATH. A missing\nrequired tool fails the check; a missing optional tool only downgrades\nthe dependent behavior and is reported as a warning.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			cfg, err := config.Load(root, configPath)
			if err != nil {
				return err
			}
			return checkSysdeps(os.Stdout, cfg.SysDeps, exec.LookPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to packdrift.toml")
	return cmd
}

// checkSysdeps verifies each configured tool via lookPath. Missing
// optional tools produce warnings only; the first missing required tool
// makes the whole check fail, though every tool is still reported.
func checkSysdeps(w io.Writer, deps config.SysDeps, lookPath func(string) (string, error)) error {
	var missing []string

	for _, tool := range deps.Required {
		if _, err := lookPath(tool); err != nil {
			missing = append(missing, tool)
			fmt.Fprintf(w, "%s %s: required but not on PATH\n", styleError.Render(iconError), styleValue.Render(tool))
			continue
		}
		fmt.Fprintf(w, "%s %s\n", styleSuccess.Render(iconSuccess), styleValue.Render(tool))
	}

	for _, tool := range deps.Optional {
		if _, err := lookPath(tool); err != nil {
			fmt.Fprintf(w, "%s %s: not on PATH, dependent steps will be skipped\n",
				styleWarning.Render(iconWarning), styleValue.Render(tool))
			continue
		}
		fmt.Fprintf(w, "%s %s\n", styleSuccess.Render(iconSuccess), styleValue.Render(tool))
	}

	if len(missing) > 0 {
		return errors.New(errors.ErrCodeToolNotFound, "missing required tools: %v", missing).
			WithRemediation("install the missing tools with your system package manager and rerun")
	}
	return nil
}
