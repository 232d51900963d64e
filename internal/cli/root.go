package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/packdrift/packdrift/pkg/buildinfo"
)

// Execute runs the packdrift CLI. The logger level follows the
// --verbose flag and is attached to the command context so every
// subcommand shares it.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:           "packdrift",
		Short:         "packdrift reconciles R code usage, DESCRIPTION, and renv.lock",
		Long:          "packdrift keeps three sources of truth consistent without running R:\npackages used in source code, packages declared in DESCRIPTION, and\nversions pinned in the lockfile. Exit code 0 means fully consistent;\n1 means an inconsistency remains or a fix step failed.",
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newCheckCmd())
	root.AddCommand(newSysdepsCmd())
	root.AddCommand(newSyncRuntimeCmd())

	return root.ExecuteContext(ctx)
}
