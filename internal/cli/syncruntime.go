package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/packdrift/packdrift/internal/config"
	"github.com/packdrift/packdrift/pkg/errors"
	"github.com/packdrift/packdrift/pkg/lockfile"
)

func newSyncRuntimeCmd() *cobra.Command {
	var (
		configPath   string
		referenceURL string
	)

	cmd := &cobra.Command{
		Use:   "sync-runtime [path]",
		Short: "Pin the bootstrap utility version from a reference environment",
		Long:  "Sync-runtime fetches a reference environment's lockfile and overwrites\nthe local reserved bootstrap entry with its pinned version, avoiding a\nslow source rebuild. It runs independently of the reconciliation loop.",
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

			url := referenceURL
			if url == "" {
				url = cfg.Lockfile.ReferenceURL
			}
			if url == "" {
				return errors.New(errors.ErrCodeInvalidConfig, "no reference environment configured").
					WithRemediation("set lockfile.reference_url in %s or pass --reference", config.DefaultFileName)
			}

			logger := loggerFromContext(cmd.Context())
			store := &lockfile.Store{
				Path:                  filepath.Join(root, cfg.Lockfile.Path),
				DefaultRuntimeVersion: cfg.Lockfile.RuntimeVersion,
				DefaultRepositoryURL:  cfg.Lockfile.RepositoryURL,
				Logf:                  logger.Infof,
			}
			return store.SyncRuntimeVersion(cmd.Context(), nil, url)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to packdrift.toml")
	cmd.Flags().StringVar(&referenceURL, "reference", "", "reference environment lockfile URL")
	return cmd
}
