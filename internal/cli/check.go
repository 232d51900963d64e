package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/packdrift/packdrift/internal/config"
	"github.com/packdrift/packdrift/pkg/cache"
	"github.com/packdrift/packdrift/pkg/errors"
	"github.com/packdrift/packdrift/pkg/lockfile"
	"github.com/packdrift/packdrift/pkg/manifest"
	"github.com/packdrift/packdrift/pkg/reconcile"
	"github.com/packdrift/packdrift/pkg/registry"
	"github.com/packdrift/packdrift/pkg/scan"
)

// checkOpts holds the command-line flags for the check command.
type checkOpts struct {
	strict     bool   // widen scan scope to tests, vignettes, and inst
	fix        bool   // mutate manifest and lockfile
	noPrune    bool   // keep unused manifest entries
	configPath string // explicit packdrift.toml location
}

func newCheckCmd() *cobra.Command {
	var opts checkOpts

	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Reconcile code usage, manifest, and lockfile",
		Long:  "Check scans the project's R sources, diffs the used packages against\nDESCRIPTION and the lockfile, and reports every gap. With --fix the gaps\nare closed in place: missing declarations are added and missing versions\nare confirmed against the registries and pinned.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return runCheck(cmd.Context(), root, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.strict, "strict", false, "also scan tests, vignettes, and inst")
	cmd.Flags().BoolVar(&opts.fix, "fix", false, "add missing declarations and pin missing versions")
	cmd.Flags().BoolVar(&opts.noPrune, "no-prune", false, "keep manifest entries no longer used by code")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to packdrift.toml")
	return cmd
}

func runCheck(ctx context.Context, root string, opts checkOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(root, opts.configPath)
	if err != nil {
		return err
	}

	man := manifest.New(filepath.Join(root, cfg.Manifest.Path))
	if cfg.Manifest.Field != "" {
		man.Field = cfg.Manifest.Field
	}

	// The project's own name never counts as a dependency.
	projectName := man.ProjectName()
	filter := cfg.Filter(projectName)

	roots, extensions, skip := cfg.ScanOptions(opts.strict)
	tracker := newProgress(logger)
	scanned, err := scan.Scan(root, scan.Options{
		Roots:        roots,
		Extensions:   extensions,
		SkipPatterns: skip,
	}, filter)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "cannot scan %s", root)
	}
	tracker.done(fmt.Sprintf("Scanned %d files, %d packages in use", scanned.FilesScanned, len(scanned.Packages)))

	lock := &lockfile.Store{
		Path:                  filepath.Join(root, cfg.Lockfile.Path),
		DefaultRuntimeVersion: cfg.Lockfile.RuntimeVersion,
		DefaultRepositoryURL:  cfg.Lockfile.RepositoryURL,
		Logf:                  logger.Infof,
	}

	primary := registry.NewCRAN(cfg.Registries.PrimaryURL)
	validator := registry.NewValidator(cache.NewMemoryCache(), logger.Debugf,
		primary,
		registry.NewSnapshot(cfg.Registries.SnapshotURL, cfg.Registries.Snapshot),
		registry.NewGitHub(cfg.Registries.GitHubURL, os.Getenv("GITHUB_TOKEN")),
	)

	runner := &reconcile.Runner{
		Manifest:  man,
		Lock:      lock,
		Validator: validator,
		Versions:  primary,
		Filter:    filter,
		Options: reconcile.Options{
			Fix:   opts.fix,
			Prune: opts.fix && !opts.noPrune,
		},
		Logf: logger.Debugf,
	}

	report, err := runner.Run(ctx, scanned.Packages, scanned.InvalidCount)
	if err != nil {
		return err
	}

	renderReport(os.Stdout, report, logger.GetLevel() <= charmlog.DebugLevel)

	if report.Verdict.Failed() {
		return fmt.Errorf("dependency check failed: %s", report.Verdict)
	}
	return nil
}
