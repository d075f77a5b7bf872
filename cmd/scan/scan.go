package scan

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/a11yscan/cmd/version"
	"github.com/scan-io-git/a11yscan/internal/catalog"
	"github.com/scan-io-git/a11yscan/internal/config"
	"github.com/scan-io-git/a11yscan/internal/logger"
	"github.com/scan-io-git/a11yscan/internal/scanner"
	"github.com/scan-io-git/a11yscan/internal/scope"
	"github.com/scan-io-git/a11yscan/internal/watch"
	"github.com/scan-io-git/a11yscan/pkg/shared/errors"
	"github.com/scan-io-git/a11yscan/pkg/shared/httpclient"
)

// RunOptionsScan holds the arguments for the scan command.
type RunOptionsScan struct {
	ProjectDir string
	Framework  string
	OutputPath string
	PatternID  string
	Catalog    string
	Boundaries string
	Format     string
	Exclude    []string
	Jobs       int
	Watch      bool
}

// Global variables for configuration and command arguments
var (
	AppConfig        *config.Config
	scanOptions      RunOptionsScan
	exampleScanUsage = `  # Scanning a project with the built-in catalog
  a11yscan scan /path/to/my_project

  # Narrowing the scan to the sources of a React project
  a11yscan scan --framework react /path/to/my_project

  # Running a single pattern and writing the results to a specific file
  a11yscan scan -p IMG-ALT -o /tmp/img-alt.json /path/to/my_project

  # Using a remote catalog and producing a SARIF report
  a11yscan scan --catalog https://example.com/a11y/patterns.yml --format sarif /path/to/my_project

  # Re-running the scan on every change
  a11yscan scan --watch --framework vue /path/to/my_project`
)

// ScanCmd represents the scan command.
var ScanCmd = &cobra.Command{
	Use:                   "scan [--framework/-F NAME] [--output/-o PATH] [--pattern/-p ID] [--catalog PATH|URL] [--boundaries PATH] [--format/-f json|sarif] [--exclude GLOB] [-j JOBS] [--watch] PROJECT_DIR",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleScanUsage,
	Short:                 "Scans project sources for accessibility anti-patterns",
	Long: `Scans component, template and style sources of a project line by line against a catalog
of accessibility anti-patterns and writes a findings report.

Findings are "confirmed", or "potential" when nearby lines suggest the issue is already handled.`,
	RunE: runScanCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runScanCommand executes the scan command.
func runScanCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	logger := logger.NewLogger(AppConfig, "core-scan")

	if err := validateScanArgs(&scanOptions, args); err != nil {
		logger.Error("invalid scan arguments", "error", err)
		return errors.NewCommandError(scanOptions, err, errors.ExitCodeConfig)
	}
	applyConfigDefaults(&scanOptions, AppConfig, cmd.Flags().Changed("jobs"))

	client := httpclient.InitializeRestyClient(logger, AppConfig)
	cat, err := catalog.Load(scanOptions.Catalog, client)
	if err != nil {
		logger.Error("failed to load pattern catalog", "error", err)
		return errors.NewCommandError(scanOptions, err, errors.ExitCodeConfig)
	}
	cat.SetMatchTimeout(config.GetMatchTimeout(AppConfig))

	if len(cat.Patterns) == 0 {
		logger.Warn("pattern catalog is empty, nothing to scan", "catalog", cat.Source)
		return nil
	}
	if scanOptions.PatternID != "" {
		if _, ok := cat.Find(scanOptions.PatternID); !ok {
			logger.Warn("pattern not found in catalog, nothing to scan", "pattern", scanOptions.PatternID, "catalog", cat.Source)
			return nil
		}
	}

	boundaries, err := scope.LoadBoundaries(scanOptions.Boundaries)
	if err != nil {
		logger.Error("failed to load source boundaries", "error", err)
		return errors.NewCommandError(scanOptions, err, errors.ExitCodeConfig)
	}

	outputFile, err := prepareOutputFile(scanOptions.OutputPath, scanOptions.ProjectDir, scanOptions.Format, AppConfig)
	if err != nil {
		logger.Error("failed to prepare output location", "error", err)
		return errors.NewCommandError(scanOptions, err, errors.ExitCodeConfig)
	}

	s := scanner.New(cat, boundaries, scanner.Config{
		Exclude:     scanOptions.Exclude,
		MaxFileSize: config.GetMaxFileSize(AppConfig),
		Jobs:        scanOptions.Jobs,
	}, logger)

	if err := runPass(s, &scanOptions, outputFile, logger); err != nil {
		return err
	}

	if !scanOptions.Watch {
		logger.Info("scan command completed successfully")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchProject(ctx, s, &scanOptions, outputFile, logger)
}

// runPass runs one complete scan and replaces the output file with its results.
func runPass(s *scanner.Scanner, opts *RunOptionsScan, outputFile string, logger hclog.Logger) error {
	report, err := s.Run(scanner.Options{
		ProjectDir: opts.ProjectDir,
		Framework:  opts.Framework,
		PatternID:  opts.PatternID,
	})
	if err != nil {
		logger.Error("scan failed", "error", err)
		return errors.NewCommandError(*opts, err, errors.ExitCodeConfig)
	}

	attachRepositoryMetadata(report, logger)

	if err := writeReport(outputFile, opts.Format, report, version.CoreVersion); err != nil {
		logger.Error("failed to write results", "error", err)
		return errors.NewCommandError(*opts, err, errors.ExitCodeRuntime)
	}

	logger.Info("results saved", "path", outputFile, "patterns", report.PatternsRun, "findings", report.Summary.Total)
	return nil
}

// watchProject re-runs the scan whenever a scanned file inside the scope changes, until ctx is cancelled.
func watchProject(ctx context.Context, s *scanner.Scanner, opts *RunOptionsScan, outputFile string, logger hclog.Logger) error {
	dirs, err := s.Scope(opts.ProjectDir, opts.Framework)
	if err != nil {
		return errors.NewCommandError(*opts, fmt.Errorf("failed to resolve watch scope: %w", err), errors.ExitCodeConfig)
	}

	w, err := watch.New(watch.Config{
		Dirs:       dirs,
		Extensions: catalog.Extensions(s.Patterns(opts.PatternID)),
		Ignore:     []string{outputFile},
		Logger:     logger.Named("watch"),
	})
	if err != nil {
		logger.Error("failed to start watching", "error", err)
		return errors.NewCommandError(*opts, err, errors.ExitCodeRuntime)
	}

	logger.Info("watching for changes, press Ctrl+C to stop", "directories", len(dirs))
	err = w.Run(ctx, func(context.Context) error {
		return runPass(s, opts, outputFile, logger)
	})
	logger.Info("watch stopped")
	return err
}

// Initialize flags for the scan command.
func init() {
	ScanCmd.Flags().StringVarP(&scanOptions.Framework, "framework", "F", "", "Framework of the project, used to narrow the scan to its source directories (e.g., react, vue, angular).")
	ScanCmd.Flags().StringVarP(&scanOptions.OutputPath, "output", "o", "", "Path to the output file or directory. Defaults to the configured output, or 'audit/', inside the project directory.")
	ScanCmd.Flags().StringVarP(&scanOptions.PatternID, "pattern", "p", "", "Run only the pattern with this id.")
	ScanCmd.Flags().StringVar(&scanOptions.Catalog, "catalog", "", "Path or http(s) URL of the pattern catalog. Defaults to the built-in catalog.")
	ScanCmd.Flags().StringVar(&scanOptions.Boundaries, "boundaries", "", "Path to the framework source boundaries file. Defaults to the built-in boundaries.")
	ScanCmd.Flags().StringVarP(&scanOptions.Format, "format", "f", FormatJSON, "Format of the report: json or sarif.")
	ScanCmd.Flags().StringSliceVar(&scanOptions.Exclude, "exclude", nil, "Glob, relative to the project directory, of paths to skip. Can be repeated.")
	ScanCmd.Flags().IntVarP(&scanOptions.Jobs, "jobs", "j", config.DefaultJobs, "Number of patterns scanned concurrently.")
	ScanCmd.Flags().BoolVar(&scanOptions.Watch, "watch", false, "Keep running and re-scan when sources change.")
	ScanCmd.Flags().BoolP("help", "h", false, "Show help for the scan command.")
}
