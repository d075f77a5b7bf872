package scan

import (
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/pflag"

	"github.com/scan-io-git/a11yscan/internal/ci"
	"github.com/scan-io-git/a11yscan/internal/config"
	"github.com/scan-io-git/a11yscan/internal/findings"
	"github.com/scan-io-git/a11yscan/internal/git"
	"github.com/scan-io-git/a11yscan/internal/sarif"
	"github.com/scan-io-git/a11yscan/pkg/shared/files"
)

// Report formats
const (
	FormatJSON  = "json"
	FormatSARIF = "sarif"

	reportBaseName = "a11y-source-findings"
)

var reportExtensions = map[string]string{
	FormatJSON:  "json",
	FormatSARIF: "sarif",
}

// HasFlags reports whether any flag was set on the command line.
func HasFlags(flags *pflag.FlagSet) bool {
	changed := false
	flags.Visit(func(*pflag.Flag) {
		changed = true
	})
	return changed
}

// applyConfigDefaults fills options left unset on the command line from the configuration file.
func applyConfigDefaults(options *RunOptionsScan, cfg *config.Config, jobsChanged bool) {
	if cfg == nil {
		return
	}
	options.Catalog = config.SetThen(options.Catalog, cfg.Scanner.Catalog)
	options.Boundaries = config.SetThen(options.Boundaries, cfg.Scanner.Boundaries)
	options.Exclude = append(append([]string{}, cfg.Scanner.Exclude...), options.Exclude...)
	if !jobsChanged {
		options.Jobs = config.GetJobs(cfg)
	}
}

// reportFileName returns the default report file name for the format.
func reportFileName(format string) string {
	return fmt.Sprintf("%s.%s", reportBaseName, reportExtensions[format])
}

// prepareOutputFile resolves the report location and creates its folder.
// Without an explicit output the configured or default output is used, relative to the project directory.
// Existing directories and paths without an extension get the default file name appended.
func prepareOutputFile(outputPath, projectDir, format string, cfg *config.Config) (string, error) {
	if outputPath == "" {
		outputPath = config.GetOutput(cfg)
		if !filepath.IsAbs(outputPath) {
			outputPath = filepath.Join(projectDir, outputPath)
		}
	}

	fullPath, folder, err := files.DetermineFileFullPath(outputPath, reportFileName(format))
	if err != nil {
		return "", err
	}
	if err := files.CreateFolderIfNotExists(folder); err != nil {
		return "", fmt.Errorf("failed to create results folder %q: %w", folder, err)
	}

	abs, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output path: %w", err)
	}
	return abs, nil
}

// attachRepositoryMetadata records git provenance when the project lives in a repository.
// Values the checkout lacks, such as the branch of a detached CI checkout, come from the CI environment.
func attachRepositoryMetadata(report *findings.Report, logger hclog.Logger) {
	md, err := git.CollectRepositoryMetadata(report.ProjectDir)
	if err != nil {
		logger.Debug("repository metadata not collected from git", "reason", err)
		md = nil
	}
	report.Repository = ci.Detect().Fill(md)
}

// writeReport writes the report in the requested format, replacing any previous file.
func writeReport(outputFile, format string, report *findings.Report, toolVersion string) error {
	switch format {
	case FormatSARIF:
		return sarif.WriteReport(outputFile, report, toolVersion)
	case FormatJSON, "":
		return files.WriteJSONFile(outputFile, report)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
