package scan

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/scan-io-git/a11yscan/pkg/shared/files"
)

const maxJobs = 64

// validateScanArgs validates the arguments provided to the scan command.
func validateScanArgs(options *RunOptionsScan, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("exactly one project directory must be specified, got %d", len(args))
	}

	projectDir, err := files.ExpandPath(args[0])
	if err != nil {
		return fmt.Errorf("failed to expand project directory: %w", err)
	}
	if err := files.ValidateDir(projectDir); err != nil {
		return fmt.Errorf("invalid project directory %q: %w", args[0], err)
	}
	options.ProjectDir = projectDir

	options.Format = strings.ToLower(strings.TrimSpace(options.Format))
	if options.Format == "" {
		options.Format = FormatJSON
	}
	if _, ok := reportExtensions[options.Format]; !ok {
		return fmt.Errorf("unsupported format %q, expected %s or %s", options.Format, FormatJSON, FormatSARIF)
	}

	if options.Jobs < 1 || options.Jobs > maxJobs {
		return fmt.Errorf("the 'jobs' flag must be between 1 and %d", maxJobs)
	}

	for _, pattern := range options.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude glob %q", pattern)
		}
	}

	if options.Boundaries != "" {
		if err := files.ValidatePath(options.Boundaries); err != nil {
			return fmt.Errorf("invalid boundaries file: %w", err)
		}
	}

	return nil
}
