package version

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/a11yscan/internal/catalog"
	"github.com/scan-io-git/a11yscan/internal/config"
)

var AppConfig *config.Config

// Set at build time with -ldflags "-X".
var (
	CoreVersion   = "unknown"
	GolangVersion = "unknown"
	BuildTime     = "unknown"
)

// Versions holds version information for the application and its built-in catalog.
type Versions struct {
	Version         string `json:"version"`
	GolangVersion   string `json:"golang_version"`
	BuildTime       string `json:"build_time"`
	BuiltinPatterns int    `json:"builtin_patterns"`
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// NewVersionCmd creates a new cobra.Command for the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "version",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Print the version number of the application",
		Args:                  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printVersionInfo(cmd.OutOrStdout(), collectVersions())
		},
	}
}

// collectVersions gathers build information and the size of the built-in catalog.
func collectVersions() Versions {
	v := Versions{
		Version:       CoreVersion,
		GolangVersion: GolangVersion,
		BuildTime:     BuildTime,
	}
	if v.GolangVersion == "unknown" {
		v.GolangVersion = runtime.Version()
	}
	if cat, err := catalog.Default(); err == nil {
		v.BuiltinPatterns = len(cat.Patterns)
	}
	return v
}

// printVersionInfo prints the version information for the application.
func printVersionInfo(w io.Writer, v Versions) {
	fmt.Fprintf(w, "Core Version: v%s\n", v.Version)
	fmt.Fprintf(w, "Built-in Patterns: %d\n", v.BuiltinPatterns)
	fmt.Fprintf(w, "Go Version: %s\n", v.GolangVersion)
	fmt.Fprintf(w, "Build Time: %s\n", v.BuildTime)
}
