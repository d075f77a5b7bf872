package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/a11yscan/cmd/patterns"
	"github.com/scan-io-git/a11yscan/cmd/scan"
	"github.com/scan-io-git/a11yscan/cmd/version"
	"github.com/scan-io-git/a11yscan/internal/config"
	"github.com/scan-io-git/a11yscan/pkg/shared/errors"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "a11yscan [command]",
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		Short:                 "a11yscan finds accessibility anti-patterns in frontend sources.",
		Long: `a11yscan scans component, template and style sources for accessibility anti-patterns
	described by a pattern catalog, and reports every match with its WCAG metadata.
	`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $A11YSCAN_CONFIG or ./config.yml)")
	rootCmd.AddCommand(scan.ScanCmd)
	rootCmd.AddCommand(patterns.PatternsCmd)
	rootCmd.AddCommand(version.NewVersionCmd())
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		return errors.ExitCode(err)
	}
	return 0
}

func initConfig() {
	var err error

	AppConfig, err = config.NewConfig(config.ResolveConfigPath(cfgFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "initializing config file function is crashed - %v \n", err)
		os.Exit(errors.ExitCodeConfig)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(errors.ExitCodeConfig)
	}

	scan.Init(AppConfig)
	patterns.Init(AppConfig)
	version.Init(AppConfig)
}
