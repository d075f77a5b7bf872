package patterns

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/a11yscan/internal/catalog"
	"github.com/scan-io-git/a11yscan/internal/config"
	"github.com/scan-io-git/a11yscan/internal/logger"
	"github.com/scan-io-git/a11yscan/pkg/shared/errors"
	"github.com/scan-io-git/a11yscan/pkg/shared/httpclient"
)

// RunOptionsPatterns holds the arguments for the patterns command.
type RunOptionsPatterns struct {
	Catalog string
	JSON    bool
}

// Global variables for configuration and command arguments
var (
	AppConfig            *config.Config
	patternsOptions      RunOptionsPatterns
	examplePatternsUsage = `  # Listing the built-in catalog
  a11yscan patterns

  # Listing a custom catalog as JSON
  a11yscan patterns --catalog /path/to/patterns.yml --json`
)

// PatternsCmd represents the patterns command.
var PatternsCmd = &cobra.Command{
	Use:                   "patterns [--catalog PATH|URL] [--json]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               examplePatternsUsage,
	Short:                 "Lists the patterns of a catalog",
	Args:                  cobra.NoArgs,
	RunE:                  runPatternsCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runPatternsCommand executes the patterns command.
func runPatternsCommand(cmd *cobra.Command, args []string) error {
	logger := logger.NewLogger(AppConfig, "core-patterns")

	location := patternsOptions.Catalog
	if location == "" && AppConfig != nil {
		location = AppConfig.Scanner.Catalog
	}

	cat, err := catalog.Load(location, httpclient.InitializeRestyClient(logger, AppConfig))
	if err != nil {
		logger.Error("failed to load pattern catalog", "error", err)
		return errors.NewCommandError(patternsOptions, err, errors.ExitCodeConfig)
	}

	if patternsOptions.JSON {
		return printJSON(cmd.OutOrStdout(), cat)
	}
	return printTable(cmd.OutOrStdout(), cat)
}

func printJSON(w io.Writer, cat *catalog.Catalog) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cat.Patterns)
}

func printTable(w io.Writer, cat *catalog.Catalog) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSEVERITY\tWCAG\tLEVEL\tEXTENSIONS\tTITLE")
	for _, p := range cat.Patterns {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, dash(p.Severity), dash(p.WCAG), dash(p.WCAGLevel), dash(strings.Join(p.Extensions(), ",")), p.Title)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d patterns from %s\n", len(cat.Patterns), cat.Source)
	return err
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Initialize flags for the patterns command.
func init() {
	PatternsCmd.Flags().StringVar(&patternsOptions.Catalog, "catalog", "", "Path or http(s) URL of the pattern catalog. Defaults to the built-in catalog.")
	PatternsCmd.Flags().BoolVar(&patternsOptions.JSON, "json", false, "Print the catalog as JSON.")
	PatternsCmd.Flags().BoolP("help", "h", false, "Show help for the patterns command.")
}
