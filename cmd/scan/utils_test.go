package scan

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/a11yscan/internal/config"
	"github.com/scan-io-git/a11yscan/internal/findings"
	"github.com/scan-io-git/a11yscan/pkg/shared/errors"
)

func TestHasFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("framework", "", "")
	require.NoError(t, flags.Parse(nil))
	assert.False(t, HasFlags(flags))

	require.NoError(t, flags.Parse([]string{"--framework", "vue"}))
	assert.True(t, HasFlags(flags))
}

func TestApplyConfigDefaults(t *testing.T) {
	cfg := &config.Config{Scanner: config.Scanner{
		Catalog: "catalog.yml",
		Output:  "reports",
		Exclude: []string{"legacy/**"},
		Jobs:    4,
	}}

	opts := RunOptionsScan{Catalog: "cli.yml", Exclude: []string{"tmp/**"}, Jobs: 1}
	applyConfigDefaults(&opts, cfg, false)
	assert.Equal(t, "cli.yml", opts.Catalog)
	assert.Empty(t, opts.OutputPath)
	assert.Equal(t, []string{"legacy/**", "tmp/**"}, opts.Exclude)
	assert.Equal(t, 4, opts.Jobs)

	opts = RunOptionsScan{Jobs: 2}
	applyConfigDefaults(&opts, cfg, true)
	assert.Equal(t, 2, opts.Jobs)
	assert.Equal(t, "catalog.yml", opts.Catalog)

	opts = RunOptionsScan{Jobs: 2}
	applyConfigDefaults(&opts, nil, false)
	assert.Equal(t, RunOptionsScan{Jobs: 2}, opts)
}

func TestPrepareOutputFile(t *testing.T) {
	project := t.TempDir()

	got, err := prepareOutputFile("", project, FormatJSON, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(project, "audit", "a11y-source-findings.json"), got)
	assert.DirExists(t, filepath.Join(project, "audit"))

	out := t.TempDir()
	got, err = prepareOutputFile(out, project, FormatSARIF, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "a11y-source-findings.sarif"), got)

	got, err = prepareOutputFile(filepath.Join(out, "nested", "result.json"), project, FormatJSON, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "nested", "result.json"), got)
	assert.DirExists(t, filepath.Join(out, "nested"))
}

func TestPrepareOutputFileFromConfig(t *testing.T) {
	project := t.TempDir()

	cfg := &config.Config{Scanner: config.Scanner{Output: "reports"}}
	got, err := prepareOutputFile("", project, FormatJSON, cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(project, "reports", "a11y-source-findings.json"), got)

	abs := filepath.Join(t.TempDir(), "ci", "a11y.json")
	cfg = &config.Config{Scanner: config.Scanner{Output: abs}}
	got, err = prepareOutputFile("", project, FormatJSON, cfg)
	require.NoError(t, err)
	assert.Equal(t, abs, got)

	explicit := t.TempDir()
	got, err = prepareOutputFile(explicit, project, FormatJSON, cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(explicit, "a11y-source-findings.json"), got)
}

func TestWriteReport(t *testing.T) {
	report := &findings.Report{ProjectDir: "/p", Scope: []string{"."}, Findings: []findings.Finding{}}
	out := filepath.Join(t.TempDir(), "report.json")

	require.NoError(t, writeReport(out, FormatJSON, report, "dev"))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "}\n"))
	assert.Contains(t, string(data), `"findings": []`)

	sarifOut := filepath.Join(t.TempDir(), "report.sarif")
	require.NoError(t, writeReport(sarifOut, FormatSARIF, report, "dev"))
	assert.FileExists(t, sarifOut)

	assert.Error(t, writeReport(out, "xml", report, "dev"))
}

func resetScanOptions(t *testing.T, opts RunOptionsScan) {
	t.Helper()
	previous := scanOptions
	scanOptions = opts
	t.Cleanup(func() { scanOptions = previous })
}

func TestRunScanCommand(t *testing.T) {
	project := t.TempDir()
	lines := make([]string, 12)
	lines[9] = `<img src="hero.png">`
	require.NoError(t, os.WriteFile(filepath.Join(project, "index.html"), []byte(strings.Join(lines, "\n")), 0644))

	catalogFile := filepath.Join(t.TempDir(), "catalog.yml")
	require.NoError(t, os.WriteFile(catalogFile, []byte(`- {id: IMG-ALT, severity: high, globs: ["**/*.html"], regex: "<img(?!.*alt=)"}`), 0644))

	out := filepath.Join(t.TempDir(), "findings.json")
	resetScanOptions(t, RunOptionsScan{Catalog: catalogFile, OutputPath: out, Format: FormatJSON, Jobs: 1})

	require.NoError(t, runScanCommand(ScanCmd, []string{project}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var report findings.Report
	require.NoError(t, json.Unmarshal(data, &report))
	require.Len(t, report.Findings, 1)
	assert.Equal(t, 10, report.Findings[0].Line)
	assert.Equal(t, findings.FindingID("IMG-ALT", "index.html", 10), report.Findings[0].ID)
	assert.Equal(t, 1, report.PatternsRun)
	assert.Equal(t, 1, report.Summary.Confirmed)
}

func TestRunScanCommandEarlyExits(t *testing.T) {
	project := t.TempDir()
	out := filepath.Join(t.TempDir(), "findings.json")

	emptyCatalog := filepath.Join(t.TempDir(), "empty.yml")
	require.NoError(t, os.WriteFile(emptyCatalog, []byte("patterns: []\n"), 0644))
	resetScanOptions(t, RunOptionsScan{Catalog: emptyCatalog, OutputPath: out, Jobs: 1})
	require.NoError(t, runScanCommand(ScanCmd, []string{project}))
	assert.NoFileExists(t, out)

	resetScanOptions(t, RunOptionsScan{PatternID: "DOES-NOT-EXIST", OutputPath: out, Jobs: 1})
	require.NoError(t, runScanCommand(ScanCmd, []string{project}))
	assert.NoFileExists(t, out)
}

func TestRunScanCommandConfigurationErrors(t *testing.T) {
	project := t.TempDir()
	out := filepath.Join(t.TempDir(), "findings.json")

	resetScanOptions(t, RunOptionsScan{OutputPath: out, Jobs: 1})
	err := runScanCommand(ScanCmd, []string{filepath.Join(project, "missing")})
	require.Error(t, err)
	assert.Equal(t, errors.ExitCodeConfig, errors.ExitCode(err))

	badCatalog := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(badCatalog, []byte("- {id: X, regex: \"(\"}\n"), 0644))
	resetScanOptions(t, RunOptionsScan{Catalog: badCatalog, OutputPath: out, Jobs: 1})
	err = runScanCommand(ScanCmd, []string{project})
	require.Error(t, err)
	assert.Equal(t, errors.ExitCodeConfig, errors.ExitCode(err))
	assert.NoFileExists(t, out)
}
