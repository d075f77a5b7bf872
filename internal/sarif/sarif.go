package sarif

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/a11yscan/internal/findings"
	"github.com/scan-io-git/a11yscan/pkg/shared/files"
)

const (
	toolName           = "a11yscan"
	toolInformationURI = "https://github.com/scan-io-git/a11yscan"
	fingerprintKey     = "a11yscanFindingId/v1"
)

// ToSarifLevel maps a catalog severity onto a SARIF result level.
func ToSarifLevel(severity string) string {
	switch strings.ToLower(severity) {
	case "critical", "serious", "high":
		return "error"
	case "moderate", "medium":
		return "warning"
	case "minor", "low":
		return "note"
	default:
		return "none"
	}
}

// FromReport converts a scan report into a SARIF 2.1.0 log with a single run.
// Rules are registered in order of first appearance, results keep report order.
func FromReport(report *findings.Report, toolVersion string) (*sarif.Report, error) {
	sarifReport, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(toolName, toolInformationURI)
	if toolVersion != "" {
		run.Tool.Driver.Version = &toolVersion
	}

	guid := uuid.NewString()
	run.AutomationDetails = &sarif.RunAutomationDetails{GUID: &guid}

	if repo := report.Repository; repo != nil && repo.Remote != "" {
		vcs := &sarif.VersionControlDetails{RepositoryURI: &repo.Remote}
		if repo.Commit != "" {
			vcs.RevisionID = &repo.Commit
		}
		if repo.Branch != "" {
			vcs.Branch = &repo.Branch
		}
		run.VersionControlProvenance = append(run.VersionControlProvenance, vcs)
	}

	for _, f := range report.Findings {
		addRule(run, f)
		run.AddResult(newResult(f))
	}

	sarifReport.AddRun(run)
	return sarifReport, nil
}

// WriteReport converts report and atomically writes the SARIF log to outputFile.
func WriteReport(outputFile string, report *findings.Report, toolVersion string) error {
	sarifReport, err := FromReport(report, toolVersion)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := sarifReport.PrettyWrite(&buf); err != nil {
		return fmt.Errorf("failed to encode SARIF report: %w", err)
	}
	return files.WriteFileAtomic(outputFile, buf.Bytes())
}

func addRule(run *sarif.Run, f findings.Finding) {
	rule := run.AddRule(f.PatternID).
		WithShortDescription(sarif.NewMultiformatMessageString(f.Title)).
		WithDescription(f.Title).
		WithDefaultConfiguration(&sarif.ReportingConfiguration{
			Level: ToSarifLevel(f.Severity),
		})
	if f.FixDescription != "" {
		rule.Help = sarif.NewMultiformatMessageString(f.FixDescription)
	}
	rule.Properties = sarif.Properties{
		"severity":       f.Severity,
		"wcag":           f.WCAG,
		"wcag_criterion": f.WCAGCriterion,
		"wcag_level":     f.WCAGLevel,
		"type":           f.Type,
	}
}

func newResult(f findings.Finding) *sarif.Result {
	snippet := f.Match
	region := sarif.NewRegion().WithStartLine(f.Line)
	region.Snippet = &sarif.ArtifactContent{Text: &snippet}

	location := sarif.NewLocation().WithPhysicalLocation(
		sarif.NewPhysicalLocation().
			WithArtifactLocation(sarif.NewArtifactLocation().WithUri(f.File)).
			WithRegion(region),
	)

	message := f.Title
	if message == "" {
		message = f.PatternID
	}

	result := sarif.NewRuleResult(f.PatternID).
		WithMessage(sarif.NewTextMessage(message)).
		WithLevel(ToSarifLevel(f.Severity)).
		WithLocations([]*sarif.Location{location})
	result.PartialFingerprints = map[string]interface{}{fingerprintKey: f.ID}
	result.Properties = sarif.Properties{
		"id":      f.ID,
		"status":  string(f.Status),
		"context": f.Context,
		"source":  f.Source,
	}
	return result
}
