package findings

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// Source tags findings produced by the source pattern scan, as opposed to the browser based checker.
const Source = "source-pattern-scan"

// idLength is the number of hex characters kept from the identity digest.
const idLength = 6

// Status is the confidence tier of a finding.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusPotential Status = "potential"
)

// Finding is one match of one pattern on one line of one file.
type Finding struct {
	ID             string `json:"id"`
	PatternID      string `json:"pattern_id"`
	Title          string `json:"title"`
	Severity       string `json:"severity"`
	WCAG           string `json:"wcag"`
	WCAGCriterion  string `json:"wcag_criterion"`
	WCAGLevel      string `json:"wcag_level"`
	Type           string `json:"type"`
	FixDescription string `json:"fix_description"`
	Status         Status `json:"status"`
	File           string `json:"file"`
	Line           int    `json:"line"`
	Match          string `json:"match"`
	Context        string `json:"context"`
	Source         string `json:"source"`
}

// Summary holds the finding counts of one run.
type Summary struct {
	Total      int            `json:"total"`
	Confirmed  int            `json:"confirmed"`
	Potential  int            `json:"potential"`
	BySeverity map[string]int `json:"by_severity,omitempty"`
}

// Repository describes the version control state of the scanned project.
type Repository struct {
	Branch    string `json:"branch,omitempty"`
	Commit    string `json:"commit,omitempty"`
	Remote    string `json:"remote,omitempty"`
	Subfolder string `json:"subfolder,omitempty"`
}

// Report is the complete output document of one scan run.
type Report struct {
	GeneratedAt time.Time   `json:"generated_at"`
	ProjectDir  string      `json:"project_dir"`
	Framework   string      `json:"framework,omitempty"`
	Scope       []string    `json:"scope"`
	PatternsRun int         `json:"patterns_run"`
	Repository  *Repository `json:"repository,omitempty"`
	Findings    []Finding   `json:"findings"`
	Summary     Summary     `json:"summary"`
}

// FindingID derives the stable identity of a finding from the pattern, the file path
// relative to the project root and the 1-based line number.
func FindingID(patternID, relFile string, line int) string {
	sum := sha256.Sum256([]byte(strings.Join([]string{patternID, relFile, strconv.Itoa(line)}, ":")))
	return hex.EncodeToString(sum[:])[:idLength]
}

// Summarize counts findings by status and severity.
func Summarize(findings []Finding) Summary {
	s := Summary{Total: len(findings)}
	for _, f := range findings {
		switch f.Status {
		case StatusConfirmed:
			s.Confirmed++
		case StatusPotential:
			s.Potential++
		}
		if f.Severity != "" {
			if s.BySeverity == nil {
				s.BySeverity = make(map[string]int)
			}
			s.BySeverity[strings.ToLower(f.Severity)]++
		}
	}
	return s
}
