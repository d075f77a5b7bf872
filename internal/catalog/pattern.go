package catalog

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dlclark/regexp2"
)

// DefaultContextWindow is the number of lines inspected on each side of a match
// when a pattern leaves context_window unset or zero.
const DefaultContextWindow = 5

var (
	allowedSeverities = map[string]bool{
		"critical": true,
		"serious":  true,
		"high":     true,
		"moderate": true,
		"medium":   true,
		"minor":    true,
		"low":      true,
	}
	allowedWCAGLevels = map[string]bool{"A": true, "AA": true, "AAA": true}
)

// Pattern is one source pattern rule of the catalog. Metadata fields are copied into findings verbatim.
type Pattern struct {
	ID                         string   `yaml:"id" json:"id"`
	Title                      string   `yaml:"title" json:"title"`
	Severity                   string   `yaml:"severity" json:"severity"`
	WCAG                       string   `yaml:"wcag" json:"wcag"`
	WCAGCriterion              string   `yaml:"wcag_criterion" json:"wcag_criterion"`
	WCAGLevel                  string   `yaml:"wcag_level" json:"wcag_level"`
	Type                       string   `yaml:"type" json:"type"`
	FixDescription             string   `yaml:"fix_description" json:"fix_description"`
	Globs                      []string `yaml:"globs" json:"globs"`
	Regex                      string   `yaml:"regex" json:"regex"`
	RequiresManualVerification bool     `yaml:"requires_manual_verification" json:"requires_manual_verification"`
	ContextRejectRegex         string   `yaml:"context_reject_regex" json:"context_reject_regex,omitempty"`
	ContextWindow              int      `yaml:"context_window" json:"context_window,omitempty"`

	re         *regexp2.Regexp
	rejectRe   *regexp2.Regexp
	extensions map[string]struct{}
}

// compile validates the pattern and prepares its regular expressions and extension set.
func (p *Pattern) compile() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(p.Regex) == "" {
		return fmt.Errorf("regex is required")
	}
	if p.Severity != "" && !allowedSeverities[strings.ToLower(p.Severity)] {
		return fmt.Errorf("unknown severity %q", p.Severity)
	}
	if p.WCAGLevel != "" && !allowedWCAGLevels[strings.ToUpper(p.WCAGLevel)] {
		return fmt.Errorf("unknown wcag_level %q, expected A, AA or AAA", p.WCAGLevel)
	}
	if p.ContextWindow < 0 {
		return fmt.Errorf("context_window cannot be negative: %d", p.ContextWindow)
	}
	for _, glob := range p.Globs {
		if !doublestar.ValidatePattern(glob) {
			return fmt.Errorf("glob %q is not valid", glob)
		}
	}

	re, err := regexp2.Compile(p.Regex, regexp2.IgnoreCase)
	if err != nil {
		return fmt.Errorf("invalid regex: %w", err)
	}
	p.re = re

	if p.ContextRejectRegex != "" {
		rejectRe, err := regexp2.Compile(p.ContextRejectRegex, regexp2.IgnoreCase)
		if err != nil {
			return fmt.Errorf("invalid context_reject_regex: %w", err)
		}
		p.rejectRe = rejectRe
	}

	p.extensions = ExtractExtensions(p.Globs)
	return nil
}

func (p *Pattern) setMatchTimeout(d time.Duration) {
	if d <= 0 {
		return
	}
	if p.re != nil {
		p.re.MatchTimeout = d
	}
	if p.rejectRe != nil {
		p.rejectRe.MatchTimeout = d
	}
}

// MatchString tests the pattern regex against a single line.
// regexp2 keeps no match position between calls, so every call starts from the beginning of s.
func (p *Pattern) MatchString(s string) (bool, error) {
	if p.re == nil {
		return false, fmt.Errorf("pattern %q is not compiled", p.ID)
	}
	return p.re.MatchString(s)
}

// HasContextReject reports whether the confirmation heuristic applies to the pattern.
func (p *Pattern) HasContextReject() bool {
	return p.RequiresManualVerification && p.rejectRe != nil
}

// MatchReject tests the context reject regex against a window of text.
func (p *Pattern) MatchReject(s string) (bool, error) {
	if p.rejectRe == nil {
		return false, nil
	}
	return p.rejectRe.MatchString(s)
}

// Window returns the context window in lines, falling back to DefaultContextWindow.
func (p *Pattern) Window() int {
	if p.ContextWindow == 0 {
		return DefaultContextWindow
	}
	return p.ContextWindow
}

// Extensions returns the sorted file extensions derived from the pattern globs.
func (p *Pattern) Extensions() []string {
	exts := make([]string, 0, len(p.extensions))
	for ext := range p.extensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// ExtensionSet returns the extension set used as the discovery filter.
func (p *Pattern) ExtensionSet() map[string]struct{} {
	return p.extensions
}
