package matcher

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/a11yscan/internal/catalog"
	"github.com/scan-io-git/a11yscan/internal/findings"
)

// ContextRadius is the number of lines rendered on each side of a match.
const ContextRadius = 3

// Match is a hit of a pattern on one line, before identity and metadata are attached.
type Match struct {
	Line    int             // 1-based line number
	Text    string          // matched line, trimmed
	Context string          // surrounding lines prefixed with their line numbers
	Status  findings.Status // confirmed, or potential when nearby context suggests it is handled
}

// Matcher applies catalog patterns to file contents line by line.
type Matcher struct {
	logger hclog.Logger
}

// New creates a Matcher.
func New(logger hclog.Logger) *Matcher {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Matcher{logger: logger}
}

// SplitLines splits file content on line feeds. A trailing carriage return is kept
// on each line so regexes see the raw text.
func SplitLines(content string) []string {
	return strings.Split(content, "\n")
}

// MatchFile reads path and matches p against every line.
func (m *Matcher) MatchFile(p *catalog.Pattern, path string) ([]Match, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	return m.MatchLines(p, SplitLines(string(data))), nil
}

// MatchLines tests p against each line independently.
//
// Each test starts from a fresh match state: the compiled pattern carries no position between
// MatchString calls, so reusing it across lines cannot skip hits. A regex that exceeds its
// timeout on a line counts as no match for that line.
func (m *Matcher) MatchLines(p *catalog.Pattern, lines []string) []Match {
	var matches []Match
	for i, line := range lines {
		ok, err := p.MatchString(line)
		if err != nil {
			m.logger.Debug("pattern evaluation failed, line skipped", "pattern", p.ID, "line", i+1, "error", err)
			continue
		}
		if !ok {
			continue
		}
		matches = append(matches, Match{
			Line:    i + 1,
			Text:    strings.TrimSpace(line),
			Context: RenderContext(lines, i, ContextRadius),
			Status:  m.Confirm(p, lines, i),
		})
	}
	return matches
}

// Confirm classifies the match at index. Patterns that need manual verification and define a
// context reject regex are downgraded to potential when the regex matches anywhere in the
// window of lines around the match. Every other match is confirmed.
func (m *Matcher) Confirm(p *catalog.Pattern, lines []string, index int) findings.Status {
	if !p.HasContextReject() {
		return findings.StatusConfirmed
	}

	start, end := window(len(lines), index, p.Window())
	rejected, err := p.MatchReject(strings.Join(lines[start:end+1], "\n"))
	if err != nil {
		m.logger.Debug("context reject evaluation failed, keeping the match confirmed", "pattern", p.ID, "line", index+1, "error", err)
		return findings.StatusConfirmed
	}
	if rejected {
		return findings.StatusPotential
	}
	return findings.StatusConfirmed
}

// RenderContext renders lines index-radius..index+radius, clamped to the file, one per row
// as "<line number>: <text>".
func RenderContext(lines []string, index, radius int) string {
	start, end := window(len(lines), index, radius)
	rows := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		rows = append(rows, fmt.Sprintf("%d: %s", i+1, strings.TrimRight(lines[i], "\r")))
	}
	return strings.Join(rows, "\n")
}

// window returns the inclusive bounds of radius lines around index within n lines.
func window(n, index, radius int) (int, int) {
	start := index - radius
	if start < 0 {
		start = 0
	}
	end := index + radius
	if end > n-1 {
		end = n - 1
	}
	return start, end
}
