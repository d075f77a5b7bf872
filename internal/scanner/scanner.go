package scanner

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/a11yscan/internal/catalog"
	"github.com/scan-io-git/a11yscan/internal/discovery"
	"github.com/scan-io-git/a11yscan/internal/findings"
	"github.com/scan-io-git/a11yscan/internal/matcher"
	"github.com/scan-io-git/a11yscan/internal/scope"
	"github.com/scan-io-git/a11yscan/pkg/shared"
	"github.com/scan-io-git/a11yscan/pkg/shared/files"
)

// Config tunes a Scanner for its whole lifetime.
type Config struct {
	Exclude     []string // doublestar globs relative to the project root, skipped during discovery
	MaxFileSize int64    // files above this size are skipped; zero disables the limit
	Jobs        int      // number of patterns scanned concurrently
}

// Options describes a single scan run.
type Options struct {
	ProjectDir string // project root; finding paths are relative to it
	Framework  string // optional framework name used to narrow the scope
	PatternID  string // optional single pattern to run; empty runs the whole catalog
}

// Scanner runs catalog patterns over a project and aggregates the findings.
type Scanner struct {
	catalog  *catalog.Catalog
	resolver *scope.Resolver
	matcher  *matcher.Matcher
	config   Config
	logger   hclog.Logger
	now      func() time.Time
}

// New creates a Scanner over an already loaded catalog and boundaries set.
func New(c *catalog.Catalog, boundaries scope.Boundaries, cfg Config, logger hclog.Logger) *Scanner {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if c == nil {
		c = &catalog.Catalog{}
	}
	if cfg.Jobs < 1 {
		cfg.Jobs = 1
	}
	return &Scanner{
		catalog:  c,
		resolver: scope.NewResolver(boundaries, logger.Named("scope")),
		matcher:  matcher.New(logger.Named("matcher")),
		config:   cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Patterns returns the patterns a run with patternID would execute.
func (s *Scanner) Patterns(patternID string) []*catalog.Pattern {
	return s.catalog.Select(patternID)
}

// Scope resolves the directories a run over projectDir with framework would walk.
func (s *Scanner) Scope(projectDir, framework string) ([]string, error) {
	return s.resolver.Resolve(projectDir, framework)
}

// Run executes one complete scan pass. Findings are ordered by catalog order, then by scope
// directory, then by discovery order and line, independent of the number of jobs.
func (s *Scanner) Run(opts Options) (*findings.Report, error) {
	projectDir, err := files.ExpandPath(opts.ProjectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to expand project directory: %w", err)
	}
	projectDir, err = filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project directory: %w", err)
	}
	if err := files.ValidateDir(projectDir); err != nil {
		return nil, fmt.Errorf("invalid project directory: %w", err)
	}

	dirs, err := s.resolver.Resolve(projectDir, opts.Framework)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve scan scope: %w", err)
	}

	patterns := s.catalog.Select(opts.PatternID)
	s.logger.Info("scan starting", "project", projectDir, "patterns", len(patterns), "directories", len(dirs), "goroutines", s.config.Jobs)

	perPattern := make([][]findings.Finding, len(patterns))
	shared.ForEveryWithBoundedGoroutines(s.config.Jobs, patterns, func(i int, p *catalog.Pattern) {
		perPattern[i] = s.scanPattern(p, projectDir, dirs)
		s.logger.Debug("pattern finished", "pattern", p.ID, "findings", len(perPattern[i]))
	})

	all := make([]findings.Finding, 0)
	for _, fs := range perPattern {
		all = append(all, fs...)
	}

	report := &findings.Report{
		GeneratedAt: s.now().UTC().Truncate(time.Second),
		ProjectDir:  projectDir,
		Framework:   opts.Framework,
		Scope:       relativeScope(projectDir, dirs),
		PatternsRun: len(patterns),
		Findings:    all,
		Summary:     findings.Summarize(all),
	}

	s.logger.Info("scan finished", "total", report.Summary.Total, "confirmed", report.Summary.Confirmed, "potential", report.Summary.Potential)
	return report, nil
}

// scanPattern runs one pattern over every scope directory. Failures stay inside the pattern.
func (s *Scanner) scanPattern(p *catalog.Pattern, projectDir string, dirs []string) []findings.Finding {
	var result []findings.Finding
	exts := p.ExtensionSet()
	if len(exts) == 0 {
		s.logger.Debug("pattern has no file extensions, nothing to scan", "pattern", p.ID)
		return result
	}

	for _, dir := range dirs {
		paths := discovery.Discover(dir, exts, discovery.Options{
			Exclude:     s.config.Exclude,
			Base:        projectDir,
			MaxFileSize: s.config.MaxFileSize,
			Logger:      s.logger.Named("discovery"),
		})

		for _, path := range paths {
			matches, err := s.matcher.MatchFile(p, path)
			if err != nil {
				s.logger.Debug("skipping unreadable file", "pattern", p.ID, "path", path, "error", err)
				continue
			}
			if len(matches) == 0 {
				continue
			}

			rel, err := filepath.Rel(projectDir, path)
			if err != nil {
				rel = path
			}
			rel = filepath.ToSlash(rel)

			for _, m := range matches {
				result = append(result, newFinding(p, rel, m))
			}
		}
	}
	return result
}

func newFinding(p *catalog.Pattern, relFile string, m matcher.Match) findings.Finding {
	return findings.Finding{
		ID:             findings.FindingID(p.ID, relFile, m.Line),
		PatternID:      p.ID,
		Title:          p.Title,
		Severity:       p.Severity,
		WCAG:           p.WCAG,
		WCAGCriterion:  p.WCAGCriterion,
		WCAGLevel:      p.WCAGLevel,
		Type:           p.Type,
		FixDescription: p.FixDescription,
		Status:         m.Status,
		File:           relFile,
		Line:           m.Line,
		Match:          m.Text,
		Context:        m.Context,
		Source:         findings.Source,
	}
}

// relativeScope renders scope directories relative to the project root, "." for the root itself.
func relativeScope(projectDir string, dirs []string) []string {
	rel := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		r, err := filepath.Rel(projectDir, dir)
		if err != nil {
			r = dir
		}
		rel = append(rel, filepath.ToSlash(r))
	}
	return rel
}
