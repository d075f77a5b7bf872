package scope

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v2"
)

//go:embed assets/boundaries.yml
var defaultBoundaries []byte

// SourceBoundary describes where a framework keeps its component and style sources.
// Both fields are comma separated glob groups relative to the project root.
type SourceBoundary struct {
	Components string `yaml:"components" json:"components"`
	Styles     string `yaml:"styles" json:"styles"`
}

// Globs returns the trimmed, non-empty globs of both groups in declaration order.
func (b SourceBoundary) Globs() []string {
	var globs []string
	for _, group := range []string{b.Components, b.Styles} {
		for _, glob := range strings.Split(group, ",") {
			if glob = strings.TrimSpace(glob); glob != "" {
				globs = append(globs, glob)
			}
		}
	}
	return globs
}

// Boundaries maps a framework identifier to its source boundary.
type Boundaries map[string]SourceBoundary

// ParseBoundaries decodes a boundaries document. Framework keys are normalized to lower case.
func ParseBoundaries(data []byte, source string) (Boundaries, error) {
	raw := make(map[string]SourceBoundary)
	if err := yaml.UnmarshalStrict(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse source boundaries %q: %w", source, err)
	}

	b := make(Boundaries, len(raw))
	for framework, boundary := range raw {
		b[normalizeFramework(framework)] = boundary
	}
	return b, nil
}

// DefaultBoundaries returns the boundaries shipped with the binary.
func DefaultBoundaries() (Boundaries, error) {
	return ParseBoundaries(defaultBoundaries, "builtin")
}

// LoadBoundaries reads boundaries from path, or the built-in ones when path is empty.
func LoadBoundaries(path string) (Boundaries, error) {
	if path == "" {
		return DefaultBoundaries()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source boundaries: %w", err)
	}
	return ParseBoundaries(data, path)
}

// Lookup returns the boundary configured for framework. Matching is case-insensitive.
func (b Boundaries) Lookup(framework string) (SourceBoundary, bool) {
	boundary, ok := b[normalizeFramework(framework)]
	if !ok || len(boundary.Globs()) == 0 {
		return SourceBoundary{}, false
	}
	return boundary, true
}

func normalizeFramework(framework string) string {
	return strings.ToLower(strings.TrimSpace(framework))
}
