package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	yaml "gopkg.in/yaml.v2"
)

//go:embed assets/patterns.yml
var defaultCatalog []byte

// Catalog is the ordered, validated list of patterns used for one scan run.
type Catalog struct {
	Source   string
	Patterns []*Pattern
}

type document struct {
	Patterns []*Pattern `yaml:"patterns"`
}

// Parse decodes and validates a catalog document. Both a bare sequence of patterns and
// a mapping with a single "patterns" sequence are accepted; JSON input is valid YAML.
func Parse(data []byte, source string) (*Catalog, error) {
	var top interface{}
	if err := yaml.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %q: %w", source, err)
	}

	var patterns []*Pattern
	if _, isMapping := top.(map[interface{}]interface{}); isMapping {
		var doc document
		if err := yaml.UnmarshalStrict(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse catalog %q: %w", source, err)
		}
		patterns = doc.Patterns
	} else if err := yaml.UnmarshalStrict(data, &patterns); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %q: %w", source, err)
	}

	seen := make(map[string]bool, len(patterns))
	for i, p := range patterns {
		if p == nil {
			return nil, fmt.Errorf("catalog %q: entry #%d is empty", source, i+1)
		}
		if err := p.compile(); err != nil {
			return nil, fmt.Errorf("catalog %q: pattern #%d %q: %w", source, i+1, p.ID, err)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("catalog %q: duplicate pattern id %q", source, p.ID)
		}
		seen[p.ID] = true
	}

	return &Catalog{Source: source, Patterns: patterns}, nil
}

// Default returns the catalog shipped with the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog, "builtin")
}

// Load reads a catalog from a local file, an http(s) URL or, when location is empty,
// the built-in catalog. Remote catalogs are fetched with the given resty client.
func Load(location string, client *resty.Client) (*Catalog, error) {
	switch {
	case location == "":
		return Default()
	case isRemote(location):
		return fetch(location, client)
	default:
		data, err := os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog: %w", err)
		}
		return Parse(data, location)
	}
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func fetch(url string, client *resty.Client) (*Catalog, error) {
	if client == nil {
		client = resty.New()
	}
	resp, err := client.R().
		SetHeader("Accept", "application/yaml, application/json, text/plain").
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog %q: %w", url, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch catalog %q: unexpected status %s", url, resp.Status())
	}
	return Parse(resp.Body(), url)
}

// SetMatchTimeout bounds every regex evaluation of the catalog. Non-positive values disable the limit.
func (c *Catalog) SetMatchTimeout(d time.Duration) {
	for _, p := range c.Patterns {
		p.setMatchTimeout(d)
	}
}

// Find returns the pattern with the given id.
func (c *Catalog) Find(id string) (*Pattern, bool) {
	for _, p := range c.Patterns {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Select returns the patterns to run: all of them, or only the one matching id when id is set.
// An unknown id yields an empty selection.
func (c *Catalog) Select(id string) []*Pattern {
	if id == "" {
		return c.Patterns
	}
	if p, ok := c.Find(id); ok {
		return []*Pattern{p}
	}
	return nil
}

// Extensions returns the union of extensions of the given patterns.
func Extensions(patterns []*Pattern) map[string]struct{} {
	exts := make(map[string]struct{})
	for _, p := range patterns {
		for ext := range p.ExtensionSet() {
			exts[ext] = struct{}{}
		}
	}
	return exts
}
