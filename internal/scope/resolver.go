package scope

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/a11yscan/pkg/shared/files"
)

// globMeta holds the characters that end the literal prefix of a glob.
const globMeta = "*?[{"

// Resolver computes the directories to walk for a project and framework.
type Resolver struct {
	boundaries Boundaries
	logger     hclog.Logger
}

// NewResolver creates a Resolver over the given boundaries.
func NewResolver(boundaries Boundaries, logger hclog.Logger) *Resolver {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Resolver{boundaries: boundaries, logger: logger}
}

// Resolve returns the minimal set of non-overlapping absolute directories to scan.
// Without a framework, or for a framework without boundaries, the scope is the project root.
// Boundary globs that do not resolve to an existing directory inside the project are dropped.
func (r *Resolver) Resolve(projectDir, framework string) ([]string, error) {
	root, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, err
	}
	root = filepath.Clean(root)

	if framework == "" {
		return []string{root}, nil
	}

	boundary, ok := r.boundaries.Lookup(framework)
	if !ok {
		r.logger.Debug("no source boundaries for framework, scanning the project root", "framework", framework)
		return []string{root}, nil
	}

	var dirs []string
	for _, glob := range boundary.Globs() {
		prefix := LiteralPrefix(glob)
		dir, err := files.EnsureWithinRoot(root, filepath.Join(root, filepath.FromSlash(prefix)))
		if err != nil {
			r.logger.Debug("boundary escapes the project root, skipping", "glob", glob, "error", err)
			continue
		}
		if !files.IsDir(dir) {
			r.logger.Debug("boundary does not resolve to a directory, skipping", "glob", glob, "path", dir)
			continue
		}
		dirs = append(dirs, dir)
	}

	dirs = Collapse(dirs)
	if len(dirs) == 0 {
		r.logger.Debug("no boundary directory exists, scanning the project root", "framework", framework)
		return []string{root}, nil
	}
	return dirs, nil
}

// LiteralPrefix returns the part of glob before its first wildcard or brace, without trailing separators.
func LiteralPrefix(glob string) string {
	prefix := glob
	if i := strings.IndexAny(glob, globMeta); i >= 0 {
		prefix = glob[:i]
	}
	return strings.TrimRight(prefix, `/\`)
}

// Collapse removes duplicates and every directory nested under another one of the set.
// The result is sorted.
func Collapse(dirs []string) []string {
	unique := make([]string, 0, len(dirs))
	seen := make(map[string]bool, len(dirs))
	for _, dir := range dirs {
		dir = filepath.Clean(dir)
		if !seen[dir] {
			seen[dir] = true
			unique = append(unique, dir)
		}
	}

	// shorter paths first, so ancestors are kept before their descendants are checked
	sort.Slice(unique, func(i, j int) bool {
		if len(unique[i]) != len(unique[j]) {
			return len(unique[i]) < len(unique[j])
		}
		return unique[i] < unique[j]
	})

	var collapsed []string
	for _, dir := range unique {
		nested := false
		for _, kept := range collapsed {
			if files.IsWithin(dir, kept) {
				nested = true
				break
			}
		}
		if !nested {
			collapsed = append(collapsed, dir)
		}
	}

	sort.Strings(collapsed)
	return collapsed
}
