package discovery

import (
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-hclog"
)

// ExcludedDirs are directory names whose contents are never visited:
// build outputs, dependency caches, version control and framework-generated folders.
// Any other directory starting with a dot is pruned as well.
var ExcludedDirs = map[string]bool{
	"node_modules":     true,
	"bower_components": true,
	"jspm_packages":    true,
	"vendor":           true,
	"dist":             true,
	"build":            true,
	"out":              true,
	"coverage":         true,
	"storybook-static": true,
	"__pycache__":      true,
	".next":            true,
	".nuxt":            true,
	".output":          true,
	".svelte-kit":      true,
	".angular":         true,
	".turbo":           true,
	".vercel":          true,
	".cache":           true,
	".parcel-cache":    true,
	".git":             true,
	".hg":              true,
	".svn":             true,
}

var minifiedAsset = regexp.MustCompile(`\.min\.[a-z0-9]+$`)

// Options tunes file discovery.
type Options struct {
	Exclude     []string // doublestar globs matched against the slash path relative to Base
	Base        string   // directory the exclusions are relative to; the walked root when empty
	MaxFileSize int64    // files above this size are skipped; zero disables the limit
	Logger      hclog.Logger
}

// Discover walks root depth-first and returns absolute paths of files whose extension is in exts.
// Unreadable directories and files are skipped silently.
func Discover(root string, exts map[string]struct{}, opts Options) []string {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	var found []string
	if len(exts) == 0 {
		return found
	}

	root, err := filepath.Abs(root)
	if err != nil {
		logger.Debug("unable to resolve scan root", "root", root, "error", err)
		return found
	}

	base := root
	if opts.Base != "" {
		if abs, err := filepath.Abs(opts.Base); err == nil {
			base = abs
		}
	}

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Trace("skipping unreadable entry", "path", path, "error", err)
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && (IsExcludedDir(d.Name()) || isUserExcluded(base, path, opts.Exclude)) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || !IsCandidate(d.Name(), exts) || isUserExcluded(base, path, opts.Exclude) {
			return nil
		}

		if opts.MaxFileSize > 0 {
			info, err := d.Info()
			if err != nil {
				return nil
			}
			if info.Size() > opts.MaxFileSize {
				logger.Debug("skipping large file", "path", path, "size", info.Size())
				return nil
			}
		}

		found = append(found, path)
		return nil
	})

	return found
}

// IsExcludedDir reports whether a directory with this name is pruned from the walk.
func IsExcludedDir(name string) bool {
	return ExcludedDirs[name] || strings.HasPrefix(name, ".")
}

// IsCandidate reports whether a file name has one of the requested extensions and is not a minified asset.
func IsCandidate(name string, exts map[string]struct{}) bool {
	lower := strings.ToLower(name)
	if minifiedAsset.MatchString(lower) {
		return false
	}
	_, ok := exts[filepath.Ext(lower)]
	return ok
}

func isUserExcluded(base, path string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
