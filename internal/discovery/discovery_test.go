package discovery

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func relative(t *testing.T, root string, paths []string) []string {
	t.Helper()
	rel := make([]string, 0, len(paths))
	for _, p := range paths {
		assert.True(t, filepath.IsAbs(p), "path %q is not absolute", p)
		r, err := filepath.Rel(root, p)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	sort.Strings(rel)
	return rel
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"index.html":                     "",
		"src/App.TSX":                    "",
		"src/app.css":                    "",
		"src/vendor.min.css":             "",
		"src/components/Button.tsx":      "",
		"node_modules/lib/index.tsx":     "",
		"dist/bundle.html":               "",
		".next/server/page.tsx":          "",
		".hidden/secret.tsx":             "",
		"src/.cache/tmp.tsx":             "",
		"src/stories/Button.stories.tsx": "",
		"src/components/Button.test.tsx": "",
		"docs/readme.md":                 "",
	})

	exts := map[string]struct{}{".tsx": {}, ".html": {}}

	got := relative(t, root, Discover(root, exts, Options{}))
	assert.Equal(t, []string{
		"index.html",
		"src/App.TSX",
		"src/components/Button.test.tsx",
		"src/components/Button.tsx",
		"src/stories/Button.stories.tsx",
	}, got)

	got = relative(t, root, Discover(root, exts, Options{Exclude: []string{"**/*.test.tsx", "src/stories"}}))
	assert.Equal(t, []string{"index.html", "src/App.TSX", "src/components/Button.tsx"}, got)
}

func TestDiscoverMaxFileSize(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"small.css": "a{}",
		"large.css": strings.Repeat("a{}\n", 100),
	})

	got := relative(t, root, Discover(root, map[string]struct{}{".css": {}}, Options{MaxFileSize: 10}))
	assert.Equal(t, []string{"small.css"}, got)
}

func TestDiscoverEmptyExtensions(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.css": ""})
	assert.Empty(t, Discover(root, nil, Options{}))
}

func TestDiscoverMissingRoot(t *testing.T) {
	assert.Empty(t, Discover(filepath.Join(t.TempDir(), "gone"), map[string]struct{}{".css": {}}, Options{}))
}

func TestDiscoverUnreadableDirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"ok/a.css":     "",
		"locked/b.css": "",
	})
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })

	got := relative(t, root, Discover(root, map[string]struct{}{".css": {}}, Options{}))
	assert.Equal(t, []string{"ok/a.css"}, got)
}

func TestIsCandidate(t *testing.T) {
	exts := map[string]struct{}{".js": {}, ".css": {}}
	assert.True(t, IsCandidate("app.js", exts))
	assert.True(t, IsCandidate("APP.CSS", exts))
	assert.False(t, IsCandidate("app.min.js", exts))
	assert.False(t, IsCandidate("theme.MIN.css", exts))
	assert.False(t, IsCandidate("app.ts", exts))
	assert.True(t, IsCandidate("admin.js", exts))
}

func TestIsExcludedDir(t *testing.T) {
	assert.True(t, IsExcludedDir("node_modules"))
	assert.True(t, IsExcludedDir(".github"))
	assert.True(t, IsExcludedDir("dist"))
	assert.False(t, IsExcludedDir("src"))
	assert.False(t, IsExcludedDir("components"))
}

func TestDiscoverExcludeRelativeToBase(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/legacy/Old.tsx": "",
		"src/New.tsx":        "",
	})
	exts := map[string]struct{}{".tsx": {}}
	src := filepath.Join(root, "src")

	got := relative(t, root, Discover(src, exts, Options{Exclude: []string{"src/legacy/**"}, Base: root}))
	assert.Equal(t, []string{"src/New.tsx"}, got)

	got = relative(t, root, Discover(src, exts, Options{Exclude: []string{"src/legacy/**"}}))
	assert.Equal(t, []string{"src/New.tsx", "src/legacy/Old.tsx"}, got)
}
