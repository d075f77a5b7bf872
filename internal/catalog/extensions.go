package catalog

import (
	"regexp"
	"strings"
)

var trailingExtension = regexp.MustCompile(`\*\.(\w+)$`)

// ExtractExtensions derives the file extensions a glob list applies to.
// Only a trailing "*.<word>" token is used; directory segments and globs without
// a literal extension contribute nothing.
func ExtractExtensions(globs []string) map[string]struct{} {
	exts := make(map[string]struct{})
	for _, glob := range globs {
		m := trailingExtension.FindStringSubmatch(strings.TrimSpace(glob))
		if m == nil {
			continue
		}
		exts["."+strings.ToLower(m[1])] = struct{}{}
	}
	return exts
}
