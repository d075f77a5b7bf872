package git

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// findGitRepositoryPath walks up from sourceFolder until it finds a git repository.
func findGitRepositoryPath(sourceFolder string) (string, error) {
	if sourceFolder == "" {
		return "", fmt.Errorf("source folder is not set")
	}

	for {
		_, err := git.PlainOpen(sourceFolder)
		if err == nil {
			return filepath.Clean(sourceFolder), nil
		}

		parent := filepath.Dir(sourceFolder)
		if parent == sourceFolder {
			break
		}
		sourceFolder = parent
	}

	return "", fmt.Errorf("source folder is not a git repository")
}

// sanitizeRemote drops credentials and the .git suffix from a remote URL.
// scp-like ssh remotes are returned unchanged apart from the suffix.
func sanitizeRemote(remote string) string {
	remote = strings.TrimSuffix(remote, ".git")
	u, err := url.Parse(remote)
	if err != nil || u.Scheme == "" || u.User == nil {
		return remote
	}
	u.User = nil
	return u.String()
}
