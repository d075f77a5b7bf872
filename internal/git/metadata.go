package git

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"

	"github.com/scan-io-git/a11yscan/internal/findings"
)

// CollectRepositoryMetadata collects the branch, commit, origin remote and the subfolder of
// sourceFolder inside the enclosing git repository. It fails when sourceFolder is not part of a repository.
func CollectRepositoryMetadata(sourceFolder string) (*findings.Repository, error) {
	if sourceFolder == "" {
		return nil, fmt.Errorf("source folder is not set")
	}

	if absSource, err := filepath.Abs(sourceFolder); err == nil {
		sourceFolder = absSource
	}

	repoRootFolder, err := findGitRepositoryPath(sourceFolder)
	if err != nil {
		return nil, err
	}

	repo, err := git.PlainOpen(repoRootFolder)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	md := &findings.Repository{}
	if rel, err := filepath.Rel(repoRootFolder, sourceFolder); err == nil && rel != "." {
		md.Subfolder = filepath.ToSlash(rel)
	}

	if head, err := repo.Head(); err == nil {
		if head.Name().IsBranch() {
			md.Branch = head.Name().Short()
		}
		md.Commit = head.Hash().String()
	}

	if remote, err := repo.Remote("origin"); err == nil {
		if cfg := remote.Config(); cfg != nil && len(cfg.URLs) > 0 {
			md.Remote = sanitizeRemote(cfg.URLs[0])
		}
	}

	return md, nil
}
