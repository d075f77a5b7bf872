// Package ci provides helpers for discovering CI metadata.
package ci

import (
	"net/url"
	"os"
	"strings"

	"github.com/scan-io-git/a11yscan/internal/findings"
)

// Kind represents the type of CI.
type Kind int

const (
	// Unknown indicates the CI provider could not be identified.
	Unknown Kind = iota
	// GitHub identifies GitHub Actions environments.
	GitHub
	// GitLab identifies GitLab CI environments.
	GitLab
	// Bitbucket identifies Bitbucket Pipelines environments.
	Bitbucket
)

// LookupFunc fetches environment variables and defaults to os.Getenv.
type LookupFunc func(string) string

// Environment captures the repository state a CI job exposes through its variables.
type Environment struct {
	Kind          Kind
	Commit        string // Commit is the tip commit that triggered the job.
	Branch        string // Branch is the short branch or tag name.
	RepositoryURL string // RepositoryURL is the web URL of the repository.
}

// String returns the human-readable string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case GitHub:
		return "github"
	case GitLab:
		return "gitlab"
	case Bitbucket:
		return "bitbucket"
	default:
		return "unknown"
	}
}

// Detect reads the CI environment of the current process.
func Detect() Environment {
	return detectWithLookup(os.Getenv)
}

func detectWithLookup(lookup LookupFunc) Environment {
	if lookup == nil {
		lookup = os.Getenv
	}

	switch {
	case lookup("GITHUB_REPOSITORY") != "" || lookup("GITHUB_SHA") != "":
		return githubEnvironment(lookup)
	case strings.EqualFold(lookup("GITLAB_CI"), "true") || lookup("CI_PROJECT_PATH") != "":
		return gitlabEnvironment(lookup)
	case lookup("BITBUCKET_WORKSPACE") != "" || lookup("BITBUCKET_REPO_SLUG") != "":
		return bitbucketEnvironment(lookup)
	default:
		return Environment{Kind: Unknown}
	}
}

// See https://docs.github.com/en/actions/reference/workflows-and-actions/variables.
func githubEnvironment(lookup LookupFunc) Environment {
	env := Environment{
		Kind:   GitHub,
		Commit: lookup("GITHUB_SHA"),
		Branch: lookup("GITHUB_HEAD_REF"), // set on pull request events only
	}
	if env.Branch == "" {
		env.Branch = lookup("GITHUB_REF_NAME")
	}
	if server, repo := lookup("GITHUB_SERVER_URL"), lookup("GITHUB_REPOSITORY"); server != "" && repo != "" {
		env.RepositoryURL = strings.TrimSuffix(server, "/") + "/" + repo
	}
	return env
}

// See https://docs.gitlab.com/ci/variables/predefined_variables/.
func gitlabEnvironment(lookup LookupFunc) Environment {
	env := Environment{
		Kind:          GitLab,
		Commit:        lookup("CI_COMMIT_SHA"),
		RepositoryURL: lookup("CI_PROJECT_URL"),
	}
	switch {
	case lookup("CI_COMMIT_TAG") != "":
		env.Branch = lookup("CI_COMMIT_TAG")
	case lookup("CI_MERGE_REQUEST_SOURCE_BRANCH_NAME") != "":
		env.Branch = lookup("CI_MERGE_REQUEST_SOURCE_BRANCH_NAME")
	default:
		env.Branch = lookup("CI_COMMIT_REF_NAME")
	}
	return env
}

// See https://support.atlassian.com/bitbucket-cloud/docs/variables-and-secrets/.
func bitbucketEnvironment(lookup LookupFunc) Environment {
	env := Environment{
		Kind:   Bitbucket,
		Commit: lookup("BITBUCKET_COMMIT"),
		Branch: lookup("BITBUCKET_BRANCH"),
	}
	if env.Branch == "" {
		env.Branch = lookup("BITBUCKET_TAG")
	}
	if origin := lookup("BITBUCKET_GIT_HTTP_ORIGIN"); origin != "" {
		if u, err := url.Parse(origin); err == nil && u.Scheme != "" && u.Host != "" {
			env.RepositoryURL = origin
		}
	}
	return env
}

// Fill completes the empty fields of repo with the CI values. A nil repo is created when
// the environment carries anything; nil is returned when neither has data.
func (e Environment) Fill(repo *findings.Repository) *findings.Repository {
	if e.Kind == Unknown {
		return repo
	}
	if repo == nil {
		if e.Commit == "" && e.Branch == "" && e.RepositoryURL == "" {
			return nil
		}
		repo = &findings.Repository{}
	}
	if repo.Commit == "" {
		repo.Commit = e.Commit
	}
	if repo.Branch == "" {
		repo.Branch = e.Branch
	}
	if repo.Remote == "" {
		repo.Remote = e.RepositoryURL
	}
	return repo
}
