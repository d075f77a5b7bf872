package ci

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scan-io-git/a11yscan/internal/findings"
)

func lookupFrom(vars map[string]string) LookupFunc {
	return func(key string) string {
		return vars[key]
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
		want Environment
	}{
		{
			name: "github pull request",
			vars: map[string]string{
				"GITHUB_REPOSITORY": "acme/shop",
				"GITHUB_SHA":        "abc",
				"GITHUB_SERVER_URL": "https://github.com",
				"GITHUB_REF_NAME":   "42/merge",
				"GITHUB_HEAD_REF":   "feature/alt-text",
			},
			want: Environment{Kind: GitHub, Commit: "abc", Branch: "feature/alt-text", RepositoryURL: "https://github.com/acme/shop"},
		},
		{
			name: "github push",
			vars: map[string]string{"GITHUB_SHA": "def", "GITHUB_REF_NAME": "main"},
			want: Environment{Kind: GitHub, Commit: "def", Branch: "main"},
		},
		{
			name: "gitlab merge request",
			vars: map[string]string{
				"GITLAB_CI":                           "true",
				"CI_COMMIT_SHA":                       "123",
				"CI_PROJECT_URL":                      "https://gitlab.com/group/app",
				"CI_COMMIT_REF_NAME":                  "ignored",
				"CI_MERGE_REQUEST_SOURCE_BRANCH_NAME": "fix/contrast",
			},
			want: Environment{Kind: GitLab, Commit: "123", Branch: "fix/contrast", RepositoryURL: "https://gitlab.com/group/app"},
		},
		{
			name: "gitlab tag",
			vars: map[string]string{"CI_PROJECT_PATH": "group/app", "CI_COMMIT_TAG": "v1.0.0", "CI_COMMIT_REF_NAME": "v1.0.0"},
			want: Environment{Kind: GitLab, Branch: "v1.0.0"},
		},
		{
			name: "bitbucket",
			vars: map[string]string{
				"BITBUCKET_WORKSPACE":       "team",
				"BITBUCKET_COMMIT":          "456",
				"BITBUCKET_TAG":             "release-2",
				"BITBUCKET_GIT_HTTP_ORIGIN": "http://bitbucket.org/team/site",
			},
			want: Environment{Kind: Bitbucket, Commit: "456", Branch: "release-2", RepositoryURL: "http://bitbucket.org/team/site"},
		},
		{
			name: "not a ci environment",
			vars: map[string]string{"CI": "true"},
			want: Environment{Kind: Unknown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectWithLookup(lookupFrom(tt.vars)))
		})
	}
}

func TestFill(t *testing.T) {
	env := Environment{Kind: GitHub, Commit: "abc", Branch: "main", RepositoryURL: "https://github.com/acme/shop"}

	repo := env.Fill(&findings.Repository{Commit: "local", Subfolder: "web"})
	assert.Equal(t, &findings.Repository{Commit: "local", Branch: "main", Remote: "https://github.com/acme/shop", Subfolder: "web"}, repo)

	assert.Equal(t, &findings.Repository{Commit: "abc", Branch: "main", Remote: "https://github.com/acme/shop"}, env.Fill(nil))
	assert.Nil(t, Environment{Kind: GitLab}.Fill(nil))
	assert.Nil(t, Environment{Kind: Unknown, Commit: "x"}.Fill(nil))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "github", GitHub.String())
	assert.Equal(t, "gitlab", GitLab.String())
	assert.Equal(t, "bitbucket", Bitbucket.String())
	assert.Equal(t, "unknown", Unknown.String())
}
