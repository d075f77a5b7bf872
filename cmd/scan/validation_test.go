package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateScanArgs(t *testing.T) {
	project := t.TempDir()
	file := filepath.Join(project, "index.html")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	tests := []struct {
		name    string
		opts    RunOptionsScan
		args    []string
		wantErr string
	}{
		{
			name: "valid options",
			opts: RunOptionsScan{Format: "JSON", Jobs: 1},
			args: []string{project},
		},
		{
			name:    "missing project directory argument",
			opts:    RunOptionsScan{Jobs: 1},
			wantErr: "exactly one project directory must be specified, got 0",
		},
		{
			name:    "too many arguments",
			opts:    RunOptionsScan{Jobs: 1},
			args:    []string{project, project},
			wantErr: "exactly one project directory must be specified, got 2",
		},
		{
			name:    "project directory does not exist",
			opts:    RunOptionsScan{Jobs: 1},
			args:    []string{filepath.Join(project, "missing")},
			wantErr: "invalid project directory",
		},
		{
			name:    "project directory is a file",
			opts:    RunOptionsScan{Jobs: 1},
			args:    []string{file},
			wantErr: "is not a directory",
		},
		{
			name:    "unsupported format",
			opts:    RunOptionsScan{Format: "html", Jobs: 1},
			args:    []string{project},
			wantErr: `unsupported format "html"`,
		},
		{
			name:    "jobs out of range",
			opts:    RunOptionsScan{Jobs: 0},
			args:    []string{project},
			wantErr: "the 'jobs' flag must be between 1 and 64",
		},
		{
			name:    "invalid exclude glob",
			opts:    RunOptionsScan{Jobs: 1, Exclude: []string{"src/[a"}},
			args:    []string{project},
			wantErr: `invalid exclude glob "src/[a"`,
		},
		{
			name:    "missing boundaries file",
			opts:    RunOptionsScan{Jobs: 1, Boundaries: filepath.Join(project, "nope.yml")},
			args:    []string{project},
			wantErr: "invalid boundaries file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			err := validateScanArgs(&opts, tt.args)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, project, opts.ProjectDir)
			assert.Equal(t, FormatJSON, opts.Format)
		})
	}
}
