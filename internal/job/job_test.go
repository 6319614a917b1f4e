package job

import (
	"errors"
	"testing"
)

func TestJob_Validate(t *testing.T) {
	valid := Job{
		Name:       "docs",
		FromRepo:   "https://example.com/upstream/docs.git",
		FromBranch: "main",
		ToRepo:     "https://example.com/mirror/docs.git",
		ToBranch:   "mirror",
	}

	tests := []struct {
		name    string
		mutate  func(*Job)
		wantErr error
	}{
		{
			name:    "valid job",
			mutate:  func(*Job) {},
			wantErr: nil,
		},
		{
			name:    "empty name",
			mutate:  func(j *Job) { j.Name = "" },
			wantErr: ErrEmptyName,
		},
		{
			name:    "empty from-repo",
			mutate:  func(j *Job) { j.FromRepo = "" },
			wantErr: ErrEmptyFromRepo,
		},
		{
			name:    "empty from-branch",
			mutate:  func(j *Job) { j.FromBranch = "" },
			wantErr: ErrEmptyFromBranch,
		},
		{
			name:    "empty to-repo",
			mutate:  func(j *Job) { j.ToRepo = "" },
			wantErr: ErrEmptyToRepo,
		},
		{
			name:    "empty to-branch",
			mutate:  func(j *Job) { j.ToBranch = "" },
			wantErr: ErrEmptyToBranch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := valid
			tt.mutate(&j)
			err := j.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
