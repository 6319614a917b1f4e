// Package job defines the mirror job model.
package job

import "errors"

// ErrEmptyName indicates a job with no name.
var ErrEmptyName = errors.New("job name is empty")

// ErrEmptyFromRepo indicates a job with no source repository URL.
var ErrEmptyFromRepo = errors.New("from-repo is empty")

// ErrEmptyFromBranch indicates a job with no source branch.
var ErrEmptyFromBranch = errors.New("from-branch is empty")

// ErrEmptyToRepo indicates a job with no target repository URL.
var ErrEmptyToRepo = errors.New("to-repo is empty")

// ErrEmptyToBranch indicates a job with no target branch.
var ErrEmptyToBranch = errors.New("to-branch is empty")

// Job describes one branch mirror task: make ToBranch on ToRepo point at the
// same commit as FromBranch on FromRepo. The name doubles as the remote name
// added to the target clone during sync, so it must be unique per run.
//
// Jobs are constructed once at configuration load and never mutated.
type Job struct {
	Name       string
	FromRepo   string
	FromBranch string
	ToRepo     string
	ToBranch   string
}

// Validate checks that all required fields are present.
func (j Job) Validate() error {
	if j.Name == "" {
		return ErrEmptyName
	}
	if j.FromRepo == "" {
		return ErrEmptyFromRepo
	}
	if j.FromBranch == "" {
		return ErrEmptyFromBranch
	}
	if j.ToRepo == "" {
		return ErrEmptyToRepo
	}
	if j.ToBranch == "" {
		return ErrEmptyToBranch
	}
	return nil
}
