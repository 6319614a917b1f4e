// Package config loads the mirror job table from a YAML document.
package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/mirrorhq/gitmirror/internal/job"
)

// DefaultPath is the config file read when no --config flag or environment
// override is given.
const DefaultPath = "mirror-config.yaml"

// EnvPath is the environment variable that overrides the config file path.
const EnvPath = "GITMIRROR_CONFIG"

// File is the top-level document structure: one table of named mirror
// entries.
type File struct {
	Mirror map[string]Entry `yaml:"mirror"`
}

// Entry is one named mirror job as written in the config file. The entry
// name becomes the job name.
type Entry struct {
	FromRepo   string `yaml:"from-repo"`
	FromBranch string `yaml:"from-branch"`
	ToRepo     string `yaml:"to-repo"`
	ToBranch   string `yaml:"to-branch"`
}

// ResolvePath returns the config file path to use, preferring the flag value,
// then the GITMIRROR_CONFIG environment variable, then DefaultPath.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvPath); env != "" {
		return env
	}
	return DefaultPath
}

// Load reads and validates the job table at the given path. Jobs are
// returned sorted by name so runs process them in a stable order. Any
// missing or empty field rejects the whole document.
func Load(path string) ([]job.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	jobs := make([]job.Job, 0, len(f.Mirror))
	for name, entry := range f.Mirror {
		j := job.Job{
			Name:       name,
			FromRepo:   entry.FromRepo,
			FromBranch: entry.FromBranch,
			ToRepo:     entry.ToRepo,
			ToBranch:   entry.ToBranch,
		}
		if err := j.Validate(); err != nil {
			return nil, fmt.Errorf("%s: job %q: %w", path, name, err)
		}
		jobs = append(jobs, j)
	}

	sort.Slice(jobs, func(i, k int) bool { return jobs[i].Name < jobs[k].Name })
	return jobs, nil
}
