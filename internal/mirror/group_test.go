package mirror

import (
	"testing"

	"github.com/mirrorhq/gitmirror/internal/job"
)

func TestGroupByTarget(t *testing.T) {
	jobs := []job.Job{
		{Name: "a", ToRepo: "https://example.com/y.git"},
		{Name: "b", ToRepo: "https://example.com/y.git"},
		{Name: "c", ToRepo: "https://example.com/z.git"},
	}

	groups := GroupByTarget(jobs)
	if len(groups) != 2 {
		t.Fatalf("GroupByTarget() returned %d groups, want 2", len(groups))
	}

	if groups[0].ToRepo != "https://example.com/y.git" || len(groups[0].Jobs) != 2 {
		t.Errorf("group 0 = %s with %d jobs, want y.git with 2", groups[0].ToRepo, len(groups[0].Jobs))
	}
	if groups[0].Jobs[0].Name != "a" || groups[0].Jobs[1].Name != "b" {
		t.Errorf("group 0 job order = [%s, %s], want [a, b]", groups[0].Jobs[0].Name, groups[0].Jobs[1].Name)
	}
	if groups[1].ToRepo != "https://example.com/z.git" || len(groups[1].Jobs) != 1 {
		t.Errorf("group 1 = %s with %d jobs, want z.git with 1", groups[1].ToRepo, len(groups[1].Jobs))
	}
}

func TestGroupByTarget_ExactStringMatch(t *testing.T) {
	// Textually different URLs for the same repository group separately.
	jobs := []job.Job{
		{Name: "a", ToRepo: "https://example.com/y.git"},
		{Name: "b", ToRepo: "https://example.com/y.git/"},
	}

	if got := len(GroupByTarget(jobs)); got != 2 {
		t.Errorf("GroupByTarget() returned %d groups, want 2 distinct groups", got)
	}
}

func TestGroupByTarget_Empty(t *testing.T) {
	if got := len(GroupByTarget(nil)); got != 0 {
		t.Errorf("GroupByTarget(nil) returned %d groups, want 0", got)
	}
}
