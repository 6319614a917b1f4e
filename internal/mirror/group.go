package mirror

import (
	"sort"

	"github.com/mirrorhq/gitmirror/internal/job"
)

// Group is the set of jobs sharing one target repository. The whole group
// runs against a single clone of the target.
type Group struct {
	ToRepo string
	Jobs   []job.Job
}

// GroupByTarget buckets jobs by the exact target URL string, so each
// distinct target repository is cloned exactly once per run. Equality is
// textual: two spellings of the same repository (trailing slash, host
// alias) form separate groups and clone independently.
func GroupByTarget(jobs []job.Job) []Group {
	byTarget := make(map[string][]job.Job)
	for _, j := range jobs {
		byTarget[j.ToRepo] = append(byTarget[j.ToRepo], j)
	}

	groups := make([]Group, 0, len(byTarget))
	for toRepo, members := range byTarget {
		groups = append(groups, Group{ToRepo: toRepo, Jobs: members})
	}
	sort.Slice(groups, func(i, k int) bool { return groups[i].ToRepo < groups[k].ToRepo })
	return groups
}
