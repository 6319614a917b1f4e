package mirror

import (
	"context"
	"testing"

	"github.com/mirrorhq/gitmirror/internal/job"
)

// fakeHeads maps URL -> heads; a missing URL means resolution failure.
type fakeHeads map[string]map[string]string

func (f fakeHeads) Resolve(_ context.Context, url string) (map[string]string, bool) {
	heads, ok := f[url]
	return heads, ok
}

func testJob() job.Job {
	return job.Job{
		Name:       "site",
		FromRepo:   "https://example.com/upstream/site.git",
		FromBranch: "main",
		ToRepo:     "https://example.com/mirror/site.git",
		ToBranch:   "mirror",
	}
}

func TestEvaluator_Evaluate(t *testing.T) {
	j := testJob()

	tests := []struct {
		name  string
		heads fakeHeads
		want  Verdict
	}{
		{
			name: "heads differ",
			heads: fakeHeads{
				j.FromRepo: {"main": "c1"},
				j.ToRepo:   {"mirror": "c0"},
			},
			want: VerdictSync,
		},
		{
			name: "heads equal",
			heads: fakeHeads{
				j.FromRepo: {"main": "c1"},
				j.ToRepo:   {"mirror": "c1"},
			},
			want: VerdictInSync,
		},
		{
			name: "target branch missing",
			heads: fakeHeads{
				j.FromRepo: {"main": "c1"},
				j.ToRepo:   {"other": "c9"},
			},
			want: VerdictSync,
		},
		{
			name: "source branch missing",
			heads: fakeHeads{
				j.FromRepo: {"develop": "c1"},
				j.ToRepo:   {"mirror": "c0"},
			},
			want: VerdictUnprocessable,
		},
		{
			name: "source repo unresolvable",
			heads: fakeHeads{
				j.ToRepo: {"mirror": "c0"},
			},
			want: VerdictUnprocessable,
		},
		{
			name: "target repo unresolvable",
			heads: fakeHeads{
				j.FromRepo: {"main": "c1"},
			},
			want: VerdictUnprocessable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEvaluator(tt.heads, nil)
			if got := e.Evaluate(context.Background(), j); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluator_NeedsSync(t *testing.T) {
	j := testJob()
	e := NewEvaluator(fakeHeads{
		j.FromRepo: {"main": "c1"},
		j.ToRepo:   {},
	}, nil)

	if !e.NeedsSync(context.Background(), j) {
		t.Error("NeedsSync() = false for missing target branch, want true")
	}
}
