package mirror

import (
	"strings"
	"testing"
)

func TestSanitizeURLPath(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com/Upstream/Site.git", "upstreamsitegit"},
		{"https://example.com/a/b/c/", "abc"},
		{"git@example.com:Team/Repo.git", "gitexamplecomteamrepogit"},
		{"https://example.com/", "repo"},
		{"https://example.com/---/___", "repo"},
	}

	for _, tt := range tests {
		if got := sanitizeURLPath(tt.url); got != tt.want {
			t.Errorf("sanitizeURLPath(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestWorkdirName(t *testing.T) {
	const url = "https://example.com/upstream/site.git"

	a := WorkdirName(url)
	b := WorkdirName(url)
	if a == b {
		t.Errorf("WorkdirName() produced identical names: %q", a)
	}

	fragment, suffix, ok := strings.Cut(a, "-")
	if !ok {
		t.Fatalf("WorkdirName() = %q, want <fragment>-<suffix>", a)
	}
	if fragment != "upstreamsitegit" {
		t.Errorf("fragment = %q, want upstreamsitegit", fragment)
	}
	// The remainder is the textual UUID, which contains its own hyphens.
	if len(suffix) != 36 {
		t.Errorf("suffix = %q, want a 36-character UUID", suffix)
	}
	for _, r := range fragment {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			t.Errorf("fragment contains %q, want only [a-z0-9]", r)
		}
	}
}
