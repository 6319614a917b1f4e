package mirror

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// WorkdirName derives a unique, filesystem-safe directory name for a target
// repository URL: a lowercase-alphanumeric fragment of the URL path for
// human recognizability, then a random 128-bit suffix so concurrent and
// historical runs against the same repository never collide.
func WorkdirName(targetURL string) string {
	return sanitizeURLPath(targetURL) + "-" + uuid.NewString()
}

// sanitizeURLPath reduces a repository URL to a short filesystem-legal
// fragment: the URL's path component, lowercased, with everything outside
// [a-z0-9] discarded.
func sanitizeURLPath(rawURL string) string {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		path = u.Path
	}

	path = strings.ToLower(strings.Trim(path, "/"))

	var b strings.Builder
	for _, r := range path {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "repo"
	}
	return b.String()
}
