// Package ident resolves a Reddit profile reference to a bare username.
package ident

import (
	"regexp"
	"strings"
)

var profilePatterns = []*regexp.Regexp{
	regexp.MustCompile(`reddit\.com/user/([^/?#]+)`),
	regexp.MustCompile(`reddit\.com/u/([^/?#]+)`),
	regexp.MustCompile(`^/user/([^/?#]+)`),
	regexp.MustCompile(`^/u/([^/?#]+)`),
	regexp.MustCompile(`^u/([^/?#]+)`),
}

// Username extracts the account name from a profile URL in any of the
// usual shapes (https://www.reddit.com/user/x/, old.reddit.com/u/x,
// /u/x, u/x) or returns the bare handle. The result is lowercased; an
// empty result means nothing usable was found.
func Username(ref string) string {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return ""
	}

	for _, re := range profilePatterns {
		if m := re.FindStringSubmatch(ref); m != nil {
			return m[1]
		}
	}

	ref = strings.TrimRight(ref, "/")
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		ref = ref[i+1:]
	}
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	return ref
}
