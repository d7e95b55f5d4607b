package utils

import (
	"fmt"
	"strings"
)

// GenerateSlug derives a URL slug from a title: lowercase, runs of anything
// outside a-z and 0-9 collapsed to single hyphens, leading and trailing
// hyphens trimmed. Non-ASCII letters are treated as separators, not kept.
func GenerateSlug(title string) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen && b.Len() > 0 {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// EnsureUniqueSlug returns base if it is not taken, otherwise base with the
// smallest unused integer suffix starting at 1 (base, base-1, base-2, ...).
// existing should contain every slug sharing the base prefix.
func EnsureUniqueSlug(base string, existing []string) string {
	taken := make(map[string]bool, len(existing))
	for _, s := range existing {
		taken[s] = true
	}
	if !taken[base] {
		return base
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if !taken[candidate] {
			return candidate
		}
	}
}
