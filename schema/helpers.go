package schema

import (
	"sort"
	"strings"
)

// NormalizeURL canonicalizes a URL for use as a lookup key so that
// "Example.com", "https://example.com" and "https://example.com/" all
// resolve to the same report. It lowercases the scheme and host,
// defaults the scheme to https, and drops a bare trailing slash.
func NormalizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	scheme := "https"
	rest := trimmed
	if idx := strings.Index(trimmed, "://"); idx != -1 {
		scheme = strings.ToLower(trimmed[:idx])
		rest = trimmed[idx+len("://"):]
	}

	// Lowercase the host only; the path may be case sensitive.
	host := rest
	path := ""
	if idx := strings.IndexAny(rest, "/?#"); idx != -1 {
		host = rest[:idx]
		path = rest[idx:]
	}
	host = strings.ToLower(host)

	if path == "/" {
		path = ""
	}
	return scheme + "://" + host + path
}

// ParseRecipients splits a comma separated recipient list, trimming
// whitespace and dropping empty entries.
func ParseRecipients(raw string) []string {
	var recipients []string
	for _, part := range strings.Split(raw, ",") {
		if r := strings.TrimSpace(part); r != "" {
			recipients = append(recipients, r)
		}
	}
	return recipients
}

// FormatRecipients renders a recipient list as "a@x.com, b@y.com".
func FormatRecipients(recipients []string) string {
	return strings.Join(recipients, ", ")
}

// RecipientsEqual compares two recipient slices, considering them equal
// if they contain the same addresses regardless of order.
func RecipientsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	aSorted := make([]string, len(a))
	copy(aSorted, a)
	sort.Strings(aSorted)

	bSorted := make([]string, len(b))
	copy(bSorted, b)
	sort.Strings(bSorted)

	for i := range aSorted {
		if aSorted[i] != bSorted[i] {
			return false
		}
	}
	return true
}
