// Package citations keeps the final answer's sources honest: it extracts URLs
// from text, harvests the URLs that tool calls actually surfaced during a run,
// and reduces an answer's cited sources to the subset backed by that evidence.
package citations

import (
	"regexp"
	"strings"
)

var urlPattern = regexp.MustCompile(`(?i)(https?://[^\s)\]>]+)`)

// trailing sentence/markup delimiters that the pattern may swallow
const trailingPunct = ".,);]}"

// ExtractURLs returns the HTTP/HTTPS URLs found in text, in first-occurrence
// order with exact-string duplicates removed. The scan is purely lexical: no
// validation that a URL resolves, no network access.
func ExtractURLs(text string) []string {
	if text == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var urls []string
	for _, m := range urlPattern.FindAllString(text, -1) {
		url := strings.TrimRight(m, trailingPunct)
		if url == "" {
			continue
		}
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		urls = append(urls, url)
	}
	return urls
}

// StripFragment drops a trailing #fragment component. Two URLs that differ
// only in their fragment point at the same document, so grounding compares
// the stripped forms.
func StripFragment(url string) string {
	if i := strings.Index(url, "#"); i >= 0 {
		return url[:i]
	}
	return url
}
