package citations

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractURLsEmptyInput(t *testing.T) {
	assert.Empty(t, ExtractURLs(""))
	assert.Empty(t, ExtractURLs("no links in here"))
}

func TestExtractURLsDeduplicatesKeepingFirstOccurrence(t *testing.T) {
	urls := ExtractURLs("see http://a.com and http://a.com again")
	assert.Equal(t, []string{"http://a.com"}, urls)
}

func TestExtractURLsPreservesOrder(t *testing.T) {
	urls := ExtractURLs("first https://b.com/x then http://a.com then https://b.com/x")
	assert.Equal(t, []string{"https://b.com/x", "http://a.com"}, urls)
}

func TestExtractURLsTrimsTrailingPunctuation(t *testing.T) {
	cases := map[string]string{
		"Visit https://x.com/page.":        "https://x.com/page",
		"(see https://x.com/page)":         "https://x.com/page",
		"links: https://x.com/page;":       "https://x.com/page",
		"[https://x.com/page]":             "https://x.com/page",
		"maybe https://x.com/page},":       "https://x.com/page",
		"query https://x.com/p?a=1&b=2, …": "https://x.com/p?a=1&b=2",
	}
	for input, want := range cases {
		assert.Equal(t, []string{want}, ExtractURLs(input), "input: %s", input)
	}
}

func TestExtractURLsMixedSchemes(t *testing.T) {
	urls := ExtractURLs("HTTP://UPPER.com and https://lower.com and ftp://skip.me")
	assert.Equal(t, []string{"HTTP://UPPER.com", "https://lower.com"}, urls)
}

func TestStripFragment(t *testing.T) {
	assert.Equal(t, "https://a.com/1", StripFragment("https://a.com/1#sec"))
	assert.Equal(t, "https://a.com/1", StripFragment("https://a.com/1"))
	assert.Equal(t, "https://a.com/", StripFragment("https://a.com/#top"))
}
