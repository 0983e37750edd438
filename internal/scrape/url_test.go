package scrape

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalizeURL(t *testing.T) {
	cases := map[string]string{
		"HTTPS://Example.com/Result/42":                         "https://example.com/Result/42",
		"https://example.com/result/42#comments":                "https://example.com/result/42",
		"https://example.com/result/42?utm_source=x&utm_med=y":  "https://example.com/result/42",
		"https://example.com/survey/?page=2&ref=tw":             "https://example.com/survey/?page=2",
		"https://example.com/survey/?b=2&a=1":                   "https://example.com/survey/?a=1&b=2",
		"  https://example.com/result/42  ":                     "https://example.com/result/42",
		"":                                                      "",
	}
	for in, want := range cases {
		require.Equal(t, want, canonicalizeURL(in), "input %q", in)
	}
}
