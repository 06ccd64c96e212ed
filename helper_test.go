package nezamcrawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinUrl(t *testing.T) {
	tests := []struct {
		base, href, want string
	}{
		{"https://example.test/", "/city/1", "https://example.test/city/1"},
		{"https://example.test", "city/1", "https://example.test/city/1"},
		{"https://example.test/", "https://cdn.test/x", "https://cdn.test/x"},
		{"https://example.test/members/", "directory", "https://example.test/members/directory"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, joinUrl(tt.base, tt.href))
	}
}

func TestNormalizeBaseUrl(t *testing.T) {
	tests := map[string]string{
		"https://membersearch.irimc.org":          "https://membersearch.irimc.org/",
		"https://membersearch.irimc.org/":         "https://membersearch.irimc.org/",
		"https://example.test/members?page=2#top": "https://example.test/members/",
		"http://127.0.0.1:8080//a/b//":            "http://127.0.0.1:8080/a/b/",
	}
	for raw, want := range tests {
		got, err := normalizeBaseUrl(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := normalizeBaseUrl("membersearch.irimc.org")
	assert.Error(t, err)
}

func TestGenerateFilename(t *testing.T) {
	name := generateFilename("https://example.test/city/1?x=y")
	assert.NotContains(t, name, "/")
	assert.NotContains(t, name, "?")
	assert.Contains(t, name, "https___example.test_city_1_x=y")
}

func TestGetFullUrl(t *testing.T) {
	crawler, _, _, _ := newTestCrawler(t)
	assert.Equal(t, "https://example.test/city/1", crawler.GetFullUrl("/city/1"))
	assert.Equal(t, "https://example.test/directory", crawler.DirectoryUrl())
}
