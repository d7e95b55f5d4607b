package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"My First Video", "my-first-video"},
		{"  Hello,   World!!  ", "hello-world"},
		{"Episode 12: The Return", "episode-12-the-return"},
		{"UPPER lower 123", "upper-lower-123"},
		{"Café au Lait", "caf-au-lait"},
		{"日本語 Video 2", "video-2"},
		{"---", ""},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, GenerateSlug(tc.title), "title %q", tc.title)
	}
}

func TestEnsureUniqueSlug(t *testing.T) {
	assert.Equal(t, "foo", EnsureUniqueSlug("foo", nil))
	assert.Equal(t, "foo-1", EnsureUniqueSlug("foo", []string{"foo"}))
	assert.Equal(t, "foo-2", EnsureUniqueSlug("foo", []string{"foo", "foo-1"}))

	// Gaps are filled with the smallest free suffix.
	assert.Equal(t, "foo-1", EnsureUniqueSlug("foo", []string{"foo", "foo-2"}))

	// Similar prefixes do not block the base slug.
	assert.Equal(t, "foo", EnsureUniqueSlug("foo", []string{"foo-bar"}))
}
