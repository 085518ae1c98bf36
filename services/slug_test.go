package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"lowercases and hyphenates", "Build a REST API in Go", 0, "build-a-rest-api-in-go"},
		{"drops punctuation", "Hello, World!", 0, "hello-world"},
		{"transliterates accents", "Héllo Wörld", 0, "hello-world"},
		{"truncates without trailing hyphen", "abc def", 4, "abc"},
		{"empty stays empty", "   ", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in, tt.maxLen))
		})
	}
}

func TestUniqueSlug(t *testing.T) {
	taken := map[string]bool{"todo-app": true, "todo-app-2": true}
	exists := func(_ context.Context, s string) (bool, error) { return taken[s], nil }

	got, err := uniqueSlug(context.Background(), "todo-app", 220, exists)
	require.NoError(t, err)
	assert.Equal(t, "todo-app-3", got)

	got, err = uniqueSlug(context.Background(), "fresh", 220, exists)
	require.NoError(t, err)
	assert.Equal(t, "fresh", got)
}

func TestUniqueSlugStaysWithinMaxLength(t *testing.T) {
	base := strings.Repeat("a", 10)
	exists := func(_ context.Context, s string) (bool, error) { return s == base, nil }

	got, err := uniqueSlug(context.Background(), base, 10, exists)
	require.NoError(t, err)
	assert.Equal(t, "aaaaaaaa-2", got)
	assert.Len(t, got, 10)
}

func TestUniqueSlugPropagatesLookupErrors(t *testing.T) {
	boom := errors.New("connection reset")
	exists := func(context.Context, string) (bool, error) { return false, boom }

	_, err := uniqueSlug(context.Background(), "x", 10, exists)
	assert.ErrorIs(t, err, boom)
}
