package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
)

// Slugify turns a display name into a lowercase, hyphen separated slug of at
// most maxLen bytes
func Slugify(name string, maxLen int) string {
	s := slug.Make(name)
	if maxLen > 0 && len(s) > maxLen {
		s = strings.Trim(s[:maxLen], "-")
	}
	return s
}

// uniqueSlug appends -2, -3, ... to base until exists reports the slug free
func uniqueSlug(ctx context.Context, base string, maxLen int, exists func(context.Context, string) (bool, error)) (string, error) {
	candidate := base
	for n := 2; ; n++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		if n > 1000 {
			return "", fmt.Errorf("no free slug found for %q", base)
		}

		suffix := fmt.Sprintf("-%d", n)
		trimmed := base
		if len(trimmed)+len(suffix) > maxLen {
			trimmed = strings.TrimRight(trimmed[:maxLen-len(suffix)], "-")
		}
		candidate = trimmed + suffix
	}
}
