package utils

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Slugify turns a title into a URL-safe slug with a short unique suffix so
// that repeated titles do not collide.
func Slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}

	slug := strings.Trim(b.String(), "-")
	suffix := uuid.New().String()[:8]
	if slug == "" {
		return suffix
	}

	return slug + "-" + suffix
}
