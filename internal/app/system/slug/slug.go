// internal/app/system/slug/slug.go
package slug

import (
	"net/url"
	"strings"
)

// Make derives a URL slug from a display name: lowercase, every run of
// characters outside [a-z0-9] becomes a single "-", and leading or
// trailing dashes are removed. "Streetwear Fans" → "streetwear-fans".
func Make(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	dash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// DefaultCover is the placeholder banner used when a tribe has no cover.
func DefaultCover(name string) string {
	return "https://placehold.co/1200x400/7c3aed/fff?text=" + strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
}
