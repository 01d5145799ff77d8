// internal/app/system/htmlsanitize/htmlsanitize.go
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict removes every tag. Script and style bodies are dropped with them.
var strict = bluemonday.StrictPolicy()

// maxPasses bounds how many layers of entity encoding are peeled.
const maxPasses = 4

// PlainText strips all markup from user-authored text (posts, comments,
// chat lines, bios) and trims surrounding whitespace. Entities are decoded
// so "Tom & Jerry" round-trips unchanged, and the decoded text is sanitized
// again until it stops changing, so encoded tags never come back as markup.
// Input still changing after maxPasses is returned entity-escaped.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	out := s
	for i := 0; i < maxPasses; i++ {
		next := html.UnescapeString(strict.Sanitize(out))
		if next == out {
			return strings.TrimSpace(out)
		}
		out = next
	}
	return strings.TrimSpace(strict.Sanitize(out))
}
