// Package preview derives the plain-text excerpt shown in topic listings
// from a topic's rich-text content.
package preview

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// DefaultLimit is the maximum excerpt length in characters.
const DefaultLimit = 200

// strict removes every HTML element and attribute, leaving text content only.
var strict = bluemonday.StrictPolicy()

// Derive strips all markup from content, collapses whitespace, and returns a
// prefix of at most limit characters. A non-positive limit falls back to
// [DefaultLimit]. The excerpt is suffixed with an ellipsis when the content
// was actually truncated.
//
// Derive must be called whenever content changes: a topic's preview is a
// derived field, never an authored one.
func Derive(content string, limit int) string {
	if limit <= 0 {
		limit = DefaultLimit
	}

	text := strict.Sanitize(content)
	text = html.UnescapeString(text)
	text = strings.Join(strings.Fields(text), " ")

	if utf8.RuneCountInString(text) <= limit {
		return text
	}

	runes := []rune(text)
	return strings.TrimRight(string(runes[:limit]), " ") + "..."
}
