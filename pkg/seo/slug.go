package seo

import (
	"regexp"
	"strings"
)

// whitespace as browsers and the cms see it, RE2's \s only covers ascii
const whitespace = `\t\n\x{000B}\f\r \x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}`

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9` + whitespace + `-]`)
	slugWhitespace   = regexp.MustCompile(`[` + whitespace + `]+`)
	slugHyphens      = regexp.MustCompile(`-+`)
)

// Slug derives a url safe, lowercase, hyphenated token from a title
func Slug(title string) string {
	slug := strings.ToLower(title)
	slug = slugInvalidChars.ReplaceAllString(slug, "")
	slug = slugWhitespace.ReplaceAllString(slug, "-")
	slug = slugHyphens.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
