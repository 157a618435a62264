package split

import (
	"regexp"
	"strings"
)

// maxTitleLen bounds sanitized names well under common filesystem limits,
// leaving room for the ".pdf" suffix and nesting.
const maxTitleLen = 120

var whitespaceRun = regexp.MustCompile(`\s+`)

// SanitizeTitle turns a section title into a filesystem-safe name:
// whitespace runs become single underscores, anything outside
// [alnum - _ .] is dropped, and the result is length-capped. Sibling
// uniqueness comes from the number prefix already embedded in the name.
func SanitizeTitle(name string) string {
	name = whitespaceRun.ReplaceAllString(strings.TrimSpace(name), "_")

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		}
	}

	out := strings.Trim(b.String(), "._")
	if out == "" {
		out = "section"
	}
	if len(out) > maxTitleLen {
		out = out[:maxTitleLen]
	}
	return out
}
