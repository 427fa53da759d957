package normalize

import (
	"regexp"
	"strings"

	"lore-sync/core/utils"

	"golang.org/x/text/unicode/norm"
)

// mojibake repairs the artefacts left by copy-pasting between encodings.
// Longer patterns come first; strings.Replacer tries them in argument order.
var mojibake = strings.NewReplacer(
	"\uFFFD?\"", "\"",
	"\uFFFD\"", "\"",
	"\uFFFD'", "'",
	"\uFFFD?", "",
	"\uFFFD", "",
	"\u201C", "\"",
	"\u201D", "\"",
	"\u2018", "'",
	"\u2019", "'",
	"\u00A0", " ",
	"\u001B", "",
	"\r\n", "\n",
)

var whitespace = regexp.MustCompile(`\s+`)

// CleanText repairs mojibake, applies NFC and collapses whitespace.
// It is idempotent: CleanText(CleanText(s)) == CleanText(s).
func CleanText(s string) string {
	s = mojibake.Replace(s)
	s = norm.NFC.String(s)
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// CleanValue cleans a scalar. Nil, maps and lists yield ok=false.
func CleanValue(v any) (string, bool) {
	switch t := v.(type) {
	case nil, map[string]any, []any, []string:
		return "", false
	default:
		s := CleanText(utils.ToString(t))
		return s, s != ""
	}
}

// CleanList cleans every item of a scalar or list value and drops empties.
// A comma separated string is not split; callers decide that per field.
func CleanList(v any) []string {
	items := utils.ToStringSlice(v)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := CleanText(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// CanonicalKey folds a free-form label into a lookup key ("Sun-Court " -> "sun_court").
func CanonicalKey(s string) string {
	s = strings.ToLower(CleanText(s))
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore && b.Len() > 0 {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
