package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// maxThumbnailToken bounds sanitized thumbnail name length.
const maxThumbnailToken = 50

// SanitizeThumbnailToken converts a media title into a filesystem-safe token
// for thumbnail filenames. Diacritics are folded to their base letters,
// every remaining non-alphanumeric character becomes an underscore, and the
// result is truncated to 50 bytes.
func SanitizeThumbnailToken(title string) string {
	folded := foldDiacritics(title)
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	if len(out) > maxThumbnailToken {
		out = out[:maxThumbnailToken]
	}
	return out
}

// StripDelimiter replaces the row-store field separator with a comma so
// values sourced from upstream catalogs can never corrupt the row file.
func StripDelimiter(value string) string {
	return strings.ReplaceAll(value, ";", ",")
}

func foldDiacritics(value string) string {
	decomposed := norm.NFKD.String(value)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
