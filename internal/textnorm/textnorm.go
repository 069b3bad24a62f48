// Package textnorm normalizes user-supplied text so that names, DNIs and
// phone numbers compare the same regardless of casing, accents, emoji or
// formatting characters.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NFD decomposition drops combining marks, which covers á é í ó ú ñ ü.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases, folds accents and keeps only [a-z0-9 ], collapsing
// whitespace runs to a single space with no leading or trailing space.
// It is total and idempotent.
func Normalize(raw string) string {
	folded, _, err := transform.String(stripAccents, strings.ToLower(strings.TrimSpace(raw)))
	if err != nil {
		folded = strings.ToLower(strings.TrimSpace(raw))
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingSpace := false
	for _, r := range folded {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			pendingSpace = true
		}
	}
	return b.String()
}

// Digits keeps only the ASCII digits of s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Letters keeps only a-z words of s (assumed already normalized), joined by
// single spaces.
func Letters(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || r == ' ' {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// CanonicalPhone reduces a phone number in any formatting to its canonical
// form: the last 10 digits. Shorter numbers are returned digits-only as-is;
// no digits at all yields "".
func CanonicalPhone(s string) string {
	digits := Digits(s)
	if len(digits) >= 10 {
		return digits[len(digits)-10:]
	}
	return digits
}

// NameTokens splits an already-normalized name into the tokens used for
// matching: words of 4+ characters, falling back to 3+ characters when no
// longer word exists. Returns nil when nothing qualifies.
func NameTokens(s string) []string {
	words := strings.Fields(s)
	var keep []string
	for _, w := range words {
		if len(w) >= 4 {
			keep = append(keep, w)
		}
	}
	if keep == nil {
		for _, w := range words {
			if len(w) >= 3 {
				keep = append(keep, w)
			}
		}
	}
	return keep
}
