// Package sanitize screens player display names against disallowed terms.
// Matching runs on a normalized form that undoes common obfuscations
// (leetspeak digits, diacritics, repeated letters); the stored value is
// always the original input, never the normalized one.
package sanitize

import (
	"fmt"
	"math/rand"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// leetMap resolves each leetspeak digit to a single canonical letter.
// Digits with several plausible readings (1 could be i or l) map to exactly
// one; the cheaper false negative is accepted.
var leetMap = map[rune]rune{
	'0': 'o',
	'1': 'i',
	'3': 'e',
	'4': 'a',
	'5': 's',
	'7': 't',
	'8': 'b',
}

// stripMarks decomposes to NFD and drops combining marks, so "bàdwòrd"
// normalizes to "badword".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

// term is a disallowed term in its two matching forms: normalized, and with
// every letter run squeezed to a single letter. The squeezed form catches
// emphasis padding that survives the collapse-to-2 stage ("baaaadword"
// normalizes to "baadword", which only the squeezed comparison ties back to
// "badword").
type term struct {
	normalized string
	squeezed   string
}

// Sanitizer validates display names against a fixed set of disallowed terms.
type Sanitizer struct {
	terms []term
}

// New builds a Sanitizer. The terms themselves are normalized so an
// obfuscated entry in the config list still matches.
func New(disallowed []string) *Sanitizer {
	s := &Sanitizer{}
	for _, t := range disallowed {
		n, err := Normalize(t)
		if err != nil || n == "" {
			continue
		}
		s.terms = append(s.terms, term{normalized: n, squeezed: squeeze(n)})
	}
	return s
}

// Clean returns the raw name unchanged if it passes screening, or a fresh
// fallback identity if the name is empty, fails normalization, or contains a
// disallowed term in normalized form.
func (s *Sanitizer) Clean(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return FallbackName()
	}

	normalized, err := Normalize(raw)
	if err != nil {
		return FallbackName()
	}
	squeezed := squeeze(normalized)

	for _, t := range s.terms {
		if strings.Contains(normalized, t.normalized) || strings.Contains(squeezed, t.squeezed) {
			return FallbackName()
		}
	}
	return raw
}

// Normalize reduces a name to its canonical matching form. The stages run in
// a fixed order: lowercase, leetspeak substitution, diacritic stripping,
// reduction to ASCII letters, and collapsing runs of 3+ identical letters
// down to 2.
func Normalize(raw string) (string, error) {
	lowered := strings.ToLower(raw)

	deleet := strings.Map(func(r rune) rune {
		if sub, ok := leetMap[r]; ok {
			return sub
		}
		return r
	}, lowered)

	stripped, _, err := transform.String(stripMarks, deleet)
	if err != nil {
		return "", fmt.Errorf("stripping diacritics: %w", err)
	}

	var b strings.Builder
	b.Grow(len(stripped))
	var last rune
	run := 0
	for _, r := range stripped {
		if r < 'a' || r > 'z' {
			continue
		}
		if r == last {
			run++
			if run >= 3 {
				continue
			}
		} else {
			last = r
			run = 1
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}

// squeeze collapses every run of identical letters to a single letter.
func squeeze(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var last rune
	for i, r := range s {
		if i > 0 && r == last {
			continue
		}
		last = r
		b.WriteRune(r)
	}
	return b.String()
}

// FallbackName generates a replacement identity of the form Player-NNNN with
// a uniform 4-digit suffix.
func FallbackName() string {
	return fmt.Sprintf("Player-%d", rand.Intn(9000)+1000)
}
