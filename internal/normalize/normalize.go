// Package normalize produces the canonical text forms used as merge keys
// between the CRM export and the ad-platform dashboards. The two systems
// share no stable identifier, so every join in the pipeline goes through
// Text applied identically on both sides.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldMarks decomposes accented characters and drops the combining marks,
// e.g. "Matrícula" -> "Matricula".
var foldMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

func stripAccents(s string) string {
	out, _, err := transform.String(foldMarks, s)
	if err != nil {
		return s
	}
	return out
}

// Text returns the merge-key form of s: trimmed, lower-cased, accent-folded
// to ASCII, stripped to [a-z0-9 ] and with whitespace runs collapsed.
// It is total: any input yields a (possibly empty) string, never an error.
// Text is idempotent.
func Text(s string) string {
	s = stripAccents(strings.ToLower(strings.TrimSpace(s)))
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			space = true
		}
	}
	return b.String()
}

// ColumnName returns the snake_case form of a header cell: like Text but
// with underscores preserved and spaces joined as underscores, so
// "Valor usado (BRL)" -> "valor_usado_brl". Column resolution candidates
// are written in this form.
func ColumnName(s string) string {
	s = stripAccents(strings.ToLower(strings.TrimSpace(s)))
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			if space && b.Len() > 0 {
				b.WriteByte('_')
			}
			space = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			space = true
		}
	}
	return b.String()
}

// FoldLettersUpper keeps only A-Z after accent folding and upper-casing.
// Deal-ID segments are built from this form.
func FoldLettersUpper(s string) string {
	s = stripAccents(strings.ToUpper(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
