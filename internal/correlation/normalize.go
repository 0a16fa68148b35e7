package correlation

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// accentFold is the fixed vowel table. Other marks (ñ, ç) are kept.
var accentFold = map[rune]rune{
	'á': 'a', 'à': 'a', 'ä': 'a', 'â': 'a',
	'é': 'e', 'è': 'e', 'ë': 'e', 'ê': 'e',
	'í': 'i', 'ì': 'i', 'ï': 'i', 'î': 'i',
	'ó': 'o', 'ò': 'o', 'ö': 'o', 'ô': 'o',
	'ú': 'u', 'ù': 'u', 'ü': 'u', 'û': 'u',
}

func foldAccent(r rune) rune {
	if f, ok := accentFold[r]; ok {
		return f
	}
	return r
}

// Normalizer canonicalizes text before comparison: lower-case, then accent fold.
// With StripNonAlphanumeric set, everything that is not a letter, digit or
// whitespace is removed as a last step.
type Normalizer struct {
	StripNonAlphanumeric bool
}

// Normalize never fails; empty input yields empty output.
func (n Normalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}

	steps := []transform.Transformer{cases.Lower(language.Und), runes.Map(foldAccent)}
	if n.StripNonAlphanumeric {
		steps = append(steps, runes.Remove(runes.Predicate(isPunctuation)))
	}

	out, _, err := transform.String(transform.Chain(steps...), text)
	if err != nil {
		out = strings.Map(foldAccent, strings.ToLower(text))
		if n.StripNonAlphanumeric {
			out = strings.Map(func(r rune) rune {
				if isPunctuation(r) {
					return -1
				}
				return r
			}, out)
		}
	}
	return out
}

func isPunctuation(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r)
}

// Normalize applies the default normalizer.
func Normalize(text string) string {
	return Normalizer{}.Normalize(text)
}
