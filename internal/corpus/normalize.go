package corpus

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/verte-zerg/charfit/internal/model"
)

// Class is the ranking tier of a character.
type Class int

const (
	ClassLetter Class = iota
	ClassDigit
	ClassSymbol
)

// Normalize joins the resolved strings with a single space, splits the result
// into grapheme clusters and applies the filters. Case folding happens before
// the exclusion tests.
func Normalize(r Resolved, cfg model.FilterConfig) []string {
	text := strings.Join(r.Texts(), " ")
	if text == "" {
		return nil
	}
	var fold cases.Caser
	if cfg.IgnoreCapitals {
		fold = cases.Lower(language.Und)
	}
	out := make([]string, 0, len(text))
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		ch := gr.Str()
		if cfg.IgnoreCapitals {
			ch = fold.String(ch)
		}
		if Excluded(ch, cfg) {
			continue
		}
		out = append(out, ch)
	}
	return out
}

// Excluded reports whether an active filter drops the character.
func Excluded(ch string, cfg model.FilterConfig) bool {
	return (cfg.IgnoreNumbers && IsDigit(ch)) ||
		(cfg.IgnoreSymbols && IsSymbol(ch)) ||
		(cfg.IgnoreSpaces && IsSpace(ch))
}

// IsDigit reports whether the base rune of ch is a decimal digit.
func IsDigit(ch string) bool {
	r, ok := baseRune(ch)
	return ok && unicode.IsDigit(r)
}

// IsSpace reports whether the base rune of ch is whitespace.
func IsSpace(ch string) bool {
	r, ok := baseRune(ch)
	return ok && unicode.IsSpace(r)
}

// IsSymbol reports whether ch is neither a word character nor whitespace.
func IsSymbol(ch string) bool {
	r, ok := baseRune(ch)
	if !ok {
		return false
	}
	return !isWordRune(r) && !unicode.IsSpace(r)
}

// ClassOf returns the ranking tier of ch. Whitespace ranks with letters.
func ClassOf(ch string) Class {
	switch {
	case IsSymbol(ch):
		return ClassSymbol
	case IsDigit(ch):
		return ClassDigit
	default:
		return ClassLetter
	}
}

func isWordRune(r rune) bool {
	return unicode.Is(unicode.Pc, r) || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

func baseRune(ch string) (rune, bool) {
	if ch == "" {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(ch)
	if r == utf8.RuneError {
		return 0, false
	}
	return r, true
}
