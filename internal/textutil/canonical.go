package textutil

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// bracketPattern matches the shortest span opened by ( or [ and closed by ) or ].
// Nested brackets are not balanced: "(a (b) c)" loses "(a (b)" and keeps " c)".
var bracketPattern = regexp.MustCompile(`[(\[].*?[)\]]`)

// versionMarkers are removed as whole words, in this order.
var versionMarkers = []string{
	"live", "ver.", "version", "remix", "acoustic",
	"instrumental", "demo", "edit", "mix", "feat.", "ft.",
}

// Canonicalize normalizes a raw artist or title into the form used for exact
// key comparison. The result contains only word runes (letters, numbers,
// underscore) separated by single spaces, and Canonicalize(Canonicalize(s)) ==
// Canonicalize(s).
func Canonicalize(raw string) string {
	if raw == "" {
		return ""
	}
	text := strings.TrimSpace(cases.Lower(language.Und).String(raw))
	text = bracketPattern.ReplaceAllString(text, "")
	for _, marker := range versionMarkers {
		text = removeWord(text, marker)
	}
	text = strings.Map(func(r rune) rune {
		if isWordRune(r) || isCJKIdeograph(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, text)
	return strings.Join(strings.Fields(text), " ")
}

// isWordRune mirrors the \w class: letters, numbers, and underscore.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func isCJKIdeograph(r rune) bool {
	return r >= 0x4E00 && r <= 0x9FFF
}

// removeWord deletes every occurrence of word in text that is not preceded or
// followed by a word rune.
func removeWord(text, word string) string {
	if !strings.Contains(text, word) {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	i := 0
	for {
		idx := strings.Index(text[i:], word)
		if idx < 0 {
			b.WriteString(text[i:])
			return b.String()
		}
		start := i + idx
		end := start + len(word)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			b.WriteString(text[i:start])
			i = end
			continue
		}
		// Step one rune past the false hit so overlapping candidates are still seen.
		_, size := utf8.DecodeRuneInString(text[start:])
		b.WriteString(text[i : start+size])
		i = start + size
	}
}

func boundaryBefore(text string, pos int) bool {
	if pos == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:pos])
	return !isWordRune(r)
}

func boundaryAfter(text string, pos int) bool {
	if pos >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[pos:])
	return !isWordRune(r)
}
