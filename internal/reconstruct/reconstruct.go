// Package reconstruct rebuilds literals from their token sequence after
// fragment translation and cleans up artifacts the translation step may
// have introduced.
package reconstruct

import (
	"regexp"
	"strings"

	"pwn-translator/internal/splitter"
)

var (
	// lineArtifact collapses a line continuation (or bare newline) and
	// the whitespace around it: translation reflows text that was
	// originally wrapped across continuation lines.
	lineArtifact = regexp.MustCompile(`\\?\s*\r?\n\s*`)

	// trailingSpace removes spaces left hanging before a newline.
	trailingSpace = regexp.MustCompile(` +\n`)

	// wordThenSpec and specThenWord detect a translated word fused
	// directly against a format specifier in either direction.
	wordThenSpec = regexp.MustCompile(`([a-zA-Z\p{Cyrillic}])(%[-.0-9]*[sdifucU%])`)
	specThenWord = regexp.MustCompile(`(%[-.0-9]*[sdifucU%])([a-zA-Z\p{Cyrillic}])`)
)

// Rebuild substitutes each text token through the fragment translation
// map (tokens without an entry pass through verbatim), concatenates the
// tokens in original order and normalizes the result. The returned
// string is the human-readable final form; re-escaping for embedding
// happens at substitution time.
func Rebuild(tokens []splitter.Token, fragments map[string]string) string {
	var b strings.Builder
	for _, tok := range tokens {
		if tok.Kind == splitter.Text {
			if translated, ok := fragments[tok.Text]; ok {
				b.WriteString(translated)
				continue
			}
		}
		b.WriteString(tok.Text)
	}

	return Normalize(b.String())
}

// Normalize applies the post-translation cleanup passes: collapse line
// continuation artifacts to a single space, strip trailing spaces before
// newlines, and keep a separating space between words and format
// specifiers so translated text never fuses with a placeholder.
func Normalize(s string) string {
	s = lineArtifact.ReplaceAllString(s, " ")
	s = trailingSpace.ReplaceAllString(s, "\n")
	s = wordThenSpec.ReplaceAllString(s, "$1 $2")
	s = specThenWord.ReplaceAllString(s, "$1 $2")
	return s
}
