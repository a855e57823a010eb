// Package splitter tokenizes a string literal into code and text tokens
// so that only natural-language fragments reach the translator and the
// literal can be rebuilt around untouched formatting syntax.
package splitter

import (
	"unicode"
	"unicode/utf8"

	"pwn-translator/internal/textutil"
)

// Kind classifies a token.
type Kind int

const (
	// Text is a run of characters not matched by any code matcher.
	Text Kind = iota
	// ColorCode is a {COLOR} or {FF0000} markup tag.
	ColorCode
	// FormatSpec is a % format specifier such as %s, %d or %.2f.
	FormatSpec
	// Escape is a backslash followed by a recognized escape character.
	Escape
	// LineContinuation is a backslash followed by a (CR)LF.
	LineContinuation
	// WhitespaceRun is a run of two or more whitespace characters.
	WhitespaceRun
	// BareCR is a standalone carriage return.
	BareCR
	// BareLF is a standalone newline.
	BareLF
)

// Token is one classified substring of a literal. Concatenating a
// literal's tokens in order reproduces the literal exactly.
type Token struct {
	Kind Kind
	Text string
}

// IsCode reports whether the token is formatting syntax that must
// survive translation unchanged.
func (t Token) IsCode() bool { return t.Kind != Text }

// Translatable reports whether the token should be sent to the
// translation provider: a text token containing at least one Cyrillic
// character.
func (t Token) Translatable() bool {
	return t.Kind == Text && textutil.ContainsCyrillic(t.Text)
}

// splitterEscapes are the escape characters recognized inside literals.
// A backslash before a space is a valid Pawn escape and stays paired.
const splitterEscapes = "ntbrfva\"'\\{} "

// formatConversions are the conversion characters ending a format
// specifier.
const formatConversions = "sdifucU%"

type matcher struct {
	kind Kind
	// match returns the byte length of the token starting at i, or 0.
	match func(s string, i int) int
}

// matchers are tried in this fixed priority order at every scan
// position. A format specifier must be recognized here before a generic
// text run would swallow it.
var matchers = []matcher{
	{ColorCode, matchColorCode},
	{FormatSpec, matchFormatSpec},
	{Escape, matchEscape},
	{LineContinuation, matchLineContinuation},
	{WhitespaceRun, matchWhitespaceRun},
	{BareCR, matchBareCR},
	{BareLF, matchBareLF},
}

// Split tokenizes one raw literal. The result is deterministic and
// lossless: it depends only on the input, and the concatenation of the
// token texts equals the input byte for byte.
func Split(raw string) []Token {
	var tokens []Token
	textStart := -1

	flush := func(end int) {
		if textStart >= 0 {
			tokens = append(tokens, Token{Kind: Text, Text: raw[textStart:end]})
			textStart = -1
		}
	}

	for i := 0; i < len(raw); {
		matched := false
		for _, m := range matchers {
			if n := m.match(raw, i); n > 0 {
				flush(i)
				tokens = append(tokens, Token{Kind: m.kind, Text: raw[i : i+n]})
				i += n
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		if textStart < 0 {
			textStart = i
		}
		i++
	}
	flush(len(raw))

	return tokens
}

// Fragments returns the translatable text fragments of a token sequence
// in order of appearance.
func Fragments(tokens []Token) []string {
	var frags []string
	for _, t := range tokens {
		if t.Translatable() {
			frags = append(frags, t.Text)
		}
	}
	return frags
}

// matchColorCode matches {WORD} tags: one or more word or hash
// characters between braces.
func matchColorCode(s string, i int) int {
	if s[i] != '{' {
		return 0
	}
	j := i + 1
	for j < len(s) {
		r, size := utf8.DecodeRuneInString(s[j:])
		if r == '}' {
			if j == i+1 {
				return 0 // empty braces
			}
			return j + 1 - i
		}
		if r != '#' && r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return 0
		}
		j += size
	}
	return 0
}

// matchFormatSpec matches % followed by optional flag/width characters
// and a conversion character.
func matchFormatSpec(s string, i int) int {
	if s[i] != '%' {
		return 0
	}
	j := i + 1
	for j < len(s) && (s[j] == '-' || s[j] == '.' || (s[j] >= '0' && s[j] <= '9')) {
		j++
	}
	if j < len(s) && indexByte(formatConversions, s[j]) >= 0 {
		return j + 1 - i
	}
	return 0
}

func matchEscape(s string, i int) int {
	if s[i] == '\\' && i+1 < len(s) && indexByte(splitterEscapes, s[i+1]) >= 0 {
		return 2
	}
	return 0
}

func matchLineContinuation(s string, i int) int {
	if s[i] != '\\' {
		return 0
	}
	j := i + 1
	if j < len(s) && s[j] == '\r' {
		j++
	}
	if j < len(s) && s[j] == '\n' {
		return j + 1 - i
	}
	return 0
}

func matchWhitespaceRun(s string, i int) int {
	j := i
	count := 0
	for j < len(s) {
		r, size := utf8.DecodeRuneInString(s[j:])
		if !unicode.IsSpace(r) {
			break
		}
		j += size
		count++
	}
	if count >= 2 {
		return j - i
	}
	return 0
}

func matchBareCR(s string, i int) int {
	if s[i] == '\r' {
		return 1
	}
	return 0
}

func matchBareLF(s string, i int) int {
	if s[i] == '\n' {
		return 1
	}
	return 0
}

func indexByte(set string, c byte) int {
	for k := 0; k < len(set); k++ {
		if set[k] == c {
			return k
		}
	}
	return -1
}
