// Package escape converts human-readable translated text back into a
// form safe to embed inside a quoted Pawn literal.
package escape

import "strings"

// pawnEscapes are the characters that may legally follow a backslash in
// a Pawn literal. A backslash before any of these is an intentional
// escape pair and is kept verbatim; space is in the set, matching Pawn's
// permissive handling of "\ ".
const pawnEscapes = "ntbrfva\"'\\%{} "

// ForPawn walks the text byte by byte: recognized escape pairs are
// copied as-is, any other backslash is doubled, and bare double quotes
// are escaped. Everything else passes through unchanged.
func ForPawn(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			if i+1 < len(s) && strings.IndexByte(pawnEscapes, s[i+1]) >= 0 {
				b.WriteByte(c)
				b.WriteByte(s[i+1])
				i++
			} else {
				b.WriteString(`\\`)
			}
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

// Quote wraps re-escaped text in double quotes, ready for substitution
// into the source file.
func Quote(s string) string {
	return `"` + ForPawn(s) + `"`
}
