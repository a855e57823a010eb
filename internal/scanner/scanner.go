// Package scanner extracts string-literal and comment spans from Pawn
// source text.
package scanner

// Kind classifies a scanned span.
type Kind int

const (
	// String is a double-quoted literal; Content holds the inner text.
	String Kind = iota
	// BlockComment is a /* ... */ comment, possibly spanning newlines.
	BlockComment
	// LineComment is a // comment running to end of line.
	LineComment
)

// Span is one matched region of the source text. Start and End are byte
// offsets into the scanned text; End is exclusive. For String spans the
// offsets include the delimiting quotes while Content excludes them.
type Span struct {
	Kind    Kind
	Start   int
	End     int
	Content string
}

// Scan walks the source text left to right and returns every string
// literal and comment span in order. Escaped characters inside literals
// (backslash followed by any byte) never terminate the literal. An
// unterminated literal or comment produces no span: the opening character
// is treated as plain text and scanning resumes after it.
func Scan(text string) []Span {
	var spans []Span
	n := len(text)

	for i := 0; i < n; {
		switch {
		case text[i] == '"':
			if end, ok := scanString(text, i); ok {
				spans = append(spans, Span{
					Kind:    String,
					Start:   i,
					End:     end,
					Content: text[i+1 : end-1],
				})
				i = end
				continue
			}
			i++

		case text[i] == '/' && i+1 < n && text[i+1] == '*':
			if end, ok := scanBlockComment(text, i); ok {
				spans = append(spans, Span{
					Kind:    BlockComment,
					Start:   i,
					End:     end,
					Content: text[i:end],
				})
				i = end
				continue
			}
			i++

		case text[i] == '/' && i+1 < n && text[i+1] == '/':
			end := i + 2
			for end < n && text[end] != '\r' && text[end] != '\n' {
				end++
			}
			spans = append(spans, Span{
				Kind:    LineComment,
				Start:   i,
				End:     end,
				Content: text[i:end],
			})
			i = end

		default:
			i++
		}
	}

	return spans
}

// scanString finds the closing quote of a literal opened at start.
// Returns the offset one past the closing quote.
func scanString(text string, start int) (int, bool) {
	i := start + 1
	for i < len(text) {
		switch text[i] {
		case '\\':
			i += 2
		case '"':
			return i + 1, true
		default:
			i++
		}
	}
	return 0, false
}

// scanBlockComment finds the closing */ of a comment opened at start.
func scanBlockComment(text string, start int) (int, bool) {
	for i := start + 2; i+1 < len(text); i++ {
		if text[i] == '*' && text[i+1] == '/' {
			return i + 2, true
		}
	}
	return 0, false
}
