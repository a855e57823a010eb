package reconstruct

import (
	"testing"

	"pwn-translator/internal/splitter"
)

func TestRebuildScenario(t *testing.T) {
	tokens := splitter.Split(`Привет, %s! Цена: {GREEN}%d\n`)
	fragments := map[string]string{
		"Привет, ": "Hello, ",
		"! Цена: ": "! Price: ",
	}

	got := Rebuild(tokens, fragments)
	want := `Hello, %s! Price: {GREEN}%d\n`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRebuildPassthrough(t *testing.T) {
	// Tokens without a map entry stay verbatim.
	raw := `{RED}Server: %s online`
	tokens := splitter.Split(raw)

	if got := Rebuild(tokens, nil); got != raw {
		t.Errorf("got %q, want %q", got, raw)
	}
}

func TestNormalizeLineContinuation(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		// Continuation backslash plus newline collapses to one space.
		{"first\\\n second", "first second"},
		{"first\\\r\n second", "first second"},
		// A bare reflowed newline collapses too.
		{"first\nsecond", "first second"},
		{"first \nsecond", "first second"},
		// The escape sequence \n (two characters) is untouched.
		{`line one\nline two`, `line one\nline two`},
	}

	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeSpecifierBoundary(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"word%s", "word %s"},
		{"%sword", "%s word"},
		{"груз%d", "груз %d"},
		{"%dгруз", "%d груз"},
		{"a%sb", "a %s b"},
		// Already separated stays as is.
		{"word %s word", "word %s word"},
		// Punctuation next to a specifier is not a word boundary.
		{"!%s", "!%s"},
		{"%s:", "%s:"},
	}

	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRebuildTranslationReflow(t *testing.T) {
	// A literal originally wrapped with a line continuation whose
	// translation came back reflowed across lines.
	tokens := splitter.Split("Длинный\\\n текст")
	fragments := map[string]string{
		"Длинный": "Long",
		" текст":  " text",
	}

	got := Rebuild(tokens, fragments)
	if got != "Long text" {
		t.Errorf("got %q, want %q", got, "Long text")
	}
}
