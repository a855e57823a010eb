package scanner

import "testing"

func TestScanStringLiterals(t *testing.T) {
	text := `SendClientMessage(playerid, -1, "Привет, %s!");`
	spans := Scan(text)

	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	sp := spans[0]
	if sp.Kind != String {
		t.Errorf("kind = %v, want String", sp.Kind)
	}
	if sp.Content != "Привет, %s!" {
		t.Errorf("content = %q", sp.Content)
	}
	if text[sp.Start:sp.End] != `"Привет, %s!"` {
		t.Errorf("span text = %q", text[sp.Start:sp.End])
	}
}

func TestScanEscapedQuote(t *testing.T) {
	text := `x = "he said \"hi\"" + "second";`
	spans := Scan(text)

	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}
	if spans[0].Content != `he said \"hi\"` {
		t.Errorf("first content = %q", spans[0].Content)
	}
	if spans[1].Content != "second" {
		t.Errorf("second content = %q", spans[1].Content)
	}
}

func TestScanComments(t *testing.T) {
	text := "a = 1; // line \"not a string\"\n/* block\n\"also not\" */ b = \"real\";"
	spans := Scan(text)

	if len(spans) != 3 {
		t.Fatalf("got %d spans, want 3", len(spans))
	}
	if spans[0].Kind != LineComment {
		t.Errorf("spans[0].Kind = %v, want LineComment", spans[0].Kind)
	}
	if spans[1].Kind != BlockComment {
		t.Errorf("spans[1].Kind = %v, want BlockComment", spans[1].Kind)
	}
	if spans[2].Kind != String || spans[2].Content != "real" {
		t.Errorf("spans[2] = %+v", spans[2])
	}
}

func TestScanLineCommentStopsAtEOL(t *testing.T) {
	text := "// first\n\"after\""
	spans := Scan(text)

	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}
	if spans[0].Content != "// first" {
		t.Errorf("comment content = %q", spans[0].Content)
	}
	if spans[1].Content != "after" {
		t.Errorf("string content = %q", spans[1].Content)
	}
}

func TestScanUnterminated(t *testing.T) {
	// Unterminated constructs produce no span; scanning resumes past
	// the opening character.
	cases := []struct {
		text string
		want int
	}{
		{`x = "no close`, 0},
		{"/* never closed", 0},
		{`"ok" and then "broken`, 1},
	}

	for _, c := range cases {
		if got := len(Scan(c.text)); got != c.want {
			t.Errorf("Scan(%q): %d spans, want %d", c.text, got, c.want)
		}
	}
}

func TestScanSpansOrdered(t *testing.T) {
	text := `"a" /*c*/ "b" // d`
	spans := Scan(text)

	if len(spans) != 4 {
		t.Fatalf("got %d spans, want 4", len(spans))
	}
	for i := 1; i < len(spans); i++ {
		if spans[i].Start < spans[i-1].End {
			t.Errorf("spans overlap or out of order at %d", i)
		}
	}
}
