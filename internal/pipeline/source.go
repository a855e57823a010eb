package pipeline

import (
	"context"
	"fmt"
	"strings"

	"pwn-translator/internal/escape"
	"pwn-translator/internal/pawnfile"
	"pwn-translator/internal/scanner"
	"pwn-translator/internal/worker"
)

// Source is one scanned input file ready for translation.
type Source struct {
	// Path is the input file.
	Path string
	// OutPath is where the translated copy is written.
	OutPath string
	// Text is the decoded file content.
	Text string
	// Spans are the literal and comment spans of Text, in order.
	Spans []scanner.Span
}

// Literals returns the inner content of every string literal span in
// file order, duplicates included.
func (s *Source) Literals() []string {
	var lits []string
	for _, sp := range s.Spans {
		if sp.Kind == scanner.String {
			lits = append(lits, sp.Content)
		}
	}
	return lits
}

// PathPair maps an input file to its output location.
type PathPair struct {
	In  string
	Out string
}

// ScanSources reads and scans all inputs concurrently. Scanning is
// read-only, so the worker pool is safe here; translation downstream
// stays sequential.
func ScanSources(ctx context.Context, pairs []PathPair, workers int) ([]*Source, error) {
	pool := worker.NewPool(workers, func(_ context.Context, pair PathPair) (*Source, error) {
		text, err := pawnfile.ReadFile(pair.In)
		if err != nil {
			return nil, err
		}
		return &Source{
			Path:    pair.In,
			OutPath: pair.Out,
			Text:    text,
			Spans:   scanner.Scan(text),
		}, nil
	})

	tasks := pool.Execute(ctx, pairs)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sources := make([]*Source, 0, len(tasks))
	for _, t := range tasks {
		if t.Err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.Input.In, t.Err)
		}
		if t.Result == nil {
			// Cancellation can leave undispatched inputs behind.
			return nil, fmt.Errorf("scan %s: %w", t.Input.In, context.Canceled)
		}
		sources = append(sources, t.Result)
	}
	return sources, nil
}

// Generate rebuilds the full file text, substituting the re-escaped
// translation for every literal with a cache entry. Comments and
// literals without an entry stay verbatim, original quotes included.
func Generate(src *Source, lookup func(raw string) (string, bool)) string {
	var b strings.Builder
	b.Grow(len(src.Text))

	last := 0
	for _, sp := range src.Spans {
		if sp.Kind != scanner.String {
			continue
		}
		translated, ok := lookup(sp.Content)
		if !ok {
			continue
		}
		b.WriteString(src.Text[last:sp.Start])
		b.WriteString(escape.Quote(translated))
		last = sp.End
	}
	b.WriteString(src.Text[last:])

	return b.String()
}
