package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pwn-translator/internal/cache"
	"pwn-translator/internal/connectivity"
	"pwn-translator/internal/pawnfile"
	"pwn-translator/internal/scanner"
	"pwn-translator/internal/translation"
)

// stubProvider answers from a fixed map; unknown fragments echo back.
type stubProvider struct {
	calls     int
	fail      bool
	responses map[string]string
}

func (s *stubProvider) Translate(_ context.Context, text string) (string, error) {
	s.calls++
	if s.fail {
		return "", errTransient
	}
	if r, ok := s.responses[text]; ok {
		return r, nil
	}
	return text, nil
}

var errTransient = &transientErr{}

type transientErr struct{}

func (*transientErr) Error() string { return "retryable error (status 503)" }

func newTranslator(p translation.Provider, failedLog string) *translation.FragmentTranslator {
	probe := connectivity.NewProbe("127.0.0.1:1", 10*time.Millisecond)
	return translation.NewFragmentTranslator(p, probe, translation.Options{
		MaxRetries:   2,
		RetryDelay:   time.Millisecond,
		WaitInterval: time.Millisecond,
		FailedLog:    failedLog,
	})
}

// writeSource writes a cp1251 input file and returns its path pair.
func writeSource(t *testing.T, dir, name, text string) PathPair {
	t.Helper()
	in := filepath.Join(dir, name)
	if err := pawnfile.WriteFile(in, text); err != nil {
		t.Fatal(err)
	}
	return PathPair{In: in, Out: filepath.Join(dir, "out_"+name)}
}

func runPipeline(t *testing.T, dir string, pairs []PathPair, stub *stubProvider, opts Options) (*Stats, *cache.TranslationCache) {
	t.Helper()
	ctx := context.Background()

	sources, err := ScanSources(ctx, pairs, 2)
	if err != nil {
		t.Fatalf("ScanSources: %v", err)
	}

	c := cache.New(cache.NewFileStore(filepath.Join(dir, "cache.json")))
	if err := c.Load(ctx); err != nil {
		t.Fatalf("cache load: %v", err)
	}

	p := New(c, newTranslator(stub, filepath.Join(dir, "failed.txt")), opts)
	stats, err := p.Run(ctx, sources)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return stats, c
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	input := `SendClientMessage(playerid, -1, "Привет, %s! Цена: {GREEN}%d\n");` + "\n"
	pair := writeSource(t, dir, "mode.pwn", input)

	stub := &stubProvider{responses: map[string]string{
		"Привет, ": "Hello, ",
		"! Цена: ": "! Price: ",
	}}
	stats, _ := runPipeline(t, dir, []PathPair{pair}, stub, Options{BatchSize: 20})

	got, err := pawnfile.ReadFile(pair.Out)
	if err != nil {
		t.Fatal(err)
	}
	want := `SendClientMessage(playerid, -1, "Hello, %s! Price: {GREEN}%d\n");` + "\n"
	if got != want {
		t.Errorf("output:\n got %q\nwant %q", got, want)
	}

	if stats.FragmentsTranslated != 2 {
		t.Errorf("FragmentsTranslated = %d, want 2", stats.FragmentsTranslated)
	}
}

func TestRunIdempotentCaching(t *testing.T) {
	dir := t.TempDir()
	input := "a(\"Привет\");\nb(\"Привет\");\n"
	pair := writeSource(t, dir, "dup.pwn", input)

	stub := &stubProvider{responses: map[string]string{"Привет": "Hello"}}
	stats, c := runPipeline(t, dir, []PathPair{pair}, stub, Options{BatchSize: 20})

	// Two occurrences, one provider call, one cache entry.
	if stub.calls != 1 {
		t.Errorf("provider called %d times, want 1", stub.calls)
	}
	if c.Len() != 1 {
		t.Errorf("cache has %d entries, want 1", c.Len())
	}
	if stats.Literals != 2 || stats.UniqueLiterals != 1 {
		t.Errorf("stats = %+v", stats)
	}

	got, _ := pawnfile.ReadFile(pair.Out)
	want := "a(\"Hello\");\nb(\"Hello\");\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRunNonCyrillicPassthrough(t *testing.T) {
	dir := t.TempDir()
	input := "print(\"Hello world\");\n// Привет в комментарии\n/* \"Строка\" в блоке */\n"
	pair := writeSource(t, dir, "latin.pwn", input)

	stub := &stubProvider{}
	runPipeline(t, dir, []PathPair{pair}, stub, Options{BatchSize: 20})

	if stub.calls != 0 {
		t.Errorf("provider called %d times, want 0", stub.calls)
	}

	got, _ := pawnfile.ReadFile(pair.Out)
	if got != input {
		t.Errorf("output changed:\n got %q\nwant %q", got, input)
	}
}

func TestRunWarmCacheSkipsProvider(t *testing.T) {
	dir := t.TempDir()
	input := "msg(\"Привет\");\n"
	pair := writeSource(t, dir, "warm.pwn", input)

	first := &stubProvider{responses: map[string]string{"Привет": "Hello"}}
	runPipeline(t, dir, []PathPair{pair}, first, Options{BatchSize: 20})

	// Second run over the same cache file: no provider traffic,
	// identical output.
	firstOut, _ := os.ReadFile(pair.Out)

	second := &stubProvider{}
	runPipeline(t, dir, []PathPair{pair}, second, Options{BatchSize: 20})

	if second.calls != 0 {
		t.Errorf("provider called %d times on warm cache, want 0", second.calls)
	}

	secondOut, _ := os.ReadFile(pair.Out)
	if string(firstOut) != string(secondOut) {
		t.Errorf("outputs differ across runs")
	}
}

func TestRunRetranslatesAfterCacheDeleted(t *testing.T) {
	dir := t.TempDir()
	input := "msg(\"Привет, %s\");\n"
	pair := writeSource(t, dir, "redo.pwn", input)

	responses := map[string]string{"Привет, ": "Hello, "}

	runPipeline(t, dir, []PathPair{pair}, &stubProvider{responses: responses}, Options{BatchSize: 20})
	firstOut, _ := os.ReadFile(pair.Out)

	if err := os.Remove(filepath.Join(dir, "cache.json")); err != nil {
		t.Fatal(err)
	}

	redo := &stubProvider{responses: responses}
	runPipeline(t, dir, []PathPair{pair}, redo, Options{BatchSize: 20})

	if redo.calls == 0 {
		t.Error("expected retranslation after cache deletion")
	}

	secondOut, _ := os.ReadFile(pair.Out)
	if string(firstOut) != string(secondOut) {
		t.Errorf("retranslated output not byte-identical")
	}
}

func TestRunProviderFailureKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	input := "err(\"Ошибка\");\n"
	pair := writeSource(t, dir, "fail.pwn", input)

	stub := &stubProvider{fail: true}
	stats, c := runPipeline(t, dir, []PathPair{pair}, stub, Options{BatchSize: 20})

	if stats.FragmentsFailed != 1 {
		t.Errorf("FragmentsFailed = %d, want 1", stats.FragmentsFailed)
	}

	// The cache entry preserves the original text.
	if got, ok := c.Get("Ошибка"); !ok || got != "Ошибка" {
		t.Errorf("cache entry = %q, %v", got, ok)
	}

	got, _ := pawnfile.ReadFile(pair.Out)
	if got != input {
		t.Errorf("output = %q, want unchanged input", got)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "failed.txt"))
	if err != nil {
		t.Fatalf("failed log missing: %v", err)
	}
	if string(raw) != "Ошибка\n" {
		t.Errorf("failed log = %q", string(raw))
	}
}

func TestRunLimitCapsSession(t *testing.T) {
	dir := t.TempDir()
	input := "a(\"Первый\");\nb(\"Второй\");\n"
	pair := writeSource(t, dir, "limit.pwn", input)

	stub := &stubProvider{responses: map[string]string{
		"Первый": "First",
		"Второй": "Second",
	}}
	stats, c := runPipeline(t, dir, []PathPair{pair}, stub, Options{BatchSize: 20, Limit: 1})

	if stats.Pending != 1 {
		t.Errorf("Pending = %d, want 1 after limit", stats.Pending)
	}
	if c.Len() != 1 {
		t.Errorf("cache has %d entries, want 1", c.Len())
	}

	// Only the first literal (in order of appearance) is substituted.
	got, _ := pawnfile.ReadFile(pair.Out)
	want := "a(\"First\");\nb(\"Второй\");\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestScanSourcesCancelled(t *testing.T) {
	// A shutdown signal during the scan phase must surface as an error,
	// not as a partial source list with nil entries.
	dir := t.TempDir()
	var pairs []PathPair
	for i := 0; i < 64; i++ {
		pairs = append(pairs, writeSource(t, dir, fmt.Sprintf("f%d.pwn", i), "x(\"Привет\");\n"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sources, err := ScanSources(ctx, pairs, 2)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if sources != nil {
		t.Errorf("got %d sources, want none", len(sources))
	}
}

func TestGenerateLeavesUncachedVerbatim(t *testing.T) {
	text := `x("один"); /* "два" */ y("three");`
	src := &Source{Text: text, Spans: scanner.Scan(text)}

	out := Generate(src, func(raw string) (string, bool) {
		if raw == "один" {
			return "one", true
		}
		return "", false
	})

	want := `x("one"); /* "два" */ y("three");`
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}
