package translation

import (
	"context"
	"fmt"
	"html"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"pwn-translator/internal/connectivity"
	"pwn-translator/internal/textutil"
)

// Options configures the retry policy of the fragment translator.
type Options struct {
	// MaxRetries bounds attempts per fragment.
	MaxRetries int
	// RetryDelay is the fixed sleep between attempts on transient errors.
	RetryDelay time.Duration
	// WaitInterval is the connectivity poll interval after an
	// unreachable-class error.
	WaitInterval time.Duration
	// FailedLog is the append-only log of fragments that exhausted all
	// retries. Created lazily on first failure.
	FailedLog string
}

// Stats counts the outcome of a TranslateAll call.
type Stats struct {
	// Translated is the number of unique fragments sent to the provider.
	Translated int
	// Failed is the subset that fell back to the original text.
	Failed int
}

// FragmentTranslator translates unique text fragments sequentially,
// retrying transient failures and degrading to the original text when
// retries are exhausted.
type FragmentTranslator struct {
	provider Provider
	probe    *connectivity.Probe
	opts     Options
}

// NewFragmentTranslator wires a provider and a connectivity probe.
func NewFragmentTranslator(provider Provider, probe *connectivity.Probe, opts Options) *FragmentTranslator {
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}
	return &FragmentTranslator{
		provider: provider,
		probe:    probe,
		opts:     opts,
	}
}

// TranslateAll deduplicates the fragments preserving first-appearance
// order and translates each unique one. The returned map covers every
// input fragment; exhausted fragments map to themselves. The only error
// returned is context cancellation.
func (ft *FragmentTranslator) TranslateAll(ctx context.Context, fragments []string) (map[string]string, Stats, error) {
	var stats Stats

	seen := make(map[string]struct{}, len(fragments))
	var unique []string
	for _, f := range fragments {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		unique = append(unique, f)
	}

	result := make(map[string]string, len(unique))
	for i, frag := range unique {
		translated, failed, err := ft.translateOne(ctx, frag)
		if err != nil {
			return nil, stats, err
		}

		result[frag] = translated
		stats.Translated++
		if failed {
			stats.Failed++
		}

		log.Info().
			Int("fragment", i+1).
			Int("total", len(unique)).
			Str("text", textutil.Truncate(frag, 30)).
			Msg("Fragment translated")
	}

	return result, stats, nil
}

// translateOne runs the bounded-retry loop for a single fragment. The
// failed return flags a fallback to the original text.
func (ft *FragmentTranslator) translateOne(ctx context.Context, text string) (string, bool, error) {
	if strings.TrimSpace(text) == "" {
		return text, false, nil
	}

	for attempt := 1; attempt <= ft.opts.MaxRetries; attempt++ {
		translated, err := ft.provider.Translate(ctx, text)
		if err == nil {
			if translated == "" {
				return text, false, nil
			}
			return html.UnescapeString(translated), false, nil
		}

		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}

		log.Warn().
			Err(err).
			Str("text", textutil.Truncate(text, 30)).
			Int("attempt", attempt).
			Int("max", ft.opts.MaxRetries).
			Msg("Translation attempt failed")

		if IsUnreachable(err) {
			// Suspend into the connectivity wait; the attempt counter
			// resumes once the network is back.
			if werr := ft.probe.WaitOnline(ctx, ft.opts.WaitInterval); werr != nil {
				return "", false, werr
			}
		} else {
			select {
			case <-ctx.Done():
				return "", false, ctx.Err()
			case <-time.After(ft.opts.RetryDelay):
			}
		}
	}

	log.Error().
		Str("text", textutil.Truncate(text, 30)).
		Int("attempts", ft.opts.MaxRetries).
		Msg("Translation failed after all retries, keeping original text")

	if err := ft.recordFailure(text); err != nil {
		log.Warn().Err(err).Msg("Could not record failed fragment")
	}

	return text, true, nil
}

// recordFailure appends one fragment per line to the failed log.
func (ft *FragmentTranslator) recordFailure(text string) error {
	if ft.opts.FailedLog == "" {
		return nil
	}

	f, err := os.OpenFile(ft.opts.FailedLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open failed log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(text + "\n"); err != nil {
		return fmt.Errorf("append failed log: %w", err)
	}
	return nil
}
