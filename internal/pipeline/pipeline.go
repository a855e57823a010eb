// Package pipeline drives the batch translation loop: select pending
// literals, translate their fragments, reconstruct, and checkpoint the
// cache and output files.
package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"pwn-translator/internal/cache"
	"pwn-translator/internal/pawnfile"
	"pwn-translator/internal/reconstruct"
	"pwn-translator/internal/splitter"
	"pwn-translator/internal/textutil"
	"pwn-translator/internal/translation"
	"pwn-translator/internal/worker"
)

// Options configures the batch loop.
type Options struct {
	// BatchSize is the number of literals processed between checkpoints.
	BatchSize int
	// Limit caps how many pending literals one run processes (0 = all).
	Limit int
}

// Stats summarizes one run.
type Stats struct {
	Files               int
	Literals            int
	UniqueLiterals      int
	CachedBefore        int
	Pending             int
	FragmentsTranslated int
	FragmentsFailed     int
}

// Pipeline owns the single-writer translation loop. Provider traffic
// and cache writes are strictly sequential.
type Pipeline struct {
	cache      *cache.TranslationCache
	translator *translation.FragmentTranslator
	opts       Options
}

// New assembles a pipeline.
func New(c *cache.TranslationCache, ft *translation.FragmentTranslator, opts Options) *Pipeline {
	if opts.BatchSize < 1 {
		opts.BatchSize = 1
	}
	return &Pipeline{cache: c, translator: ft, opts: opts}
}

// Run translates all pending literals of the given sources and writes
// the output files. Output is regenerated at every checkpoint and once
// more at the end, so an interrupted run leaves a usable partial result.
func (p *Pipeline) Run(ctx context.Context, sources []*Source) (*Stats, error) {
	stats := p.collectStats(sources)
	pending := p.pendingLiterals(sources)

	if p.opts.Limit > 0 && len(pending) > p.opts.Limit {
		log.Info().
			Int("pending", len(pending)).
			Int("limit", p.opts.Limit).
			Msg("Translation limit applied")
		pending = pending[:p.opts.Limit]
	}
	stats.Pending = len(pending)

	log.Info().
		Int("unique", stats.UniqueLiterals).
		Int("cached", stats.CachedBefore).
		Int("pending", stats.Pending).
		Msg("Translation plan")

	batches := worker.Batch(pending, p.opts.BatchSize)
	for bi, batch := range batches {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		log.Info().
			Int("batch", bi+1).
			Int("total_batches", len(batches)).
			Int("size", len(batch)).
			Msg("Processing batch")

		translated, err := p.processBatch(ctx, batch, stats)
		if err != nil {
			return stats, err
		}

		if translated > 0 {
			if err := p.checkpoint(ctx, sources); err != nil {
				return stats, err
			}
		}
	}

	// Final checkpoint covers the nothing-pending path too: a run with a
	// warm cache still regenerates the output files.
	if err := p.checkpoint(ctx, sources); err != nil {
		return stats, err
	}

	return stats, nil
}

// processBatch translates one batch of literals: fragments are
// deduplicated across the whole batch, translated once each, and every
// literal is rebuilt from the shared fragment map. The map dies with
// the batch; only finished literals reach the cache.
func (p *Pipeline) processBatch(ctx context.Context, batch []string, stats *Stats) (int, error) {
	tokensByLiteral := make(map[string][]splitter.Token, len(batch))
	var fragments []string
	var translatable []string

	for _, raw := range batch {
		tokens := splitter.Split(raw)
		frags := splitter.Fragments(tokens)
		if len(frags) == 0 {
			// Cyrillic only inside code tokens; nothing to translate.
			continue
		}
		tokensByLiteral[raw] = tokens
		fragments = append(fragments, frags...)
		translatable = append(translatable, raw)
	}

	if len(fragments) == 0 {
		return 0, nil
	}

	fragMap, tstats, err := p.translator.TranslateAll(ctx, fragments)
	if err != nil {
		return 0, err
	}
	stats.FragmentsTranslated += tstats.Translated
	stats.FragmentsFailed += tstats.Failed

	for _, raw := range translatable {
		final := reconstruct.Rebuild(tokensByLiteral[raw], fragMap)
		p.cache.Set(raw, final)
		log.Debug().
			Str("literal", textutil.Truncate(raw, 40)).
			Msg("Literal reconstructed")
	}

	return tstats.Translated, nil
}

// Inspect computes run statistics without translating anything. Used by
// the dry-run scan command.
func (p *Pipeline) Inspect(sources []*Source) *Stats {
	stats := p.collectStats(sources)
	stats.Pending = len(p.pendingLiterals(sources))
	return stats
}

// pendingLiterals returns the unique literals that contain Cyrillic and
// are not yet cached, in order of first appearance across the sources.
func (p *Pipeline) pendingLiterals(sources []*Source) []string {
	seen := make(map[string]struct{})
	var pending []string

	for _, src := range sources {
		for _, raw := range src.Literals() {
			if _, dup := seen[raw]; dup {
				continue
			}
			seen[raw] = struct{}{}

			if !textutil.ContainsCyrillic(raw) {
				continue
			}
			if _, cached := p.cache.Get(raw); cached {
				continue
			}
			pending = append(pending, raw)
		}
	}

	return pending
}

// collectStats counts literals before translation starts.
func (p *Pipeline) collectStats(sources []*Source) *Stats {
	stats := &Stats{Files: len(sources)}

	seen := make(map[string]struct{})
	for _, src := range sources {
		for _, raw := range src.Literals() {
			stats.Literals++
			if _, dup := seen[raw]; dup {
				continue
			}
			seen[raw] = struct{}{}
			stats.UniqueLiterals++
			if _, cached := p.cache.Get(raw); cached {
				stats.CachedBefore++
			}
		}
	}

	return stats
}

// checkpoint flushes the cache store and regenerates every output file
// from the current cache state.
func (p *Pipeline) checkpoint(ctx context.Context, sources []*Source) error {
	if err := p.cache.Flush(ctx); err != nil {
		return err
	}

	for _, src := range sources {
		out := Generate(src, p.cache.Get)
		if err := pawnfile.WriteFile(src.OutPath, out); err != nil {
			return fmt.Errorf("generate %s: %w", src.OutPath, err)
		}
	}

	log.Info().Int("entries", p.cache.Len()).Msg("Checkpoint written")
	return nil
}
