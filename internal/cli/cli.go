package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pwn-translator/internal/cache"
	"pwn-translator/internal/config"
	"pwn-translator/internal/connectivity"
	"pwn-translator/internal/filewalker"
	"pwn-translator/internal/pawnfile"
	"pwn-translator/internal/pipeline"
	"pwn-translator/internal/translation"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd := &cobra.Command{
		Use:   "pwn-translator",
		Short: "Translates Russian text in Pawn string literals to English",
		Long: `Extracts string literals from SA-MP Pawn sources, translates the
Russian fragments while preserving color tags, format specifiers and
escape sequences, and re-emits the file with translations substituted.`,
	}

	rootCmd.AddCommand(translateCmd())
	rootCmd.AddCommand(scanCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func translateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate <input> [output]",
		Short: "Translate literals in a .pwn/.inc file or directory",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := ""
			if len(args) > 1 {
				output = args[1]
			}
			noBackup, _ := cmd.Flags().GetBool("no-backup")
			return runTranslate(args[0], output, noBackup)
		},
	}

	cmd.Flags().Bool("no-backup", false, "skip writing .bak copies of the inputs")

	return cmd
}

func scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <input>",
		Short: "Report literal statistics without translating",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(args[0])
		},
	}
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// openCacheStore selects the persistence backend: PostgreSQL when a
// database URL is configured, the JSON cache file otherwise.
func openCacheStore(ctx context.Context, cfg *config.Config) (cache.Store, func(), error) {
	if cfg.CacheDatabaseURL != "" {
		pg, err := cache.NewPostgresStore(ctx, cfg.CacheDatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Msg("Using PostgreSQL cache store")
		return pg, pg.Close, nil
	}
	return cache.NewFileStore(cfg.CacheFile), func() {}, nil
}

// resolveInputs expands the input argument into (input, output) path
// pairs. A directory is walked for supported sources; a file is taken
// as-is.
func resolveInputs(input, output string) ([]pipeline.PathPair, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}

	if !info.IsDir() {
		out := output
		if out == "" {
			out = defaultOutputPath(input)
		}
		return []pipeline.PathPair{{In: input, Out: out}}, nil
	}

	paths, err := filewalker.Walk(input)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no .pwn/.inc files under %s", input)
	}

	outRoot := output
	if outRoot == "" {
		outRoot = strings.TrimRight(input, string(filepath.Separator)) + "_translated"
	}

	inputAbs, err := filepath.Abs(input)
	if err != nil {
		return nil, fmt.Errorf("resolve input path: %w", err)
	}

	var pairs []pipeline.PathPair
	for _, p := range paths {
		rel, err := filepath.Rel(inputAbs, p)
		if err != nil {
			return nil, fmt.Errorf("compute relative path: %w", err)
		}
		pairs = append(pairs, pipeline.PathPair{In: p, Out: filepath.Join(outRoot, rel)})
	}
	return pairs, nil
}

// defaultOutputPath derives <name>_translated<ext> next to the input.
func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_translated" + ext
}

// runTranslate handles the `translate` command.
func runTranslate(input, output string, noBackup bool) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()

	pairs, err := resolveInputs(input, output)
	if err != nil {
		return err
	}

	if !noBackup {
		for _, pair := range pairs {
			if bak, err := pawnfile.Backup(pair.In); err != nil {
				log.Warn().Err(err).Str("file", pair.In).Msg("Could not create backup")
			} else {
				log.Info().Str("backup", bak).Msg("Backup written")
			}
		}
	}

	store, closeStore, err := openCacheStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	translationCache := cache.New(store)
	if err := translationCache.Load(ctx); err != nil {
		return err
	}

	for _, pair := range pairs {
		if err := os.MkdirAll(filepath.Dir(pair.Out), 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	sources, err := pipeline.ScanSources(ctx, pairs, cfg.WorkerCount)
	if err != nil {
		return err
	}

	probe := connectivity.NewProbe(cfg.ConnectivityAddr, cfg.ConnectivityTimeout)
	provider := translation.NewGoogleClient(cfg.SourceLang, cfg.TargetLang)
	translator := translation.NewFragmentTranslator(provider, probe, translation.Options{
		MaxRetries:   cfg.MaxRetries,
		RetryDelay:   cfg.RetryDelay,
		WaitInterval: cfg.ConnectivityInterval,
		FailedLog:    cfg.FailedLog,
	})

	p := pipeline.New(translationCache, translator, pipeline.Options{
		BatchSize: cfg.BatchSize,
		Limit:     cfg.TranslationLimit,
	})

	stats, err := p.Run(ctx, sources)
	if err != nil {
		return fmt.Errorf("translation run: %w", err)
	}

	log.Info().
		Int("files", stats.Files).
		Int("literals", stats.Literals).
		Int("unique", stats.UniqueLiterals).
		Int("processed", stats.Pending).
		Int("fragments", stats.FragmentsTranslated).
		Int("failed", stats.FragmentsFailed).
		Msg("Translation run complete")

	if stats.FragmentsFailed > 0 {
		log.Warn().Str("log", cfg.FailedLog).Msg("Some fragments failed, see the failure log")
	}

	return nil
}

// runScan handles the `scan` command: statistics only, no network.
func runScan(input string) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()

	pairs, err := resolveInputs(input, "")
	if err != nil {
		return err
	}

	store, closeStore, err := openCacheStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	translationCache := cache.New(store)
	if err := translationCache.Load(ctx); err != nil {
		return err
	}

	sources, err := pipeline.ScanSources(ctx, pairs, cfg.WorkerCount)
	if err != nil {
		return err
	}

	p := pipeline.New(translationCache, nil, pipeline.Options{BatchSize: cfg.BatchSize})
	stats := p.Inspect(sources)

	log.Info().
		Int("files", stats.Files).
		Int("literals", stats.Literals).
		Int("unique", stats.UniqueLiterals).
		Int("cached", stats.CachedBefore).
		Int("pending", stats.Pending).
		Msg("Scan complete")

	return nil
}
