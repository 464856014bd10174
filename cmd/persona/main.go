package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/cognicore/persona/internal/config"
	"github.com/cognicore/persona/internal/logger"
	"github.com/cognicore/persona/internal/reddit"
	"github.com/cognicore/persona/pkg/persona"
	"github.com/cognicore/persona/pkg/persona/activity"
	"github.com/cognicore/persona/pkg/persona/ident"
	"github.com/cognicore/persona/pkg/persona/internalerr"
	"github.com/cognicore/persona/pkg/persona/report"
	"github.com/cognicore/persona/pkg/persona/store"
	"github.com/cognicore/persona/pkg/persona/store/file"
	"github.com/cognicore/persona/pkg/persona/store/memstore"
	"github.com/cognicore/persona/pkg/persona/store/sqlite"
	"github.com/cognicore/persona/pkg/persona/taxonomy"
)

type options struct {
	configPath   string
	user         string
	inputPath    string
	dumpPath     string
	taxonomyPath string
	outDir       string
	print        bool
}

func main() {
	// A .env file is optional; its values only fill variables not already set.
	_ = godotenv.Load()

	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Config file (optional, env and defaults otherwise)")
	flag.StringVar(&opts.user, "user", "", "Reddit profile URL or username (prompted when empty)")
	flag.StringVar(&opts.inputPath, "input", "", "Analyze a JSONL snapshot instead of fetching")
	flag.StringVar(&opts.dumpPath, "dump", "", "Write the fetched snapshot to this JSONL file")
	flag.StringVar(&opts.taxonomyPath, "taxonomy", "", "Taxonomy file (overrides config)")
	flag.StringVar(&opts.outDir, "out", "", "Report directory (overrides config)")
	flag.BoolVar(&opts.print, "print", false, "Also print the report to stdout")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, os.Stdin, os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, opts options, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.taxonomyPath != "" {
		cfg.Taxonomy = opts.taxonomyPath
	}
	if opts.outDir != "" {
		cfg.Store.Dir = opts.outDir
	}

	lg, closeLog, err := logger.New(cfg.Log.Level, cfg.Log.File, stderr)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closeLog()

	a, cleanup, err := buildApp(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer cleanup()

	snap, err := loadSnapshot(ctx, a, opts, stdin, stdout)
	if err != nil {
		return err
	}

	p, err := a.analyzer.Analyze(ctx, snap)
	if err != nil {
		return fmt.Errorf("generate persona: %w", err)
	}

	body := report.Render(p)
	saved, err := a.store.Save(ctx, store.Report{
		Username:        p.Account.Username,
		GeneratedAt:     p.GeneratedAt,
		TaxonomyVersion: p.TaxonomyVersion,
		Body:            body,
		Citations:       p.Citations,
	})
	if err != nil {
		return fmt.Errorf("save persona: %w", err)
	}

	if opts.print {
		fmt.Fprintln(stdout, body)
	}
	fmt.Fprintf(stdout, "\nPersona generated successfully!\nSaved to: %s\n", saved.Location)
	return nil
}

// fetcher is satisfied by *reddit.Client.
type fetcher interface {
	FetchSnapshot(ctx context.Context, username string) (activity.Snapshot, error)
}

type app struct {
	analyzer *persona.Analyzer
	store    store.Store
	fetch    fetcher
	log      logrus.FieldLogger
}

func buildApp(ctx context.Context, cfg *config.Config, lg *logrus.Logger) (*app, func(), error) {
	tax := taxonomy.Default()
	if cfg.Taxonomy != "" {
		loaded, err := taxonomy.Load(cfg.Taxonomy)
		if err != nil {
			return nil, nil, fmt.Errorf("load taxonomy: %w", err)
		}
		tax = loaded
	}

	analyzer, err := persona.New(persona.Options{
		Taxonomy:       tax,
		Logger:         lg,
		Sequential:     cfg.Analysis.Sequential,
		NormalizeInput: cfg.Analysis.Normalize,
	})
	if err != nil {
		return nil, nil, err
	}

	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	a := &app{
		analyzer: analyzer,
		store:    st,
		fetch:    reddit.New(cfg.Reddit, lg),
		log:      lg,
	}
	cleanup := func() {
		if err := st.Close(); err != nil {
			lg.WithError(err).Warn("close store")
		}
	}
	return a, cleanup, nil
}

func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		dsn := cfg.DSN
		if !filepath.IsAbs(dsn) && cfg.Dir != "" {
			dsn = filepath.Join(cfg.Dir, dsn)
		}
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, err
		}
		return sqlite.OpenSQLite(ctx, dsn)
	case config.DriverMemory:
		return memstore.New(), nil
	case config.DriverFile, "":
		return file.Open(cfg.Dir)
	default:
		return nil, fmt.Errorf("%w: unknown store driver %q", internalerr.ErrInvalidConfig, cfg.Driver)
	}
}

func loadSnapshot(ctx context.Context, a *app, opts options, stdin io.Reader, stdout io.Writer) (activity.Snapshot, error) {
	if opts.inputPath != "" {
		snap, err := activity.ReadSnapshot(opts.inputPath)
		if err != nil {
			return activity.Snapshot{}, err
		}
		a.log.WithFields(logrus.Fields{
			"user":    snap.Account.Username,
			"records": len(snap.Records),
		}).Info("loaded snapshot")
		return snap, nil
	}

	ref := opts.user
	if ref == "" {
		fmt.Fprint(stdout, "Enter Reddit profile URL or username: ")
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return activity.Snapshot{}, err
		}
		ref = strings.TrimSpace(line)
	}

	username := ident.Username(ref)
	if username == "" {
		return activity.Snapshot{}, fmt.Errorf("%w: could not extract username from %q", internalerr.ErrInvalidInput, ref)
	}
	fmt.Fprintf(stdout, "\nAnalyzing user: u/%s\n", username)

	snap, err := a.fetch.FetchSnapshot(ctx, username)
	if err != nil {
		return activity.Snapshot{}, err
	}
	if opts.dumpPath != "" {
		if err := activity.WriteSnapshot(opts.dumpPath, snap); err != nil {
			return activity.Snapshot{}, fmt.Errorf("dump snapshot: %w", err)
		}
	}
	return snap, nil
}
