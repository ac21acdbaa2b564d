package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/pflag"

	"jobmatch-engine/internal/config"
	"jobmatch-engine/internal/ingest"
	"jobmatch-engine/internal/ingest/bne"
	"jobmatch-engine/internal/logger"
	"jobmatch-engine/internal/secrets"
	"jobmatch-engine/internal/store"
)

const secretEnv = "JOBMATCH_BNE_CLIENT_SECRET"

func main() {
	if err := run(); err != nil {
		logger.Fatal().Err(err).Msg("import failed")
	}
}

func run() error {
	defDataDir := os.Getenv("JOBMATCH_DATA_DIR")
	if defDataDir == "" {
		defDataDir = "."
	}

	var (
		dataDir      = pflag.String("data-dir", defDataDir, "directory holding config.yml and the database")
		cfgFlag      = pflag.String("config", "", "config file (default <data-dir>/config.yml)")
		dbPath       = pflag.String("db", "", "database file (default <data-dir>/jobmatch.db)")
		computrabajo = pflag.String("computrabajo", "", "Computrabajo JSONL export")
		laborum      = pflag.String("laborum", "", "Laborum JSONL export")
		useBNE       = pflag.Bool("bne", false, "import active offerings from the BNE API")
		bneOffset    = pflag.Int("bne-offset", 0, "first offering to fetch")
		bnePageSize  = pflag.Int("bne-page-size", 0, "offerings per request (default bne.page_size)")
		bnePages     = pflag.Int("bne-pages", 0, "maximum pages to fetch (default bne.max_pages)")
		storeSecret  = pflag.Bool("bne-store-secret", false, "save $"+secretEnv+" in the OS keychain and exit")
		logLevel     = pflag.String("log-level", "info", "log level")
		logFormat    = pflag.String("log-format", "pretty", "json or pretty")
	)
	pflag.Parse()

	logger.Init(logger.Config{Level: *logLevel, Format: *logFormat})

	cfgPath := *cfgFlag
	if cfgPath == "" {
		cfgPath = filepath.Join(*dataDir, config.FileName)
	}
	cfg, err := loadConfig(cfgPath, *dataDir)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", cfgPath, err)
	}

	if *storeSecret {
		account := secrets.BNEKeyringAccount(cfg.BNE)
		if account == "" {
			return errors.New("bne.client_id is not configured")
		}
		if err := secrets.SetBNESecret(account, os.Getenv(secretEnv)); err != nil {
			return fmt.Errorf("store secret: %w", err)
		}
		fmt.Printf("OK secret stored as %s\n", account)
		return nil
	}

	var files []ingest.File
	if *computrabajo != "" {
		files = append(files, ingest.File{Path: *computrabajo, Source: "Computrabajo"})
	}
	if *laborum != "" {
		files = append(files, ingest.File{Path: *laborum, Source: "Laborum"})
	}
	if len(files) == 0 && !*useBNE {
		pflag.Usage()
		return errors.New("nothing to import: pass --computrabajo, --laborum and/or --bne")
	}

	var client *bne.Client
	if *useBNE {
		if cfg.BNE.ClientID == "" {
			return errors.New("bne.client_id is not configured")
		}
		secret, err := secrets.ResolveBNESecret(cfg.BNE, os.Getenv(secretEnv))
		if err != nil {
			return err
		}
		client = bne.NewClient(cfg.BNE, secret)
	}

	path := *dbPath
	if path == "" {
		if err := os.MkdirAll(*dataDir, 0o755); err != nil {
			return err
		}
		path = filepath.Join(*dataDir, "jobmatch.db")
	}

	unlock, err := store.Lock(path, store.OwnerImporter)
	if err != nil {
		return err
	}
	defer unlock()

	db, err := store.OpenAndMigrate(path)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(files) > 0 {
		stats, err := ingest.NewImporter(db.Pool).ImportAll(ctx, files...)
		if err != nil {
			return err
		}
		for _, f := range files {
			st := stats[f.Source]
			fmt.Printf("OK %s: %d read, %d added, %d skipped, %d invalid\n", f.Source, st.Read, st.Added, st.Skipped, st.Invalid)
		}
	}

	if client != nil {
		opts := bne.Options{Offset: *bneOffset, PageSize: cfg.BNE.PageSize, MaxPages: cfg.BNE.MaxPages}
		if *bnePageSize > 0 {
			opts.PageSize = *bnePageSize
		}
		if *bnePages > 0 {
			opts.MaxPages = *bnePages
		}
		im := bne.NewImporter(client, db.Pool, bne.NewClassifier(cfg.Taxonomy))
		st, err := im.Run(ctx, opts)
		if err != nil {
			return err
		}
		fmt.Printf("OK %s: %d pages, %d fetched, %d created, %d updated, %d invalid\n",
			bne.SourceName, st.Pages, st.Fetched, st.Created, st.Updated, st.Invalid)
	}
	return nil
}

// loadConfig reads cfgPath when it exists and the taxonomy overlay next to
// the database. A missing config file means defaults.
func loadConfig(cfgPath, dataDir string) (config.Config, error) {
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return cfg, err
	}
	if err := config.OverlayTaxonomy(&cfg, filepath.Join(dataDir, config.TaxonomyFileName)); err != nil {
		return cfg, err
	}
	cfg, v := config.NormalizeAndValidate(cfg)
	if !v.OK() {
		return cfg, config.Validate(cfg)
	}
	return cfg, nil
}
