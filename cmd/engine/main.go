package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"jobmatch-engine/internal/config"
	"jobmatch-engine/internal/httpapi"
	"jobmatch-engine/internal/logger"
	"jobmatch-engine/internal/scheduler"
	"jobmatch-engine/internal/store"
)

const dbFileName = "jobmatch.db"

func main() {
	if err := run(); err != nil {
		logger.Fatal().Err(err).Msg("engine stopped")
	}
}

func run() error {
	// Data dir: use env if provided, else local folder.
	defDataDir := os.Getenv("JOBMATCH_DATA_DIR")
	if defDataDir == "" {
		defDataDir = "."
	}

	var (
		dataDir  = pflag.String("data-dir", defDataDir, "directory holding config.yml and the database")
		cfgFlag  = pflag.String("config", "", "config file (default <data-dir>/config.yml)")
		addr     = pflag.String("addr", "", "listen address (default 127.0.0.1:<app.port>)")
		logLevel = pflag.String("log-level", "", "override log.level")
	)
	pflag.Parse()

	if err := os.MkdirAll(*dataDir, 0o755); err != nil {
		return err
	}

	var err error
	userCfgPath := *cfgFlag
	if userCfgPath == "" {
		userCfgPath, err = config.EnsureUserConfig(*dataDir)
		if err != nil {
			return fmt.Errorf("config bootstrap failed: %w", err)
		}
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return cfg, err
		}
		if err := config.OverlayTaxonomy(&cfg, filepath.Join(*dataDir, config.TaxonomyFileName)); err != nil {
			return cfg, err
		}
		cfg, v := config.NormalizeAndValidate(cfg)
		if !v.OK() {
			return cfg, config.Validate(cfg)
		}
		for _, w := range v.Warnings {
			logger.Warn().Str("config", userCfgPath).Msg(w)
		}
		return cfg, nil
	}
	cfg, err := loadCfg()
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", userCfgPath, err)
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	logger.Init(cfg.Log)
	cfgVal.Store(cfg)

	dbPath := filepath.Join(*dataDir, dbFileName)
	unlock, err := store.Lock(dbPath, store.OwnerServer)
	if err != nil {
		return err
	}
	defer unlock()

	db, err := store.OpenAndMigrate(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mux := httpapi.NewMux(httpapi.Deps{
		DB:          db.Pool,
		Catalog:     store.Catalog{DB: db},
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
		NewEngine:   httpapi.EngineFromConfig,
	})

	token := os.Getenv("JOBMATCH_SHUTDOWN_TOKEN")
	if token == "" {
		if token, err = randomToken(16); err != nil {
			return err
		}
	}
	mux.HandleFunc("/shutdown", shutdownHandler(token, stop))

	listen := *addr
	if listen == "" {
		listen = net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.App.Port))
	}
	ln, err := net.Listen("tcp", listen)
	if err != nil {
		return err
	}
	logger.Info().Str("addr", ln.Addr().String()).Str("db", dbPath).Msg("engine listening")
	// Supervisors read the shutdown token from stdout.
	fmt.Printf("SHUTDOWN_TOKEN=%s\n", token)

	srv := &http.Server{
		Handler:           httpapi.Handler(mux, httpapi.NewClientLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if days := cfg.Catalog.RetentionDays; days > 0 {
		g.Go(func() error {
			interval := time.Duration(cfg.Catalog.CleanupIntervalHours) * time.Hour
			scheduler.Every(gctx, interval, "catalog-cleanup", func(ctx context.Context) error {
				n, err := store.CleanupOldPostings(ctx, db.Pool, time.Duration(days)*24*time.Hour, time.Now())
				if err != nil {
					return err
				}
				if n > 0 {
					logger.Info().Int64("deleted", n).Msg("old postings removed")
				}
				return nil
			})
			return nil
		})
	}

	err = g.Wait()
	logger.Info().Msg("engine stopped")
	return err
}
