package httpapi

import (
	"database/sql"
	"sync/atomic"

	"jobmatch-engine/internal/catalog"
	"jobmatch-engine/internal/config"
	"jobmatch-engine/internal/relax"
)

type Deps struct {
	DB      *sql.DB
	Catalog catalog.Source

	// Atomic stores
	CfgVal *atomic.Value // stores config.Config

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// NewEngine builds the search engine for the current config (inject for testability).
	NewEngine func(source catalog.Source, cfg config.Config) (*relax.Engine, error)
}

// EngineFromConfig is the production NewEngine.
func EngineFromConfig(source catalog.Source, cfg config.Config) (*relax.Engine, error) {
	return relax.New(source,
		relax.WithDefaultTopN(cfg.Search.DefaultTopN),
		relax.WithMaxTopN(cfg.Search.MaxTopN),
		relax.WithPoolFactor(cfg.Search.VarietyPoolFactor),
		relax.WithUnfilteredFallback(cfg.Search.FallbackUnfiltered),
	)
}
