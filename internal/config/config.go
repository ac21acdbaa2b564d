package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"

	"jobmatch-engine/internal/logger"
	"jobmatch-engine/internal/query"
)

const FileName = "config.yml"

type App struct {
	Port    int    `yaml:"port" json:"port"`
	DataDir string `yaml:"data_dir" json:"data_dir"`
}

type Search struct {
	DefaultTopN        int  `yaml:"default_top_n" json:"default_top_n"`
	MaxTopN            int  `yaml:"max_top_n" json:"max_top_n"`
	VarietyPoolFactor  int  `yaml:"variety_pool_factor" json:"variety_pool_factor"`
	FallbackUnfiltered bool `yaml:"fallback_unfiltered" json:"fallback_unfiltered"`
}

type RateLimit struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int     `yaml:"burst" json:"burst"`
}

type Catalog struct {
	RetentionDays        int `yaml:"retention_days" json:"retention_days"`
	CleanupIntervalHours int `yaml:"cleanup_interval_hours" json:"cleanup_interval_hours"`
}

// BNE is the Bolsa Nacional de Empleo job-offerings API. The client secret
// lives in the OS keychain, never in this file.
type BNE struct {
	TokenURL          string  `yaml:"token_url" json:"token_url"`
	JobsURL           string  `yaml:"jobs_url" json:"jobs_url"`
	ClientID          string  `yaml:"client_id" json:"client_id"`
	PageSize          int     `yaml:"page_size" json:"page_size"`
	MaxPages          int     `yaml:"max_pages" json:"max_pages"`
	TimeoutSeconds    int     `yaml:"timeout_seconds" json:"timeout_seconds"`
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
}

type Config struct {
	App       App            `yaml:"app" json:"app"`
	Log       logger.Config  `yaml:"log" json:"log"`
	Search    Search         `yaml:"search" json:"search"`
	RateLimit RateLimit      `yaml:"rate_limit" json:"rate_limit"`
	Catalog   Catalog        `yaml:"catalog" json:"catalog"`
	Taxonomy  query.Taxonomy `yaml:"taxonomy" json:"taxonomy"`
	BNE       BNE            `yaml:"bne" json:"bne"`
}

func Default() Config {
	return Config{
		App:       App{Port: 8080},
		Log:       logger.Config{Level: "info", Format: "json"},
		Search:    Search{DefaultTopN: 3, MaxTopN: 50, VarietyPoolFactor: 10},
		RateLimit: RateLimit{RequestsPerSecond: 5, Burst: 10},
		Catalog:   Catalog{RetentionDays: 90, CleanupIntervalHours: 24},
		Taxonomy:  query.DefaultTaxonomy(),
		BNE: BNE{
			TokenURL:          "https://test.api.bne.cl/token",
			JobsURL:           "https://test.api.bne.cl/JobOfferingsService/v1/1.0.0/jobofferings/active",
			PageSize:          100,
			MaxPages:          10,
			TimeoutSeconds:    60,
			RequestsPerSecond: 0.5,
		},
	}
}

// Load reads path over the defaults; keys missing from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}
