package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"jobmatch-engine/internal/textutil"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a copy with taxonomy lists trimmed and
// deduplicated, plus what is wrong with it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	out.Taxonomy = out.Taxonomy.Normalized()
	out.Log.Level = strings.ToLower(strings.TrimSpace(out.Log.Level))
	out.Log.Format = strings.ToLower(strings.TrimSpace(out.Log.Format))

	// ---- Validation rules ----

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if out.Log.Level != "" {
		if _, err := zerolog.ParseLevel(out.Log.Level); err != nil {
			res.addErr("log.level %q is not a known level", out.Log.Level)
		}
	}
	switch out.Log.Format {
	case "", "json", "pretty":
	default:
		res.addErr("log.format must be json or pretty, got %q", out.Log.Format)
	}

	// search sanity
	if out.Search.DefaultTopN <= 0 {
		res.addErr("search.default_top_n must be > 0")
	}
	if out.Search.MaxTopN < out.Search.DefaultTopN {
		res.addErr("search.max_top_n (%d) must be >= search.default_top_n (%d)", out.Search.MaxTopN, out.Search.DefaultTopN)
	}
	if out.Search.VarietyPoolFactor <= 0 {
		res.addErr("search.variety_pool_factor must be > 0")
	}
	if out.Search.FallbackUnfiltered {
		res.addWarn("search.fallback_unfiltered is on; exhausted searches return unrelated postings.")
	}

	if out.RateLimit.RequestsPerSecond < 0 || out.RateLimit.Burst < 0 {
		res.addErr("rate_limit values must be >= 0")
	} else if out.RateLimit.RequestsPerSecond > 0 && out.RateLimit.Burst == 0 {
		res.addErr("rate_limit.burst must be > 0 when requests_per_second is set")
	} else if out.RateLimit.RequestsPerSecond == 0 {
		res.addWarn("rate_limit.requests_per_second is 0; rate limiting is disabled.")
	}

	// catalog retention
	if out.Catalog.RetentionDays < 0 {
		res.addErr("catalog.retention_days must be >= 0")
	} else if out.Catalog.RetentionDays == 0 {
		res.addWarn("catalog.retention_days is 0; old postings are never cleaned up.")
	}
	if out.Catalog.RetentionDays > 0 && out.Catalog.CleanupIntervalHours <= 0 {
		res.addErr("catalog.cleanup_interval_hours must be > 0")
	}

	// taxonomy
	if len(out.Taxonomy.Modalities) == 0 {
		res.addWarn("taxonomy.modalities is empty; modality can only be detected through synonyms.")
	}
	if len(out.Taxonomy.Industries) == 0 && len(out.Taxonomy.Areas) == 0 {
		res.addWarn("taxonomy.industries and taxonomy.areas are empty; they will come from the catalog only.")
	}
	mods := map[string]bool{}
	for _, m := range out.Taxonomy.Modalities {
		mods[textutil.Fold(m)] = true
	}
	for _, s := range out.Taxonomy.Seniorities {
		if mods[textutil.Fold(s)] {
			res.addWarn("value appears as both modality and seniority: %q", s)
		}
	}

	// bne
	out.BNE.ClientID = strings.TrimSpace(out.BNE.ClientID)
	for _, f := range []struct{ name, raw string }{
		{"bne.token_url", out.BNE.TokenURL},
		{"bne.jobs_url", out.BNE.JobsURL},
	} {
		name, raw := f.name, f.raw
		if u, err := url.Parse(raw); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			res.addErr("%s must be an absolute http(s) URL, got %q", name, raw)
		}
	}
	if out.BNE.PageSize <= 0 || out.BNE.PageSize > 1000 {
		res.addErr("bne.page_size must be 1..1000")
	}
	if out.BNE.MaxPages <= 0 {
		res.addErr("bne.max_pages must be > 0")
	}
	if out.BNE.TimeoutSeconds <= 0 {
		res.addErr("bne.timeout_seconds must be > 0")
	}
	if out.BNE.RequestsPerSecond < 0 {
		res.addErr("bne.requests_per_second must be >= 0")
	}

	return out, res
}
