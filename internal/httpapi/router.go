package httpapi

import "net/http"

// NewMux registers every route. Middleware is applied by the caller.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	newEngine := d.NewEngine
	if newEngine == nil {
		newEngine = EngineFromConfig
	}

	// Search
	srh := SearchHandler{Source: d.Catalog, CfgVal: d.CfgVal, NewEngine: newEngine}
	mux.HandleFunc("/api/search", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: srh.Search,
	}))

	// Jobs
	jh := JobsHandler{DB: d.DB}
	mux.HandleFunc("/jobs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.List,
	}))
	mux.HandleFunc("/jobs/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:    jh.GetByPath,    // expects /jobs/{id}
		http.MethodDelete: jh.DeleteByPath, // expects /jobs/{id}
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// Secrets
	sh := SecretsHandler{CfgVal: d.CfgVal}
	mux.HandleFunc("/secrets/bne", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:    sh.GetBNE,
		http.MethodPut:    sh.SetBNE,
		http.MethodDelete: sh.DeleteBNE,
	}))

	// Health
	hh := HealthHandler{DB: d.DB}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	// DB maintenance
	dh := DBHandler{DB: d.DB}
	mux.HandleFunc("/db/checkpoint", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: dh.Checkpoint,
	}))

	return mux
}

// Handler wraps mux with the standard middleware chain.
func Handler(mux http.Handler, limiter *ClientLimiter) http.Handler {
	return Chain(mux, Cors, RequestID, Recover, AccessLog, RateLimit(limiter))
}
