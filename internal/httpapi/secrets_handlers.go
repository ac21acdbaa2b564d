package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"

	"jobmatch-engine/internal/config"
	"jobmatch-engine/internal/logger"
	"jobmatch-engine/internal/secrets"
)

// SecretsHandler manages the BNE client secret in the OS keychain. The
// keychain entry is named after the configured client id, so a client id
// must be set first. Only loopback callers are served.
type SecretsHandler struct {
	CfgVal *atomic.Value // stores config.Config
}

type setBNESecretReq struct {
	ClientSecret string `json:"client_secret"`
}

func (h SecretsHandler) account(w http.ResponseWriter, r *http.Request) (string, bool) {
	if !fromLoopback(r) {
		WriteError(w, r, http.StatusForbidden, codeForbidden, "secrets are only available from localhost")
		return "", false
	}
	cfg := h.CfgVal.Load().(config.Config)
	account := secrets.BNEKeyringAccount(cfg.BNE)
	if account == "" {
		WriteError(w, r, http.StatusBadRequest, codeBadRequest, "bne.client_id is not configured")
		return "", false
	}
	return account, true
}

func (h SecretsHandler) GetBNE(w http.ResponseWriter, r *http.Request) {
	account, ok := h.account(w, r)
	if !ok {
		return
	}
	_, err := secrets.GetBNESecret(account)
	switch {
	case errors.Is(err, secrets.ErrNotFound):
		writeJSON(w, map[string]bool{"configured": false})
	case err != nil:
		WriteError(w, r, http.StatusInternalServerError, codeInternal, err.Error())
	default:
		writeJSON(w, map[string]bool{"configured": true})
	}
}

func (h SecretsHandler) SetBNE(w http.ResponseWriter, r *http.Request) {
	account, ok := h.account(w, r)
	if !ok {
		return
	}
	var req setBNESecretReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, codeBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := secrets.SetBNESecret(account, req.ClientSecret); err != nil {
		WriteError(w, r, http.StatusBadRequest, codeBadRequest, "failed to store secret: "+err.Error())
		return
	}
	logger.Ctx(r.Context()).Info().Str("account", account).Msg("bne secret stored")
	w.WriteHeader(http.StatusNoContent)
}

func (h SecretsHandler) DeleteBNE(w http.ResponseWriter, r *http.Request) {
	account, ok := h.account(w, r)
	if !ok {
		return
	}
	if err := secrets.DeleteBNESecret(account); err != nil {
		WriteError(w, r, http.StatusInternalServerError, codeInternal, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
