package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"jobmatch-engine/internal/config"
	"jobmatch-engine/internal/secrets"
)

func secretsServer(t *testing.T, clientID string) http.Handler {
	t.Helper()
	keyring.MockInit()

	cfg := config.Default()
	cfg.BNE.ClientID = clientID
	var cfgVal atomic.Value
	cfgVal.Store(cfg)
	return Handler(NewMux(Deps{CfgVal: &cfgVal}), nil)
}

func sendLocal(h http.Handler, method, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/secrets/bne", strings.NewReader(body))
	req.RemoteAddr = "127.0.0.1:40000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSecretsBNE_Lifecycle(t *testing.T) {
	h := secretsServer(t, "client-1")

	rec := sendLocal(h, http.MethodGet, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"configured":false}`, rec.Body.String())

	rec = sendLocal(h, http.MethodPut, `{"client_secret":"s3cret"}`)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = sendLocal(h, http.MethodGet, "")
	assert.JSONEq(t, `{"configured":true}`, rec.Body.String())

	account := secrets.BNEKeyringAccount(config.BNE{ClientID: "client-1", TokenURL: config.Default().BNE.TokenURL})
	got, err := secrets.GetBNESecret(account)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)

	rec = sendLocal(h, http.MethodDelete, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = sendLocal(h, http.MethodGet, "")
	assert.JSONEq(t, `{"configured":false}`, rec.Body.String())
}

func TestSecretsBNE_Rejections(t *testing.T) {
	t.Run("empty secret", func(t *testing.T) {
		h := secretsServer(t, "client-1")
		rec := sendLocal(h, http.MethodPut, `{"client_secret":"  "}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no client id", func(t *testing.T) {
		h := secretsServer(t, "")
		rec := sendLocal(h, http.MethodGet, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "client_id")
	})

	t.Run("remote caller", func(t *testing.T) {
		h := secretsServer(t, "client-1")
		req := httptest.NewRequest(http.MethodPut, "/secrets/bne", strings.NewReader(`{"client_secret":"x"}`))
		req.RemoteAddr = "192.0.2.10:5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
