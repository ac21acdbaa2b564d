package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"jobmatch-engine/internal/config"
)

func bneConfig(id string) config.BNE {
	cfg := config.Default().BNE
	cfg.ClientID = id
	return cfg
}

func TestBNEKeyringAccount(t *testing.T) {
	assert.Equal(t, "jobmatch:bne:abc@test.api.bne.cl", BNEKeyringAccount(bneConfig("abc")))
	assert.Empty(t, BNEKeyringAccount(bneConfig(" ")))
}

func TestBNESecret_RoundTrip(t *testing.T) {
	keyring.MockInit()
	account := BNEKeyringAccount(bneConfig("abc"))

	_, err := GetBNESecret(account)
	assert.ErrorIs(t, err, ErrNotFound)

	require.Error(t, SetBNESecret(account, "  "))
	require.NoError(t, SetBNESecret(account, "s3cret"))

	got, err := GetBNESecret(account)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)

	require.NoError(t, DeleteBNESecret(account))
	require.NoError(t, DeleteBNESecret(account))
	_, err = GetBNESecret(account)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveBNESecret(t *testing.T) {
	keyring.MockInit()
	cfg := bneConfig("abc")

	_, err := ResolveBNESecret(cfg, "")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := ResolveBNESecret(cfg, " from-env ")
	require.NoError(t, err)
	assert.Equal(t, "from-env", got)

	require.NoError(t, SetBNESecret(BNEKeyringAccount(cfg), "from-keychain"))
	got, err = ResolveBNESecret(cfg, "from-env")
	require.NoError(t, err)
	assert.Equal(t, "from-keychain", got)

	got, err = ResolveBNESecret(bneConfig(""), "from-env")
	require.NoError(t, err)
	assert.Equal(t, "from-env", got)
}
