package secrets

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/zalando/go-keyring"

	"jobmatch-engine/internal/config"
)

const (
	// Service groups the app's secrets in the OS keychain.
	KeyringService = "jobmatch"
)

var ErrNotFound = errors.New("BNE client secret not found (set it in the keychain or via JOBMATCH_BNE_CLIENT_SECRET)")

func GetBNESecret(keyringAccount string) (string, error) {
	if strings.TrimSpace(keyringAccount) == "" {
		return "", errors.New("keyring account name is empty")
	}
	secret, err := keyring.Get(KeyringService, keyringAccount)
	if errors.Is(err, keyring.ErrNotFound) || (err == nil && strings.TrimSpace(secret) == "") {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("keyring: %w", err)
	}
	return secret, nil
}

func SetBNESecret(keyringAccount, secret string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(secret) == "" {
		return errors.New("secret is empty")
	}
	return keyring.Set(KeyringService, keyringAccount, secret)
}

func DeleteBNESecret(keyringAccount string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	err := keyring.Delete(KeyringService, keyringAccount)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// BNEKeyringAccount names the keychain entry for a client id and token host,
// e.g. "jobmatch:bne:abc@test.api.bne.cl". It is empty without a client id.
func BNEKeyringAccount(cfg config.BNE) string {
	id := strings.TrimSpace(cfg.ClientID)
	if id == "" {
		return ""
	}
	host := cfg.TokenURL
	if u, err := url.Parse(cfg.TokenURL); err == nil && u.Host != "" {
		host = u.Host
	}
	return fmt.Sprintf("jobmatch:bne:%s@%s", id, host)
}

// ResolveBNESecret prefers the keychain and falls back to envSecret.
func ResolveBNESecret(cfg config.BNE, envSecret string) (string, error) {
	if account := BNEKeyringAccount(cfg); account != "" {
		secret, err := GetBNESecret(account)
		if err == nil {
			return secret, nil
		}
		if !errors.Is(err, ErrNotFound) && strings.TrimSpace(envSecret) == "" {
			return "", err
		}
	}
	if s := strings.TrimSpace(envSecret); s != "" {
		return s, nil
	}
	return "", ErrNotFound
}
