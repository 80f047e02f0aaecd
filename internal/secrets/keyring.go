// Package secrets reads Flickr secrets from the system keyring so they do not
// have to live in the config file.
//
// Entries are stored under the service name "flickr-bridge" with these keys:
//
//	shared_secret    legacy shared secret
//	auth_token       legacy auth token
//	consumer_secret  OAuth consumer secret
//	token_secret     OAuth token secret
package secrets

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	flickrbridge "github.com/opengovern/flickr-bridge"
)

// DefaultService is the keyring service name for flickr-bridge entries.
const DefaultService = "flickr-bridge"

// ErrSecretNotFound is returned when the keyring has no entry for a key.
var ErrSecretNotFound = errors.New("secret not found")

// KeyringStore provides access to the system keyring.
// Supported platforms:
//   - macOS: Keychain Access
//   - Linux: Secret Service API (GNOME Keyring, KWallet)
//   - Windows: Credential Manager
type KeyringStore struct {
	service string
}

func NewKeyringStore(service string) *KeyringStore {
	if service == "" {
		service = DefaultService
	}
	return &KeyringStore{service: service}
}

// Get retrieves a secret.
func (k *KeyringStore) Get(key string) (string, error) {
	value, err := keyring.Get(k.service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrSecretNotFound, key)
		}
		return "", fmt.Errorf("keyring error: %w", err)
	}
	return value, nil
}

// Set stores a secret.
func (k *KeyringStore) Set(key, value string) error {
	if err := keyring.Set(k.service, key, value); err != nil {
		return fmt.Errorf("keyring error: %w", err)
	}
	return nil
}

// Delete removes a secret.
func (k *KeyringStore) Delete(key string) error {
	if err := keyring.Delete(k.service, key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrSecretNotFound, key)
		}
		return fmt.Errorf("keyring error: %w", err)
	}
	return nil
}

// FillCredentials sets every empty secret of creds that the keyring holds.
// Missing entries are skipped; other keyring errors are returned.
func (k *KeyringStore) FillCredentials(creds *flickrbridge.Credentials) error {
	if creds.Legacy != nil {
		if err := k.fill(&creds.Legacy.SharedSecret, "shared_secret"); err != nil {
			return err
		}
		if err := k.fill(&creds.Legacy.AuthToken, "auth_token"); err != nil {
			return err
		}
	}
	if creds.OAuth != nil {
		if err := k.fill(&creds.OAuth.ConsumerSecret, "consumer_secret"); err != nil {
			return err
		}
		if err := k.fill(&creds.OAuth.TokenSecret, "token_secret"); err != nil {
			return err
		}
	}
	return nil
}

func (k *KeyringStore) fill(dst *string, key string) error {
	if *dst != "" {
		return nil
	}
	value, err := k.Get(key)
	if errors.Is(err, ErrSecretNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	*dst = value
	return nil
}
