// Package credentials persists the OAuth token, either in token.json or
// in the system keyring.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"
	"golang.org/x/oauth2"

	"tasky/internal/config"
)

// ErrNoToken is returned when no token has been stored.
var ErrNoToken = errors.New("not logged in")

// ErrNoClient is returned when oauth_client.json is missing.
var ErrNoClient = errors.New(config.OAuthClientFile + " not found")

// Store loads, saves and removes the OAuth token.
type Store interface {
	Load() (*oauth2.Token, error)
	Save(token *oauth2.Token) error
	Delete() error
}

// New returns the store selected by cfg.
func New(cfg *config.Config) Store {
	if cfg.Settings.TokenStore == config.TokenStoreKeyring {
		return &KeyringStore{Service: config.AppName, User: "oauth-token"}
	}
	return &FileStore{Path: cfg.TokenPath()}
}

// FileStore keeps the token as JSON in a file with mode 0600.
type FileStore struct {
	Path string
}

func (s *FileStore) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}
	return decode(data)
}

func (s *FileStore) Save(token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, data, 0600)
}

func (s *FileStore) Delete() error {
	err := os.Remove(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return ErrNoToken
	}
	return err
}

// KeyringStore keeps the token as JSON in the system keyring.
type KeyringStore struct {
	Service string
	User    string
}

func (s *KeyringStore) Load() (*oauth2.Token, error) {
	secret, err := keyring.Get(s.Service, s.User)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token from keyring: %w", err)
	}
	return decode([]byte(secret))
}

func (s *KeyringStore) Save(token *oauth2.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}
	if err := keyring.Set(s.Service, s.User, string(data)); err != nil {
		return fmt.Errorf("failed to store token in keyring: %w", err)
	}
	return nil
}

func (s *KeyringStore) Delete() error {
	err := keyring.Delete(s.Service, s.User)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNoToken
	}
	return err
}

func decode(data []byte) (*oauth2.Token, error) {
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return &token, nil
}
