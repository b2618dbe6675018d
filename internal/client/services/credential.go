// Package services contains the application services of the duread client.
// This file defines the credential service: the API key encrypted at rest
// under a passphrase, and its decrypted form cached for the session.
package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/techurbanist/duread/internal/client/session"
	"github.com/techurbanist/duread/internal/common"
	"github.com/techurbanist/duread/internal/cryptox"
)

// CredentialStatus is what the status line shows about the API key.
type CredentialStatus string

const (
	CredentialNone     CredentialStatus = "none"
	CredentialLocked   CredentialStatus = "locked"
	CredentialUnlocked CredentialStatus = "unlocked"
)

func (s CredentialStatus) String() string {
	switch s {
	case CredentialLocked:
		return "API key configured (locked)"
	case CredentialUnlocked:
		return "API key configured (unlocked)"
	default:
		return "No API key configured"
	}
}

// SettingsStore is the part of the document store the credential service
// needs.
type SettingsStore interface {
	GetSetting(ctx context.Context, key string) (string, bool, error)
	SetSetting(ctx context.Context, key, value string) error
	ClearSettings(ctx context.Context) error
}

// CredentialService manages the API key.
//
// Contract:
//   - Save: validate, encrypt under the passphrase, store and unlock.
//   - Unlock: decrypt the stored key; common.ErrCredentialMissing when none
//     is stored, common.ErrInvalidPassphrase on any decryption failure.
//   - Restore: pick up a key already unlocked earlier in this session.
//   - Forget: wipe every setting and the session copy.
//   - APIKey: the plaintext key, only while unlocked.
type CredentialService interface {
	Save(ctx context.Context, apiKey string, passphrase []byte) error
	Unlock(ctx context.Context, passphrase []byte) error
	Restore() bool
	Forget(ctx context.Context) error
	Status(ctx context.Context) (CredentialStatus, error)
	APIKey() (string, bool)
}

type credentialService struct {
	store SettingsStore
	cache session.Cache

	mu     sync.RWMutex
	apiKey string
}

func NewCredentialService(store SettingsStore, cache session.Cache) CredentialService {
	return &credentialService{store: store, cache: cache}
}

func (c *credentialService) setKey(key string) {
	c.mu.Lock()
	c.apiKey = key
	c.mu.Unlock()
	if key == "" {
		c.cache.Delete(common.SessionTokenKey)
	} else {
		c.cache.Set(common.SessionTokenKey, key)
	}
}

func (c *credentialService) Save(ctx context.Context, apiKey string, passphrase []byte) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return common.ErrEmptyAPIKey
	}
	if len(passphrase) < common.MinPassphraseLength {
		return common.ErrPassphraseTooShort
	}

	blob, err := cryptox.EncryptSecret(apiKey, passphrase)
	if err != nil {
		return fmt.Errorf("encryption error: %w", err)
	}
	if err := c.store.SetSetting(ctx, common.EncryptedAPIKeySetting, blob); err != nil {
		return fmt.Errorf("failed to save api key: %w", err)
	}

	c.setKey(apiKey)
	return nil
}

func (c *credentialService) Unlock(ctx context.Context, passphrase []byte) error {
	if len(passphrase) == 0 {
		return common.ErrInvalidPassphrase
	}

	blob, ok, err := c.store.GetSetting(ctx, common.EncryptedAPIKeySetting)
	if err != nil {
		return fmt.Errorf("failed to read api key: %w", err)
	}
	if !ok {
		return common.ErrCredentialMissing
	}

	key, err := cryptox.DecryptSecret(blob, passphrase)
	if err != nil {
		return err
	}

	c.setKey(key)
	return nil
}

func (c *credentialService) Restore() bool {
	key, ok := c.cache.Get(common.SessionTokenKey)
	if !ok || key == "" {
		return false
	}
	c.mu.Lock()
	c.apiKey = key
	c.mu.Unlock()
	return true
}

func (c *credentialService) Forget(ctx context.Context) error {
	c.setKey("")
	if err := c.store.ClearSettings(ctx); err != nil {
		return fmt.Errorf("failed to clear settings: %w", err)
	}
	return nil
}

func (c *credentialService) Status(ctx context.Context) (CredentialStatus, error) {
	if _, ok := c.APIKey(); ok {
		return CredentialUnlocked, nil
	}
	_, ok, err := c.store.GetSetting(ctx, common.EncryptedAPIKeySetting)
	if err != nil {
		return CredentialNone, fmt.Errorf("failed to read api key: %w", err)
	}
	if ok {
		return CredentialLocked, nil
	}
	return CredentialNone, nil
}

func (c *credentialService) APIKey() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey, c.apiKey != ""
}
