package security

import "github.com/bitswalk/userd/src/common/logs"

// package-level logger, can be set via SetLogger
var log = logs.NewDiscard()

// SetLogger sets the logger for the security package
func SetLogger(l *logs.Logger) {
	if l != nil {
		log = l
	}
}

// SettingsStore is the key/value store being sealed
type SettingsStore interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

// SealedSettings wraps a SettingsStore so values are sealed on write and
// opened on read. Plaintext values already in the store are upgraded the
// first time they are read.
type SealedSettings struct {
	store   SettingsStore
	secrets *SecretManager
}

// NewSealedSettings creates a SealedSettings over store
func NewSealedSettings(store SettingsStore, secrets *SecretManager) *SealedSettings {
	return &SealedSettings{store: store, secrets: secrets}
}

// GetSetting returns the opened value for key. Store errors, including a
// missing key, are returned unchanged.
func (s *SealedSettings) GetSetting(key string) (string, error) {
	value, err := s.store.GetSetting(key)
	if err != nil {
		return "", err
	}

	if value != "" && !IsSealed(value) {
		if err := s.SetSetting(key, value); err != nil {
			log.Warn("Failed to seal plaintext setting", "key", key, "error", err)
		} else {
			log.Info("Sealed plaintext setting", "key", key)
		}
		return value, nil
	}

	return s.secrets.Open(value)
}

// SetSetting seals value and stores it under key
func (s *SealedSettings) SetSetting(key, value string) error {
	sealed, err := s.secrets.Seal(value)
	if err != nil {
		return err
	}
	return s.store.SetSetting(key, sealed)
}
