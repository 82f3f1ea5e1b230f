package store

import (
	"fmt"

	"github.com/MKhiriev/go-wallet-storage/internal/config"
	"github.com/MKhiriev/go-wallet-storage/models"
)

// maxWalletIDLength matches the width of the wallet_id columns.
const maxWalletIDLength = 64

// ParseStorageConfig decodes a storage configuration document.
func ParseStorageConfig(raw string) (*config.Storage, error) {
	cfg, err := config.DecodeStorage(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return cfg, nil
}

// ParseCredentials decodes a credentials document.
func ParseCredentials(raw string) (*config.Credentials, error) {
	creds, err := config.DecodeCredentials(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return creds, nil
}

// ParseRecordOptions decodes a record options document; an empty document
// yields the defaults.
func ParseRecordOptions(raw string) (models.RecordOptions, error) {
	opts, err := models.DecodeRecordOptions(raw)
	if err != nil {
		return models.RecordOptions{}, fmt.Errorf("%w: record options: %w", ErrConfig, err)
	}
	return opts, nil
}

// ParseSearchOptions decodes a search options document; an empty document
// yields the defaults.
func ParseSearchOptions(raw string) (models.SearchOptions, error) {
	opts, err := models.DecodeSearchOptions(raw)
	if err != nil {
		return models.SearchOptions{}, fmt.Errorf("%w: search options: %w", ErrConfig, err)
	}
	return opts, nil
}

func validateWalletID(walletID string) error {
	if walletID == "" {
		return fmt.Errorf("%w: empty wallet id", ErrConfig)
	}
	if len(walletID) > maxWalletIDLength {
		return fmt.Errorf("%w: wallet id longer than %d bytes", ErrConfig, maxWalletIDLength)
	}
	return nil
}

// nonNil keeps empty byte strings from being bound as NULL.
func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
