package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"dario.cat/mergo"
)

// storageJSON is the wire form of [Storage]; durations are accepted as
// strings ("5s") or integer nanoseconds.
type storageJSON struct {
	URL                string   `json:"url"`
	DatabaseName       string   `json:"database_name"`
	TLS                string   `json:"tls"`
	Path               string   `json:"path"`
	Driver             string   `json:"driver"`
	MaxConnections     int      `json:"max_connections"`
	MinIdleConnections int      `json:"min_idle_connections"`
	IdleTimeout        Duration `json:"idle_timeout"`
	ConnectTimeout     Duration `json:"connection_timeout"`
	AcquireTimeout     Duration `json:"acquire_timeout"`
}

func (s storageJSON) toStorage() Storage {
	return Storage{
		URL:                s.URL,
		DatabaseName:       s.DatabaseName,
		TLS:                s.TLS,
		Path:               s.Path,
		Driver:             s.Driver,
		MaxConnections:     s.MaxConnections,
		MinIdleConnections: s.MinIdleConnections,
		IdleTimeout:        time.Duration(s.IdleTimeout),
		ConnectTimeout:     time.Duration(s.ConnectTimeout),
		AcquireTimeout:     time.Duration(s.AcquireTimeout),
	}
}

type credentialsJSON struct {
	Account       string `json:"account"`
	Password      string `json:"password"`
	AdminAccount  string `json:"admin_account"`
	AdminPassword string `json:"admin_password"`
}

// StructuredJSONConfig is the layout of the walletctl JSON config file.
type StructuredJSONConfig struct {
	Backend     string          `json:"backend"`
	WalletID    string          `json:"wallet_id"`
	Metadata    string          `json:"metadata"`
	Storage     storageJSON     `json:"storage"`
	Credentials credentialsJSON `json:"credentials"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Backend:      jsonCfg.Backend,
		WalletID:     jsonCfg.WalletID,
		Metadata:     jsonCfg.Metadata,
		Storage:      jsonCfg.Storage.toStorage(),
		Credentials:  Credentials(jsonCfg.Credentials),
		JSONFilePath: "",
	}

	return cfg, nil
}

// DecodeStorage parses a storage configuration document and fills unset
// fields from [DefaultStorage]. Unknown keys are rejected.
func DecodeStorage(raw string) (*Storage, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidStorageConfigs)
	}

	var doc storageJSON
	if err := decodeStrict(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStorageConfigs, err)
	}

	storage := doc.toStorage()
	if err := mergo.Merge(&storage, DefaultStorage()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStorageConfigs, err)
	}

	return &storage, nil
}

// DecodeCredentials parses a credentials document.
func DecodeCredentials(raw string) (*Credentials, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidCredentials)
	}

	var doc credentialsJSON
	if err := decodeStrict(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}

	creds := Credentials(doc)
	return &creds, nil
}

func decodeStrict(raw string, v any) error {
	dec := json.NewDecoder(bytes.NewBufferString(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
