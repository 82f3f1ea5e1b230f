package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStorage(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		check   func(t *testing.T, s *Storage)
		wantErr error
	}{
		{
			name: "defaults filled",
			raw:  `{"url":"localhost:5432"}`,
			check: func(t *testing.T, s *Storage) {
				assert.Equal(t, "localhost:5432", s.URL)
				assert.Equal(t, "wallets", s.DatabaseName)
				assert.Equal(t, 2, s.MaxConnections)
				assert.Equal(t, 5*time.Second, s.IdleTimeout)
				assert.Equal(t, time.Duration(0), s.AcquireTimeout)
			},
		},
		{
			name: "explicit values kept",
			raw:  `{"url":"h:1","database_name":"custom","max_connections":8,"acquire_timeout":"1s","idle_timeout":1000}`,
			check: func(t *testing.T, s *Storage) {
				assert.Equal(t, "custom", s.DatabaseName)
				assert.Equal(t, 8, s.MaxConnections)
				assert.Equal(t, time.Second, s.AcquireTimeout)
				assert.Equal(t, time.Microsecond, s.IdleTimeout)
			},
		},
		{name: "empty", raw: "  ", wantErr: ErrInvalidStorageConfigs},
		{name: "not json", raw: "{", wantErr: ErrInvalidStorageConfigs},
		{name: "unknown key", raw: `{"hostname":"x"}`, wantErr: ErrInvalidStorageConfigs},
		{name: "bad duration", raw: `{"idle_timeout":"forever"}`, wantErr: ErrInvalidStorageConfigs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeStorage(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestDecodeCredentials(t *testing.T) {
	creds, err := DecodeCredentials(`{"account":"wallet","password":"pw"}`)
	require.NoError(t, err)
	assert.Equal(t, "wallet", creds.Account)
	assert.False(t, creds.HasAdmin())

	creds, err = DecodeCredentials(`{"account":"a","password":"p","admin_account":"postgres","admin_password":"x"}`)
	require.NoError(t, err)
	assert.True(t, creds.HasAdmin())

	_, err = DecodeCredentials(`{"user":"a"}`)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = DecodeCredentials("")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDuration_JSON(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"1m30s"`), &d))
	assert.Equal(t, 90*time.Second, time.Duration(d))

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `"1m30s"`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &d))
}
