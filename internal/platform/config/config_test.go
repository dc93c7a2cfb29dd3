package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "https://civiclink-backend-g3.onrender.com", cfg.Directory.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Directory.Timeout)
	assert.Equal(t, "0xB3be2E51EdAeC9dB5CE98Db1C04b66895774Fd9a", cfg.Contract.Address)
	assert.Empty(t, cfg.Wallet.RPCURL)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("CIVICLINK_ADDR", "127.0.0.1:9000")
	t.Setenv("CIVICLINK_DIRECTORY_TIMEOUT", "3s")
	t.Setenv("CIVICLINK_WALLET_RPC_URL", "http://127.0.0.1:1248")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, 3*time.Second, cfg.Directory.Timeout)
	assert.Equal(t, "http://127.0.0.1:1248", cfg.Wallet.RPCURL)
}

func TestFromEnvRejectsBadDuration(t *testing.T) {
	t.Setenv("CIVICLINK_REQUEST_TIMEOUT", "soon")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestFromEnvTimeouts(t *testing.T) {
	t.Run("zero request timeout is allowed", func(t *testing.T) {
		t.Setenv("CIVICLINK_REQUEST_TIMEOUT", "0s")

		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Zero(t, cfg.RequestTimeout)
	})

	t.Run("negative timeouts are rejected", func(t *testing.T) {
		for _, key := range []string{"CIVICLINK_REQUEST_TIMEOUT", "CIVICLINK_SHUTDOWN_TIMEOUT", "CIVICLINK_DIRECTORY_TIMEOUT"} {
			t.Run(key, func(t *testing.T) {
				t.Setenv(key, "-1s")

				_, err := FromEnv()
				require.Error(t, err)
				assert.Contains(t, err.Error(), "must not be negative")
			})
		}
	})
}
