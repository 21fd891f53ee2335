package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("STORAGE_DRIVER", "")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000/api", cfg.APIBaseURL)
	assert.Equal(t, "sqlite", cfg.StorageDriver)
	assert.Equal(t, "token", cfg.TokenKey)
	assert.Equal(t, 10, cfg.MaxPriority)
	assert.Zero(t, cfg.HTTPTimeout)
	assert.False(t, cfg.EventsEnabled())
}

func TestLoadConfig_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api_base_url: https://shop.example.com/api
storage_driver: mysql
storage_dsn: user:pass@tcp(db:3306)/client
order_exchange: yaml_exchange
`), 0o600))

	t.Setenv("ORDER_EXCHANGE", "env_exchange")
	t.Setenv("HTTP_TIMEOUT", "15s")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example.com/api", cfg.APIBaseURL)
	assert.Equal(t, "mysql", cfg.StorageDriver)
	assert.Equal(t, "user:pass@tcp(db:3306)/client", cfg.StorageDSN)
	assert.Equal(t, "env_exchange", cfg.OrderExchange)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
}

func TestLoadConfig_SecretFromFile(t *testing.T) {
	dir := t.TempDir()
	secret := filepath.Join(dir, "dsn")
	require.NoError(t, os.WriteFile(secret, []byte("root:s3cret@tcp(localhost:3306)/shop\n"), 0o600))

	t.Setenv("STORAGE_DRIVER", "mysql")
	t.Setenv("STORAGE_DSN_FILE", secret)
	t.Setenv("STORAGE_DSN", "ignored")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "root:s3cret@tcp(localhost:3306)/shop", cfg.StorageDSN)
}

func TestLoadConfig_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
