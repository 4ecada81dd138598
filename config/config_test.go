package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSdkConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	data := `
config:
  chain_id: "veil-test-1"
  rpc_endpoint: "http://localhost:26657"
  params_store_path: "/tmp/params.db"
  gas_token: "TVEIL"
  gas_limit: 100000
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadSdkConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "veil-test-1", cfg.ChainID)
	assert.Equal(t, "http://localhost:26657", cfg.RPCEndpoint)
	assert.Equal(t, "TVEIL", cfg.GasToken)
	assert.Equal(t, uint64(100000), cfg.GasLimit)
}

func TestLoadSdkConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	data := `
config:
  chain_id: "veil-test-1"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadSdkConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultGasToken, cfg.GasToken)
	assert.Equal(t, uint64(DefaultGasLimit), cfg.GasLimit)
}

func TestLoadSdkConfigMissingFile(t *testing.T) {
	_, err := LoadSdkConfig(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}
