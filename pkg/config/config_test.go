package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsUsable(t *testing.T) {
	cfg := Default()
	assert.NotEmpty(t, cfg.NodeID)
	assert.NotEmpty(t, cfg.BindAddr)
	assert.True(t, cfg.HA.Bootstrap)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clerk.yaml")
	yaml := `
nodeID: clerk-west-1
dataDir: /var/lib/clerk
ha:
  bootstrap: false
  peers:
    - 10.0.0.2:7999
    - 10.0.0.3:7999
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "clerk-west-1", cfg.NodeID)
	assert.Equal(t, "/var/lib/clerk", cfg.DataDir)
	assert.False(t, cfg.HA.Bootstrap)
	assert.Equal(t, []string{"10.0.0.2:7999", "10.0.0.3:7999"}, cfg.HA.Peers)
	// Fields absent from the file keep Default's values.
	assert.Equal(t, "127.0.0.1:7999", cfg.BindAddr)
	assert.Equal(t, int64(1<<26), cfg.Cache.MaxCost)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
