package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronodb/chronotest/internal/config"
)

func TestSaveAndLoad(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg := config.Default()
	cfg.Command = "./run-node.sh"
	cfg.Timings.PollInterval = "250ms"
	require.NoError(t, config.Save(cfg))

	loaded, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "./run-node.sh", loaded.Command)
	assert.Equal(t, "250ms", loaded.Timings.PollInterval)
}

func TestLoadwithoutConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chronotest init")
}

func TestHarnessDefaults(t *testing.T) {
	hcfg, err := config.Default().Harness()
	require.NoError(t, err)

	assert.Equal(t, "./run.sh", hcfg.Command)
	assert.Equal(t, 2*time.Second, hcfg.StartupSettle)
	assert.Equal(t, 2*time.Second, hcfg.TopologySettle)
	assert.Equal(t, time.Second, hcfg.PollInterval)
}

func TestHarnessOverrides(t *testing.T) {
	cfg := &config.Config{Command: "./node.sh"}
	cfg.Timings.PollInterval = "100ms"
	cfg.Timings.ShutdownTimeout = "30s"

	hcfg, err := cfg.Harness()
	require.NoError(t, err)

	assert.Equal(t, "./node.sh", hcfg.Command)
	assert.Equal(t, 100*time.Millisecond, hcfg.PollInterval)
	assert.Equal(t, 30*time.Second, hcfg.ShutdownTimeout)
	// Unset timings keep their defaults.
	assert.Equal(t, 2*time.Second, hcfg.StartupSettle)
}

func TestHarnessRejectsBadDuration(t *testing.T) {
	cfg := &config.Config{Command: "./node.sh"}
	cfg.Timings.StartTimeout = "soon"

	_, err := cfg.Harness()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start_timeout")
}
