package config_test

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/lazycopy/lazycopy/internal/config"
	"github.com/lazycopy/lazycopy/internal/lazycopy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTempHome(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	config.SetConfigDir(tmp)
	t.Cleanup(func() { config.SetConfigDir("") })
	return tmp
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	withTempHome(t)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.PoolCapacity)
	assert.Equal(t, 0, cfg.ArenaBytes)
	assert.Equal(t, "", cfg.LogLevel)
}

func TestLoadValidConfig(t *testing.T) {
	tmp := withTempHome(t)

	content := `pool_capacity = 100
arena_bytes = 67108864
log_level = "debug"
`
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "config.toml"), []byte(content), 0o644))

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.PoolCapacity)
	assert.Equal(t, 67108864, cfg.ArenaBytes)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadMalformedTOML(t *testing.T) {
	tmp := withTempHome(t)

	require.NoError(t, os.WriteFile(filepath.Join(tmp, "config.toml"), []byte("not valid [[ toml"), 0o644))

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config.toml")
}

func TestSetThenGetRoundtrip(t *testing.T) {
	withTempHome(t)

	require.NoError(t, config.Set("pool_capacity", "25"))

	val, err := config.Get("pool_capacity")
	require.NoError(t, err)
	assert.Equal(t, "25", val)
}

func TestSetInvalidIntegerValue(t *testing.T) {
	withTempHome(t)

	err := config.Set("arena_bytes", "not-a-number")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "arena_bytes must be an integer")
}

func TestGetUnknownKey(t *testing.T) {
	withTempHome(t)

	_, err := config.Get("nonexistent_key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")
}

func TestSetUnknownKey(t *testing.T) {
	withTempHome(t)

	err := config.Set("nonexistent_key", "value")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")
}

func TestSetPoolCapacityRejectsNonPositive(t *testing.T) {
	withTempHome(t)

	err := config.Set("pool_capacity", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be positive")
}

func TestSetArenaBytesRejectsUnalignedValue(t *testing.T) {
	withTempHome(t)

	err := config.Set("arena_bytes", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple of the host page size")
}

func TestSetArenaBytesAcceptsPageMultiple(t *testing.T) {
	withTempHome(t)

	page := lazycopy.PageSize()
	require.NoError(t, config.Set("arena_bytes", strconv.Itoa(page*4)))

	val, err := config.Get("arena_bytes")
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(page*4), val)
}

func TestValidateRejectsUnalignedArenaBytes(t *testing.T) {
	page := lazycopy.PageSize()
	cfg := &config.Config{ArenaBytes: page + 1}
	err := config.Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple of the host page size")
}

func TestValidateAcceptsZeroValuesAsUnset(t *testing.T) {
	require.NoError(t, config.Validate(&config.Config{}))
}

func TestPageCapacityFallsBackToDefaultWhenUnset(t *testing.T) {
	page := lazycopy.PageSize()
	got := config.PageCapacity(&config.Config{}, page*10)
	assert.Equal(t, 10, got)
}

func TestPageCapacityUsesConfiguredArenaBytes(t *testing.T) {
	page := lazycopy.PageSize()
	got := config.PageCapacity(&config.Config{ArenaBytes: page * 3}, page*10)
	assert.Equal(t, 3, got)
}

func TestEnsureDirCreatesDirectory(t *testing.T) {
	tmp := t.TempDir()
	newDir := filepath.Join(tmp, "subdir", ".lazycopy")
	config.SetConfigDir(newDir)
	t.Cleanup(func() { config.SetConfigDir("") })

	require.NoError(t, config.EnsureDir())

	info, err := os.Stat(newDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
