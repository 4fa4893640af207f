package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempConfigPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.json")
}

func writeTestConfig(t *testing.T, path string, cfg *Config) {
	t.Helper()
	require.NoError(t, Save(path, cfg))
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "RETRO_ADMIN_CODE", "RETRO_DATA_DIR", "RETRO_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoad_WritesDefaults(t *testing.T) {
	clearEnv(t)
	path := tempConfigPath(t)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":3000", cfg.HTTP.Listen)
	assert.Equal(t, DriverFile, cfg.Store.Driver)
	assert.Equal(t, 24, cfg.Snapshot.Keep)
	assert.Empty(t, cfg.AdminCode)

	_, err = os.Stat(path)
	assert.NoError(t, err, "defaults should be written on first load")
}

func TestSave_ReloadRoundTrip(t *testing.T) {
	clearEnv(t)
	path := tempConfigPath(t)

	original := defaults()
	original.DataDir = "/tmp/retro-data"
	original.LogLevel = "debug"
	original.AdminCode = "s3cret"
	original.HTTP.Listen = ":8080"
	original.Store.Driver = DriverSQLite
	original.Snapshot.Schedule = "@hourly"
	writeTestConfig(t, path, original)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
	assert.Equal(t, "/tmp/retro-data/board.db", loaded.StorePath())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := tempConfigPath(t)
	writeTestConfig(t, path, defaults())

	t.Setenv("PORT", "4100")
	t.Setenv("RETRO_ADMIN_CODE", "from-env")
	t.Setenv("RETRO_DATA_DIR", "/srv/retro")
	t.Setenv("RETRO_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":4100", cfg.HTTP.Listen)
	assert.Equal(t, "from-env", cfg.AdminCode)
	assert.Equal(t, "/srv/retro", cfg.DataDir)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "/srv/retro/board.json", cfg.StorePath())
}

func TestLoad_RejectsBadDriver(t *testing.T) {
	clearEnv(t)
	path := tempConfigPath(t)
	cfg := defaults()
	cfg.Store.Driver = "dynamo"
	writeTestConfig(t, path, cfg)

	_, err := Load(path)
	assert.ErrorContains(t, err, "store.driver")
}

func TestSave_AtomicWrite(t *testing.T) {
	path := tempConfigPath(t)
	require.NoError(t, Save(path, defaults()))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should not exist after successful save")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var m map[string]any
	assert.NoError(t, json.Unmarshal(data, &m))
}

func TestSave_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "config.json")
	require.NoError(t, Save(path, defaults()))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestStorePathExplicit(t *testing.T) {
	cfg := defaults()
	cfg.Store.Path = "/var/lib/retro/custom.json"
	assert.Equal(t, "/var/lib/retro/custom.json", cfg.StorePath())
}

func TestListValues_Masking(t *testing.T) {
	cfg := defaults()
	cfg.AdminCode = "hunter2024"

	plain, err := ListValues(cfg, false)
	require.NoError(t, err)
	assert.Equal(t, "hunter2024", plain["admin_code"])
	assert.Equal(t, ":3000", plain["http.listen"])

	masked, err := ListValues(cfg, true)
	require.NoError(t, err)
	assert.Equal(t, "***2024", masked["admin_code"])
	assert.Equal(t, "file", masked["store.driver"])
	assert.Equal(t, float64(24), masked["snapshot.keep"])
}

func TestGetValue(t *testing.T) {
	clearEnv(t)
	path := tempConfigPath(t)
	cfg := defaults()
	cfg.Store.Driver = DriverMemory
	writeTestConfig(t, path, cfg)

	v, err := GetValue(path, "store.driver")
	require.NoError(t, err)
	assert.Equal(t, "memory", v)

	_, err = GetValue(path, "nonexistent.key")
	assert.EqualError(t, err, "unknown config key: nonexistent.key")
}

func TestGetValue_NewFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	v, err := GetValue(tempConfigPath(t), "log_level")
	require.NoError(t, err)
	assert.Equal(t, "info", v)
}

func TestSetValue(t *testing.T) {
	clearEnv(t)
	path := tempConfigPath(t)
	writeTestConfig(t, path, defaults())

	require.NoError(t, SetValue(path, "admin_code", "rotate-me"))
	require.NoError(t, SetValue(path, "snapshot.keep", "5"))
	require.NoError(t, SetValue(path, "http.allowed_origins", `["https://retro.example.com"]`))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "rotate-me", cfg.AdminCode)
	assert.Equal(t, 5, cfg.Snapshot.Keep)
	assert.Equal(t, []string{"https://retro.example.com"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, DriverFile, cfg.Store.Driver, "other values are preserved")
}

func TestSetValue_NumericTextStaysString(t *testing.T) {
	clearEnv(t)
	path := tempConfigPath(t)
	writeTestConfig(t, path, defaults())

	require.NoError(t, SetValue(path, "admin_code", "123456"))
	require.NoError(t, SetValue(path, "snapshot.schedule", "15"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "123456", cfg.AdminCode)
	assert.Equal(t, "15", cfg.Snapshot.Schedule)
}

func TestSetValue_RejectsInvalidResult(t *testing.T) {
	clearEnv(t)
	path := tempConfigPath(t)
	writeTestConfig(t, path, defaults())
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Error(t, SetValue(path, "snapshot.keep", `"many"`))
	assert.Error(t, SetValue(path, "snapshot.keep", "-1"))
	assert.Error(t, SetValue(path, "store.driver", "postgres"))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after), "file is left untouched")

	_, err = Load(path)
	assert.NoError(t, err)
}

func TestSetValue_NonexistentFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist", "config.json")
	assert.Error(t, SetValue(path, "log_level", "debug"))
}
