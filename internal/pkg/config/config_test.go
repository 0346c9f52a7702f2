package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/traveltip/internal/pkg/geospatial"
)

// inTempDir switches to an empty directory so no config.yaml is found.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	inTempDir(t)

	cfg, err := Load("traveltip-test")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "traveltip.db", cfg.Storage.SQLitePath)
	assert.Equal(t, "traveltip:locations", cfg.Valkey.Key)
	assert.Equal(t, "traveltip-test", cfg.Telemetry.ServiceName)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, geospatial.Kilometers, cfg.Unit())
}

func TestLoadFromYAML(t *testing.T) {
	dir := inTempDir(t)

	yaml := `
storage:
  backend: postgres
database:
  host: db.internal
  dbname: places
log:
  level: debug
view:
  unit: mi
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load("traveltip")
	require.NoError(t, err)

	assert.Equal(t, BackendPostgres, cfg.Storage.Backend)
	assert.Equal(t, "postgres://traveltip:@db.internal:5432/places?sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, geospatial.Miles, cfg.Unit())
}

func TestLoadEnvOverride(t *testing.T) {
	inTempDir(t)
	t.Setenv("TRAVELTIP_STORAGE_BACKEND", "valkey")
	t.Setenv("TRAVELTIP_VALKEY_ADDR", "cache:6379")
	t.Setenv("TRAVELTIP_SERVER_PORT", "9090")

	cfg, err := Load("traveltip")
	require.NoError(t, err)

	assert.Equal(t, BackendValkey, cfg.Storage.Backend)
	assert.Equal(t, "cache:6379", cfg.Valkey.Addr)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoadInvalidBackend(t *testing.T) {
	inTempDir(t)
	t.Setenv("TRAVELTIP_STORAGE_BACKEND", "mongo")

	_, err := Load("traveltip")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.backend")
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &Config{
		Server:  ServerConfig{Port: 0, ReadTimeout: 0, WriteTimeout: 10},
		Storage: StorageConfig{Backend: BackendPostgres},
		View:    ViewConfig{Unit: "furlongs"},
	}

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "server.port")
	assert.Contains(t, msg, "server.read_timeout")
	assert.Contains(t, msg, "database.host")
	assert.Contains(t, msg, "database.dbname")
	assert.Contains(t, msg, "view.unit")
	assert.NotContains(t, msg, "valkey.addr")
}

func TestValidate_BackendSpecific(t *testing.T) {
	base := Config{
		Server: ServerConfig{Port: 8080, ReadTimeout: 1, WriteTimeout: 1},
	}

	mem := base
	mem.Storage.Backend = BackendMemory
	assert.NoError(t, mem.Validate())

	lite := base
	lite.Storage.Backend = BackendSQLite
	assert.ErrorContains(t, lite.Validate(), "storage.sqlite_path")

	vk := base
	vk.Storage.Backend = BackendValkey
	assert.ErrorContains(t, vk.Validate(), "valkey.addr")
}
