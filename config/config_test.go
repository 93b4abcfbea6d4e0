package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig("")

	assert.Equal(t, "America/Panama", cfg.System.Location)
	assert.Equal(t, 3000, cfg.Web.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, 1440, cfg.Web.JwtExpireMinutes)
}

func TestLoadConfig_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	cfile := filepath.Join(dir, "lash.yml")
	require.NoError(t, os.WriteFile(cfile, []byte("web:\n  port: 8080\n"), 0o644))

	t.Setenv("LASH_DB_NAME", "lash_test")
	t.Setenv("LASH_WEB_PORT", "9090")

	cfg := LoadConfig(cfile)

	// env wins over file
	assert.Equal(t, 9090, cfg.Web.Port)
	assert.Equal(t, "lash_test", cfg.Database.Name)
}

func TestGetDSN(t *testing.T) {
	dsn := DBConfig{Host: "db", Port: 5432, User: "u", Passwd: "p", Name: "lash"}.GetDSN()
	assert.Contains(t, dsn, "host=db")
	assert.Contains(t, dsn, "dbname=lash")
}
