package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setServerEnv(t *testing.T) {
	t.Setenv("ENV", EnvDev)
	t.Setenv("POSTGRES_HOST", "localhost")
	t.Setenv("POSTGRES_USERNAME", "flowfocus")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DATABASE", "flowfocus")
	t.Setenv("JWT_SIGNING_KEY", "signing-key")
}

func TestEnvReaderDefaults(t *testing.T) {
	setServerEnv(t)

	cfg, err := NewEnvReader().Read()
	require.NoError(t, err)

	assert.Equal(t, EnvDev, cfg.Env)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "disable", cfg.Postgres.SSLMode)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, "flowfocus", cfg.JWT.Issuer)
}

func TestEnvReaderRejectsUnknownEnv(t *testing.T) {
	setServerEnv(t)
	t.Setenv("ENV", "staging")

	_, err := NewEnvReader().Read()
	assert.Error(t, err)
}

func TestClientEnvReader(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FLOWFOCUS_API_URL", "http://api.test")
	t.Setenv("FLOWFOCUS_SESSION_PATH", dir+"/session.json")
	t.Setenv("FLOWFOCUS_LIST_PATH", dir+"/list.db")
	t.Setenv("FLOWFOCUS_LIST_STORAGE", ListStorageSQLite)

	cfg, err := NewClientEnvReader().Read()
	require.NoError(t, err)
	assert.Equal(t, "http://api.test", cfg.APIURL)
	assert.Equal(t, dir+"/session.json", cfg.SessionPath)
	assert.Equal(t, ListStorageSQLite, cfg.ListStorage)

	t.Setenv("FLOWFOCUS_LIST_STORAGE", "redis")
	_, err = NewClientEnvReader().Read()
	assert.Error(t, err)
}
