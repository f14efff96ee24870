package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("ENV_FILE", "")
	t.Setenv("FRONTEND_URL", "http://localhost:3000")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("AWS_EMAIL_SENDER", "noreply@test.test")
	t.Setenv("SECRET", "secret")
	t.Setenv("POSTGRESQL_URL", "postgres://localhost/accounts")
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestLoadAppliesDefaults(t *testing.T) {
	setRequired(t)
	chdir(t, t.TempDir())

	cfg, err := Load()

	require.NoError(t, err)
	require.Equal(t, STORAGE_POSTGRES, cfg.Storage)
	require.Equal(t, NOTIFIER_SES, cfg.Notifier)
	require.Equal(t, 30*time.Minute, cfg.ResetTokenTTL)
	require.Equal(t, 24*time.Hour, cfg.SessionTTL)
	require.Equal(t, uint16(8080), cfg.Port)
	require.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
}

func TestLoadRequiresSecret(t *testing.T) {
	setRequired(t)
	chdir(t, t.TempDir())
	t.Setenv("SECRET", "")
	os.Unsetenv("SECRET")

	_, err := Load()

	require.Error(t, err)
}

func TestLoadValidatesDrivers(t *testing.T) {
	setRequired(t)
	chdir(t, t.TempDir())

	t.Setenv("STORAGE", "mongodb")
	_, err := Load()
	require.ErrorContains(t, err, "MONGODB_URL")

	t.Setenv("STORAGE", "sqlite")
	_, err = Load()
	require.ErrorContains(t, err, "STORAGE")

	t.Setenv("STORAGE", "postgres")
	t.Setenv("NOTIFIER", "rabbitmq")
	_, err = Load()
	require.ErrorContains(t, err, "RABBITMQ_URL")
}

func TestLoadReadsEnvFile(t *testing.T) {
	setRequired(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("PASSWORD_RESET_TOKEN_TTL=45m\n"), 0o600))
	t.Setenv("ENV_FILE", path)
	t.Setenv("PASSWORD_RESET_TOKEN_TTL", "")
	os.Unsetenv("PASSWORD_RESET_TOKEN_TTL")

	cfg, err := Load()

	require.NoError(t, err)
	require.Equal(t, 45*time.Minute, cfg.ResetTokenTTL)
}
