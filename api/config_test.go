package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harlequingg/tasktracker/internal/storage"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper(t *testing.T, args ...string) *viper.Viper {
	t.Helper()
	v := viper.New()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	bindFlags(fs, v)
	require.NoError(t, fs.Parse(args))
	return v
}

func TestLoadConfigDefaults(t *testing.T) {
	v := newTestViper(t, "--db-dsn", "postgres://localhost/tasks")

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.port)
	assert.Equal(t, "development", cfg.env)
	assert.Equal(t, storage.DriverPostgres, cfg.db.Driver)
	assert.Equal(t, "postgres://localhost/tasks", cfg.db.DSN)
	assert.Equal(t, 15*time.Minute, cfg.db.MaxIdleTime)
	assert.True(t, cfg.limiter.enabled)
	assert.Empty(t, cfg.smtp.host)
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("TASKTRACKER_DB_DSN", "file:tasks.db")
	t.Setenv("TASKTRACKER_DB_DRIVER", "sqlite3")
	t.Setenv("TASKTRACKER_PORT", "8080")

	cfg, err := loadConfig(newTestViper(t))
	require.NoError(t, err)
	assert.Equal(t, "file:tasks.db", cfg.db.DSN)
	assert.Equal(t, storage.DriverSQLite, cfg.db.Driver)
	assert.Equal(t, 8080, cfg.port)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte("env: production\ndb:\n  driver: pgx\n  dsn: postgres://db/tasks\nsmtp:\n  host: smtp.example.com\n"), 0o600)
	require.NoError(t, err)

	cfg, err := loadConfig(newTestViper(t, "--config", path))
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.env)
	assert.Equal(t, storage.DriverPgx, cfg.db.Driver)
	assert.Equal(t, "postgres://db/tasks", cfg.db.DSN)
	assert.Equal(t, "smtp.example.com", cfg.smtp.host)
}

func TestLoadConfigRequiresDSN(t *testing.T) {
	_, err := loadConfig(newTestViper(t))
	assert.Error(t, err)
}

func TestLoadConfigTrustedOrigins(t *testing.T) {
	tests := []struct {
		name string
		env  string
		args []string
		want []string
	}{
		{"env, commas", "http://a.com,http://b.com", nil, []string{"http://a.com", "http://b.com"}},
		{"env, spaces", "http://a.com http://b.com", nil, []string{"http://a.com", "http://b.com"}},
		{"env, both", " http://a.com, http://b.com ,", nil, []string{"http://a.com", "http://b.com"}},
		{"flag", "", []string{"--cors-trusted-origins", "http://a.com,http://b.com"}, []string{"http://a.com", "http://b.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.env != "" {
				t.Setenv("TASKTRACKER_CORS_TRUSTED_ORIGINS", tt.env)
			}
			args := append([]string{"--db-dsn", "postgres://localhost/tasks"}, tt.args...)

			cfg, err := loadConfig(newTestViper(t, args...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.cors.trustedOrigins)
		})
	}
}
