package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/harlequingg/tasktracker/internal/storage"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type config struct {
	port        int
	env         string
	db          storage.Config
	autoMigrate bool
	limiter     struct {
		enabled bool
		rps     float64
		burst   int
	}
	cors struct {
		trustedOrigins []string
	}
	smtp struct {
		host     string
		port     int
		username string
		password string
		sender   string
	}
	sentryDSN string
	log       struct {
		level  string
		format string
	}
}

// flag name -> config key
var flagKeys = map[string]string{
	"config":               "config",
	"port":                 "port",
	"env":                  "env",
	"db-driver":            "db.driver",
	"db-dsn":               "db.dsn",
	"db-max-open-conns":    "db.max_open_conns",
	"db-max-idle-conns":    "db.max_idle_conns",
	"db-max-idle-time":     "db.max_idle_time",
	"db-auto-migrate":      "db.auto_migrate",
	"limiter-enabled":      "limiter.enabled",
	"limiter-rps":          "limiter.rps",
	"limiter-burst":        "limiter.burst",
	"cors-trusted-origins": "cors.trusted_origins",
	"smtp-host":            "smtp.host",
	"smtp-port":            "smtp.port",
	"smtp-username":        "smtp.username",
	"smtp-password":        "smtp.password",
	"smtp-sender":          "smtp.sender",
	"sentry-dsn":           "sentry.dsn",
	"log-level":            "log.level",
	"log-format":           "log.format",
}

func bindFlags(fs *pflag.FlagSet, v *viper.Viper) {
	fs.String("config", "", "Path to a config file (yaml, json or toml)")
	fs.Int("port", 3000, "Server port")
	fs.String("env", "development", "Environment [development|staging|production]")

	fs.String("db-driver", storage.DriverPostgres, "Database driver [postgres|pgx|sqlite3]")
	fs.String("db-dsn", "", "Database DSN")
	fs.Int("db-max-open-conns", 25, "Database max open connections")
	fs.Int("db-max-idle-conns", 25, "Database max idle connections")
	fs.Duration("db-max-idle-time", 15*time.Minute, "Database max connection idle time")
	fs.Bool("db-auto-migrate", false, "Create the schema on startup")

	fs.Bool("limiter-enabled", true, "Enable the per-client rate limiter")
	fs.Float64("limiter-rps", 2, "Rate limiter maximum requests per second")
	fs.Int("limiter-burst", 4, "Rate limiter maximum burst")

	fs.StringSlice("cors-trusted-origins", nil, "Trusted CORS origins")

	fs.String("smtp-host", "", "SMTP host, welcome mails are disabled when empty")
	fs.Int("smtp-port", 25, "SMTP port")
	fs.String("smtp-username", "", "SMTP username")
	fs.String("smtp-password", "", "SMTP password")
	fs.String("smtp-sender", "Tasktracker <no-reply@tasktracker.local>", "SMTP sender")

	fs.String("sentry-dsn", "", "Sentry DSN, error reporting is disabled when empty")

	fs.String("log-level", "info", "Log level")
	fs.String("log-format", "", "Log format [text|json], json in production by default")

	for name, key := range flagKeys {
		_ = v.BindPFlag(key, fs.Lookup(name))
	}

	v.SetEnvPrefix("tasktracker")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

func loadConfig(v *viper.Viper) (config, error) {
	var cfg config

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg.port = v.GetInt("port")
	cfg.env = v.GetString("env")

	cfg.db = storage.Config{
		Driver:       v.GetString("db.driver"),
		DSN:          v.GetString("db.dsn"),
		MaxOpenConns: v.GetInt("db.max_open_conns"),
		MaxIdleConns: v.GetInt("db.max_idle_conns"),
		MaxIdleTime:  v.GetDuration("db.max_idle_time"),
	}
	cfg.autoMigrate = v.GetBool("db.auto_migrate")

	cfg.limiter.enabled = v.GetBool("limiter.enabled")
	cfg.limiter.rps = v.GetFloat64("limiter.rps")
	cfg.limiter.burst = v.GetInt("limiter.burst")

	cfg.cors.trustedOrigins = splitList(v.GetStringSlice("cors.trusted_origins"))

	cfg.smtp.host = v.GetString("smtp.host")
	cfg.smtp.port = v.GetInt("smtp.port")
	cfg.smtp.username = v.GetString("smtp.username")
	cfg.smtp.password = v.GetString("smtp.password")
	cfg.smtp.sender = v.GetString("smtp.sender")

	cfg.sentryDSN = v.GetString("sentry.dsn")

	cfg.log.level = v.GetString("log.level")
	cfg.log.format = v.GetString("log.format")

	if cfg.port <= 0 || cfg.port > 65535 {
		return cfg, fmt.Errorf("invalid port %d", cfg.port)
	}
	if cfg.db.DSN == "" {
		return cfg, fmt.Errorf("db dsn must be provided (--db-dsn or TASKTRACKER_DB_DSN)")
	}
	return cfg, nil
}

// splitList flattens comma separated entries. Values from the environment
// arrive as one whitespace-split string, so "a,b" would otherwise stay whole.
func splitList(items []string) []string {
	var out []string
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
