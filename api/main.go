package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/harlequingg/tasktracker/internal/service"
	"github.com/harlequingg/tasktracker/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "1.0.0"

type application struct {
	config config
	logger *logrus.Logger
	auth   *service.AuthService
	tasks  *service.TaskService
	mailer *mailer
	wg     sync.WaitGroup
}

func newApplication(cfg config, logger *logrus.Logger, store service.Store, hasher service.Hasher) *application {
	app := &application{
		config: cfg,
		logger: logger,
		auth:   service.NewAuthService(store, hasher, logger.WithField("component", "auth")),
		tasks:  service.NewTaskService(store, logger.WithField("component", "tasks")),
	}
	if cfg.smtp.host != "" {
		app.mailer = newMailer(cfg.smtp.host, cfg.smtp.port, cfg.smtp.username, cfg.smtp.password, cfg.smtp.sender)
	}
	return app
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "tasktracker",
		Short:         "Multi-user task tracking API",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), v)
		},
	}
	bindFlags(root.PersistentFlags(), v)

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe(cmd.Context(), v)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create the database schema",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMigrate(cmd.Context(), v)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), version)
			},
		},
	)
	return root
}

func runServe(ctx context.Context, v *viper.Viper) error {
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	if cfg.sentryDSN != "" {
		err = sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.sentryDSN,
			Environment:      cfg.env,
			Release:          "tasktracker@" + version,
			AttachStacktrace: true,
		})
		if err != nil {
			return fmt.Errorf("sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	store, err := storage.Open(ctx, cfg.db)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.WithField("driver", cfg.db.Driver).Info("established a connection with database")

	if cfg.autoMigrate {
		err = store.Migrate(ctx)
		if err != nil {
			return err
		}
	}

	app := newApplication(cfg, logger, store, service.NewBcryptHasher())
	return app.serve()
}

func runMigrate(ctx context.Context, v *viper.Viper) error {
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	store, err := storage.Open(ctx, cfg.db)
	if err != nil {
		return err
	}
	defer store.Close()

	err = store.Migrate(ctx)
	if err != nil {
		return err
	}
	logger.WithField("driver", cfg.db.Driver).Info("schema is up to date")
	return nil
}

func newLogger(cfg config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.log.level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.log.format == "json" || (cfg.log.format == "" && cfg.env == "production") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
