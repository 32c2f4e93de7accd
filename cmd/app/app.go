package app

import (
	"context"
	"fmt"
	"log/slog"

	"gramm/internal/clock"
	"gramm/internal/config"
	"gramm/internal/database"
	handlers "gramm/internal/handler"
	"gramm/internal/mail"
	"gramm/internal/oauth"
	"gramm/internal/repository"
	"gramm/internal/service"
	"gramm/internal/storage"
)

type Application struct {
	DB       *database.DB
	Repo     *repository.Repository
	Services *service.Service
	Handlers *handlers.Handlers
}

// Core connects the database and builds the services on top of it.
// store and mailer may be nil for commands that neither upload nor notify.
func Core(cfg *config.Config, migrate bool, store storage.Storage, mailer mail.Mailer) (*database.DB, *repository.Repository, *service.Service, error) {
	// connection DB
	db, err := database.ConnectDB(cfg, migrate)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// enabling dependencies
	repo := repository.NewRepository(db.DB)
	services := service.NewService(repo, cfg, store, mailer, clock.System{})

	return db, repo, services, nil
}

// App wires everything the HTTP server needs.
func App(ctx context.Context, cfg *config.Config) (*Application, error) {
	// connection MinIO
	minioClient, err := storage.NewMinIOClient(ctx, cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO: %w", err)
	}

	var mailer mail.Mailer
	if cfg.SMTP.Host != "" {
		smtpMailer, err := mail.New(cfg.SMTP)
		if err != nil {
			return nil, err
		}
		mailer = smtpMailer
	} else {
		slog.Warn("SMTP_HOST is not set, notices will not be sent")
	}

	db, repo, services, err := Core(cfg, true, minioClient, mailer)
	if err != nil {
		return nil, err
	}

	providers := oauth.NewProviders(cfg.OAuth)
	for name := range providers {
		slog.Info("identity provider enabled", slog.String("provider", name))
	}

	return &Application{
		DB:       db,
		Repo:     repo,
		Services: services,
		Handlers: handlers.NewHandlers(services, providers, minioClient, db, cfg),
	}, nil
}
