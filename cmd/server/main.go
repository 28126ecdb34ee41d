package main

import (
	"context"
	"time"

	"ticketdesk/internal/alerts"
	"ticketdesk/internal/analytics"
	"ticketdesk/internal/config"
	"ticketdesk/internal/database"
	"ticketdesk/internal/email"
	"ticketdesk/internal/kvstore"
	"ticketdesk/internal/realtime"
	"ticketdesk/internal/reports"
	"ticketdesk/internal/server"
	"ticketdesk/internal/storage"
	"ticketdesk/internal/tickets"
	"ticketdesk/internal/translate"
	"ticketdesk/internal/webhook"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup logger
	logger := cfg.SetupLogger()

	// Initialize database connection
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Database connection failed")
	}
	if err := database.Bootstrap(db); err != nil {
		logger.Fatal().Err(err).Msg("Schema bootstrap failed")
	}
	logger.Info().Msg("Database connection established successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Realtime bridge: in-process hub plus, on Postgres, LISTEN/NOTIFY
	// so changes from other connections reach subscribers too
	hub := realtime.NewHub()
	if database.DriverFor(cfg.DatabaseURL) == database.DriverPostgres {
		go func() {
			if err := realtime.Listen(ctx, cfg.DatabaseURL, cfg.ListenChannel, hub, logger); err != nil && ctx.Err() == nil {
				logger.Error().Err(err).Msg("Postgres change listener stopped")
			}
		}()
	}

	store := tickets.NewStore(db, hub, logger)
	sessions := tickets.NewSessions(store, logger)
	analyticsService := analytics.NewService(store, db, logger, time.Duration(cfg.DashboardTTL)*time.Second)
	go analyticsService.Watch(ctx, hub)

	webhookClient := webhook.NewClient(cfg.WebhookRelayURL, logger)
	notifier := alerts.NewNotifier(db, webhookClient, logger)
	go notifier.Watch(ctx, hub, analyticsService, alerts.DefaultQuiescence)

	loc, err := time.LoadLocation(cfg.ReportTimezone)
	if err != nil {
		logger.Warn().Err(err).Str("timezone", cfg.ReportTimezone).Msg("Invalid report timezone, using UTC")
		loc = time.UTC
	}
	scheduler := reports.NewScheduler(db, analyticsService, webhookClient, logger, loc)
	if cfg.EnableReports {
		if err := scheduler.Reload(ctx); err != nil {
			logger.Warn().Err(err).Msg("Report scheduler failed to start")
		}
		defer scheduler.Stop()
	}

	avatars, err := storage.NewAvatarStore(cfg.AvatarDir, cfg.PublicBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Avatar store setup failed")
	}

	mailer := email.NewService(cfg.SendGridAPIKey, cfg.SupportEmail, cfg.SupportName)
	translator := translate.New(cfg.OpenAIKey, cfg.TranslateModel, time.Duration(cfg.OpenAITimeout)*time.Second)
	if translator == nil {
		logger.Info().Msg("No OpenAI key configured, reply translation disabled")
	}

	// Create and initialize server
	srv := server.New(cfg, db, logger, server.Deps{
		Hub:       hub,
		Store:     store,
		Sessions:  sessions,
		Analytics: analyticsService,
		Scheduler: scheduler,
		Board:     kvstore.New(db),
		Avatars:   avatars,
		Mailer:    mailer,
		Translate: translator,
	})
	srv.Initialize()

	// Start server
	if err := srv.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Server failed to start")
	}
}
