package server

import (
	"time"

	"ticketdesk/internal/analytics"
	"ticketdesk/internal/config"
	"ticketdesk/internal/email"
	"ticketdesk/internal/handlers"
	"ticketdesk/internal/kvstore"
	"ticketdesk/internal/realtime"
	"ticketdesk/internal/reports"
	"ticketdesk/internal/storage"
	"ticketdesk/internal/tickets"
	"ticketdesk/internal/translate"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Server represents the application server
type Server struct {
	echo      *echo.Echo
	db        *sqlx.DB
	config    *config.Config
	logger    zerolog.Logger
	hub       *realtime.Hub
	store     *tickets.Store
	sessions  *tickets.Sessions
	analytics *analytics.Service
	scheduler *reports.Scheduler
	board     *kvstore.Store
	avatars   *storage.AvatarStore
	mailer    *email.Service
	translate *translate.Translator
}

// Deps collects the constructed services the server routes to
type Deps struct {
	Hub       *realtime.Hub
	Store     *tickets.Store
	Sessions  *tickets.Sessions
	Analytics *analytics.Service
	Scheduler *reports.Scheduler
	Board     *kvstore.Store
	Avatars   *storage.AvatarStore
	Mailer    *email.Service
	Translate *translate.Translator
}

// New creates a new server instance
func New(cfg *config.Config, db *sqlx.DB, logger zerolog.Logger, deps Deps) *Server {
	return &Server{
		config:    cfg,
		db:        db,
		logger:    logger,
		hub:       deps.Hub,
		store:     deps.Store,
		sessions:  deps.Sessions,
		analytics: deps.Analytics,
		scheduler: deps.Scheduler,
		board:     deps.Board,
		avatars:   deps.Avatars,
		mailer:    deps.Mailer,
		translate: deps.Translate,
	}
}

// zerologMiddleware creates a zerolog-based logging middleware for Echo
func (s *Server) zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			req := c.Request()
			res := c.Response()

			s.logger.Info().
				Str("method", req.Method).
				Str("uri", req.RequestURI).
				Str("remote_ip", c.RealIP()).
				Int("status", res.Status).
				Int64("latency_ms", time.Since(start).Milliseconds()).
				Str("user_agent", req.UserAgent()).
				Msg("HTTP request")

			return err
		}
	}
}

// Initialize sets up the Echo framework with middleware and routes
func (s *Server) Initialize() {
	s.echo = echo.New()

	// Middleware
	s.echo.Use(s.zerologMiddleware())
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORS())

	// Hide Echo banner
	s.echo.HideBanner = true

	// Setup routes
	s.setupRoutes()
}

// setupRoutes configures all the application routes
func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	// Swagger documentation
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	// Health endpoints (keep at root level for monitoring)
	s.echo.GET("/healthz", handlers.HealthHandler(s.config.Version))
	s.echo.GET("/healthz/db", handlers.DBHealthHandler(s.db))

	api.GET("/", handlers.RootHandler(s.config.Version))

	// Ticket list and lifecycle
	api.GET("/tickets", handlers.TicketListHandler(s.store, s.sessions, s.logger))
	api.POST("/tickets", handlers.CreateTicketHandler(s.store, s.logger))
	api.GET("/tickets/:id", handlers.TicketDetailHandler(s.store, s.logger))
	api.PUT("/tickets/:id/status", handlers.SetStatusHandler(s.store, s.logger))
	api.POST("/tickets/:id/toggle", handlers.ToggleStatusHandler(s.store, s.logger))
	api.POST("/tickets/:id/reply", handlers.ReplyHandler(s.store, s.mailer, s.translate, s.logger))
	api.POST("/tickets/:id/messages", handlers.InboundMessageHandler(s.store, s.logger))
	api.POST("/tickets/bulk/status", handlers.BulkStatusHandler(s.store, s.logger))
	api.POST("/tickets/bulk/delete", handlers.BulkDeleteHandler(s.store, s.logger))

	// Analytics
	api.GET("/dashboard", handlers.DashboardHandler(s.analytics, s.logger))
	api.GET("/analytics", handlers.AnalyticsHandler(s.analytics, s.logger))

	// Realtime change events
	api.GET("/events", handlers.EventsHandler(s.hub, s.logger))

	// Catalog and settings
	api.GET("/projects", handlers.ProjectListHandler(s.db, s.logger))
	api.POST("/projects", handlers.SaveProjectHandler(s.db, s.logger))
	api.DELETE("/projects/:id", handlers.DeleteProjectHandler(s.db, s.logger))
	api.GET("/tags", handlers.TagListHandler(s.db, s.logger))
	api.POST("/tags", handlers.SaveTagHandler(s.db, s.logger))
	api.DELETE("/tags/:id", handlers.DeleteTagHandler(s.db, s.logger))
	api.GET("/quick-replies", handlers.QuickReplyListHandler(s.db, s.logger))
	api.POST("/quick-replies", handlers.SaveQuickReplyHandler(s.db, s.logger))
	api.DELETE("/quick-replies/:id", handlers.DeleteQuickReplyHandler(s.db, s.logger))
	api.GET("/settings/alerts", handlers.AlertSettingsHandler(s.db, s.logger))
	api.PUT("/settings/alerts", handlers.SaveAlertSettingHandler(s.db, s.logger))
	api.GET("/settings/reports", handlers.ReportSettingsHandler(s.db, s.logger))
	api.PUT("/settings/reports", handlers.SaveReportSettingHandler(s.db, s.scheduler, s.logger))

	// Agent profile and board
	api.GET("/profile", handlers.ProfileHandler(s.db, s.logger))
	api.POST("/profile", handlers.SaveProfileHandler(s.db, s.avatars, s.logger))
	api.GET("/board/:key", handlers.BoardGetHandler(s.board, s.logger))
	api.PUT("/board/:key", handlers.BoardPutHandler(s.board, s.logger))

	// Uploaded avatars
	s.echo.Static("/avatars", s.avatars.Dir())
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info().Str("port", s.config.Port).Msg("Server starting")
	return s.echo.Start(":" + s.config.Port)
}
