package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/alhamla/campaign-office/internal"
	"github.com/alhamla/campaign-office/internal/audit"
	auditPostgres "github.com/alhamla/campaign-office/internal/audit/postgres"
	"github.com/alhamla/campaign-office/internal/auth"
	authPostgres "github.com/alhamla/campaign-office/internal/auth/postgres"
	"github.com/alhamla/campaign-office/internal/core/events"
	"github.com/alhamla/campaign-office/internal/individual"
	individualPostgres "github.com/alhamla/campaign-office/internal/individual/postgres"
	"github.com/alhamla/campaign-office/internal/joinrequest"
	jrPostgres "github.com/alhamla/campaign-office/internal/joinrequest/postgres"
	"github.com/alhamla/campaign-office/internal/message"
	messagePostgres "github.com/alhamla/campaign-office/internal/message/postgres"
	"github.com/alhamla/campaign-office/internal/post"
	postPostgres "github.com/alhamla/campaign-office/internal/post/postgres"
	"github.com/alhamla/campaign-office/internal/role"
	rolePostgres "github.com/alhamla/campaign-office/internal/role/postgres"
	"github.com/alhamla/campaign-office/internal/transport/rest"
	"github.com/alhamla/campaign-office/internal/transport/swagger"
	"github.com/alhamla/campaign-office/internal/user"
	userPostgres "github.com/alhamla/campaign-office/internal/user/postgres"
	"github.com/alhamla/campaign-office/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	GormDB   *gorm.DB
	Router   *chi.Mux
	Handlers rest.Handlers
	Gate     *auth.Gate
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Gate, deps.Handlers, deps.Config.Server.AllowedOrigins, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	if err := swagger.ValidateSpec(context.Background(), "./api/openapi.yml"); err != nil {
		lg.Warn("openapi spec unavailable, docs route may 404", "error", err)
	}

	codec, err := buildSessionCodec(config.Security)
	if err != nil {
		return nil, fmt.Errorf("failed to build session codec: %w", err)
	}

	bus := events.NewEventBus(lg)
	bus.Subscribe(audit.EventWriteFailed, func(ctx context.Context, e events.Event) error {
		lg.ErrorContext(ctx, "audit write failure escalated", "event_id", e.EventID(), "payload", e.Payload())
		return nil
	})

	auditRepo := auditPostgres.NewRepository(gormDB)
	auditService := audit.NewService(auditRepo, bus)

	authRepo := authPostgres.NewRepository(gormDB)
	csrfStore := auth.NewCSRFStore(config.Security.CSRFTokenTTL)
	authService := auth.NewService(authRepo, codec, csrfStore, config.Security.BCryptCost)

	gate := auth.NewGate(codec, authRepo, csrfStore, auth.GateConfig{
		SessionCookieName: config.Security.SessionCookieName,
		CSRFHeaderName:    config.Security.CSRFHeaderName,
		ResolveTimeout:    config.Security.ResolveTimeout,
	}, lg)

	cookies := auth.CookieConfig{
		SessionName: config.Security.SessionCookieName,
		CSRFName:    config.Security.CSRFCookieName,
		Secure:      config.Security.SecureCookies,
		SessionTTL:  config.Security.SessionTTL,
		CSRFTTL:     config.Security.CSRFTokenTTL,
	}

	userRepo := userPostgres.NewRepository(gormDB, auditService)
	roleRepo := rolePostgres.NewRepository(gormDB, auditService)
	postRepo := postPostgres.NewRepository(gormDB, auditService)
	jrRepo := jrPostgres.NewRepository(gormDB, auditService)
	messageRepo := messagePostgres.NewRepository(gormDB, auditService)
	individualRepo := individualPostgres.NewRepository(gormDB, auditService)

	handlers := rest.Handlers{
		Auth:        auth.NewHandler(authService, codec, authRepo, cookies),
		User:        user.NewHandler(user.NewService(userRepo, authService)),
		Role:        role.NewHandler(role.NewService(roleRepo)),
		Post:        post.NewHandler(post.NewService(postRepo)),
		JoinRequest: joinrequest.NewHandler(joinrequest.NewService(jrRepo)),
		Message:     message.NewHandler(message.NewService(messageRepo)),
		Individual:  individual.NewHandler(individual.NewService(individualRepo)),
		Audit:       audit.NewHandler(auditService),
	}

	return &Dependencies{
		Config:   config,
		Logger:   lg,
		DB:       db,
		GormDB:   gormDB,
		Router:   chi.NewRouter(),
		Handlers: handlers,
		Gate:     gate,
	}, nil
}

// buildSessionCodec picks the token scheme: signed tokens by default, the
// legacy unsigned codec only when explicitly configured, and a migrating
// codec when both a secret and legacy acceptance are wanted.
func buildSessionCodec(cfg internal.SecurityConfig) (auth.SessionCodec, error) {
	if cfg.LegacySessions && cfg.SessionSecret == "" {
		return auth.NewLegacyCodec(), nil
	}
	signed, err := auth.NewSignedCodec(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		return nil, err
	}
	if cfg.LegacySessions {
		return auth.NewMigratingCodec(signed), nil
	}
	return signed, nil
}

func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
