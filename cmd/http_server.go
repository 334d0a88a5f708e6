package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/albaledger/portal/internal"
	"github.com/albaledger/portal/internal/auth"
	"github.com/albaledger/portal/internal/core/events"
	"github.com/albaledger/portal/internal/document"
	documentPostgres "github.com/albaledger/portal/internal/document/postgres"
	"github.com/albaledger/portal/internal/employee"
	employeePostgres "github.com/albaledger/portal/internal/employee/postgres"
	"github.com/albaledger/portal/internal/notification"
	notificationPostgres "github.com/albaledger/portal/internal/notification/postgres"
	"github.com/albaledger/portal/internal/transport"
	"github.com/albaledger/portal/internal/transport/rest"
	"github.com/albaledger/portal/internal/user"
	userPostgres "github.com/albaledger/portal/internal/user/postgres"
	"github.com/albaledger/portal/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	gormSqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
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
	Config    *internal.Config
	GormDB    *gorm.DB
	HealthDB  *sql.DB
	Router    *chi.Mux
	Logger    *slog.Logger
	Scheduler *notification.Scheduler

	AuthHandler         *auth.Handler
	UserHandler         *user.Handler
	DocumentHandler     *document.Handler
	EmployeeHandler     *employee.Handler
	NotificationHandler *notification.Handler
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(
		deps.Router,
		deps.HealthDB,
		deps.AuthHandler,
		deps.UserHandler,
		deps.DocumentHandler,
		deps.EmployeeHandler,
		deps.NotificationHandler,
		deps.Logger,
	)

	schedulerCtx, cancelScheduler := context.WithCancel(context.Background())
	deps.Scheduler.Start(schedulerCtx)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		cancelScheduler()
		deps.Scheduler.Stop()
		if err := deps.HealthDB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		cancelScheduler()
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.LoggerWrapper()

	gormDB, err := initGorm(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	healthDB, err := initHealthDB(config.Database, gormDB)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize health check handle: %w", err)
	}

	eventBus := events.NewEventBus(lg)

	userRepo := userPostgres.NewUserRepository(gormDB)
	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(userRepo, tokenGen)
	authHandler := auth.NewHandler(authService)

	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(transport.NewBaseHandler(lg), userService)

	documentRepo := documentPostgres.NewDocumentRepository(gormDB)
	documentService := document.NewService(documentRepo, eventBus, lg, config.Uploads.MaxFileSize())
	documentHandler := document.NewHandler(documentService)

	employeeRepo := employeePostgres.NewEmployeeRepository(gormDB)
	employeeService := employee.NewService(employeeRepo, lg)
	employeeHandler := employee.NewHandler(employeeService)

	notificationRepo := notificationPostgres.NewNotificationRepository(gormDB)
	notifier := notification.NewLogNotifier(lg)
	notificationService := notification.NewService(notificationRepo, userRepo, notifier, lg)
	notificationService.RegisterEventHandlers(eventBus)
	notificationHandler := notification.NewHandler(notificationService)

	scheduler := notification.NewScheduler(
		notificationService,
		config.Deadlines.CheckHour,
		config.Deadlines.CheckInterval,
		lg,
	)

	return &Dependencies{
		Config:    config,
		GormDB:    gormDB,
		HealthDB:  healthDB,
		Router:    chi.NewRouter(),
		Logger:    lg,
		Scheduler: scheduler,

		AuthHandler:         authHandler,
		UserHandler:         userHandler,
		DocumentHandler:     documentHandler,
		EmployeeHandler:     employeeHandler,
		NotificationHandler: notificationHandler,
	}, nil
}

// initGorm opens the ORM handle. Postgres in deployments; sqlite serves local
// development without a server.
func initGorm(cfg internal.DatabaseConfig) (*gorm.DB, error) {
	switch cfg.Driver {
	case "sqlite":
		return gorm.Open(gormSqlite.Open(cfg.Source), &gorm.Config{})
	default:
		return gorm.Open(gormPostgres.Open(cfg.Source), &gorm.Config{})
	}
}

// initHealthDB opens the plain database/sql handle used by readiness checks.
// For postgres it is a separate pgx pool; for sqlite it shares the ORM handle.
func initHealthDB(cfg internal.DatabaseConfig, gormDB *gorm.DB) (*sql.DB, error) {
	if cfg.Driver == "sqlite" {
		return gormDB.DB()
	}

	dbConn, err := sqlx.Connect("pgx", cfg.Source)
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

	return dbConn.DB, nil
}
