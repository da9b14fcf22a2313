// Package app wires the user-service together: configuration, logging,
// Postgres, Redis, Kafka, the auth core and the HTTP server.
package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/matching-platform/user-service/internal/config"
	"github.com/matching-platform/user-service/internal/domain/interfaces"
	"github.com/matching-platform/user-service/internal/domain/repository/postgres"
	redisrepo "github.com/matching-platform/user-service/internal/domain/repository/redis"
	"github.com/matching-platform/user-service/internal/events"
	httphandler "github.com/matching-platform/user-service/internal/handler/http"
	"github.com/matching-platform/user-service/internal/infrastructure/notification"
	"github.com/matching-platform/user-service/internal/infrastructure/security"
	"github.com/matching-platform/user-service/internal/service"
	"github.com/matching-platform/user-service/internal/utils/logger"
)

// App holds the long-lived components of the service.
type App struct {
	cfg        *config.Config
	logger     *zap.Logger
	pool       *pgxpool.Pool
	redis      *redis.Client
	publisher  *events.Publisher
	httpServer *http.Server
}

// NewApp builds the full dependency graph from configuration.
func NewApp(cfg *config.Config) (*App, error) {
	log, err := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Environment)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Database.User, cfg.Database.Password,
		cfg.Database.Host, cfg.Database.Port,
		cfg.Database.DBName, cfg.Database.SSLMode,
	)
	if cfg.Database.AutoMigrate {
		if err := runMigrations(dsn); err != nil {
			return nil, err
		}
		log.Info("Database migrations applied")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	kv := redisrepo.NewKVStore(redisClient, logger.WithComponent(log, "kv"))
	users := postgres.NewUserRepositoryPostgres(pool)
	passwords := security.NewArgon2PasswordService(security.DefaultArgon2Params())

	verification := service.NewVerificationService(kv, cfg.Verification, logger.WithComponent(log, "verification"))
	limiter := service.NewLoginLimiter(kv, cfg.Lockout, logger.WithComponent(log, "login_limiter"))
	tokens := service.NewTokenService(kv, cfg.Token, logger.WithComponent(log, "tokens"))

	var publisher *events.Publisher
	var authPublisher service.EventPublisher
	var notifier interfaces.NotificationService = &notification.LogNotifier{Logger: log}
	if cfg.Kafka.Enabled {
		publisher = events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.AuthEventsTopic, logger.WithComponent(log, "events"))
		authPublisher = publisher
		notifier = notification.NewKafkaNotifier(cfg.Kafka.Brokers, cfg.Kafka.NotificationTopic, logger.WithComponent(log, "notifier"))
	}

	auth := service.NewAuthService(users, kv, verification, limiter, tokens, passwords,
		authPublisher, cfg.Cache, logger.WithComponent(log, "auth"))

	if cfg.Logging.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler := httphandler.NewUserHandler(auth, tokens, notifier, cfg.Token.AccessTokenTTL, logger.WithComponent(log, "http"))
	handler.RegisterRoutes(router)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		pool:       pool,
		redis:      redisClient,
		publisher:  publisher,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until a shutdown signal arrives.
func (a *App) Run() error {
	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("http server error: %w", err)
	case sig := <-quit:
		a.logger.Info("Shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("HTTP server shutdown error", zap.Error(err))
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("Failed to close event publisher", zap.Error(err))
		}
	}
	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error("Failed to close redis client", zap.Error(err))
	}
	return nil
}

func runMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
