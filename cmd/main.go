package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/sbilibin2017/gw-identity/docs"
	"github.com/sbilibin2017/gw-identity/internal/config"
	"github.com/sbilibin2017/gw-identity/internal/facades"
	"github.com/sbilibin2017/gw-identity/internal/handlers"
	"github.com/sbilibin2017/gw-identity/internal/health"
	"github.com/sbilibin2017/gw-identity/internal/jwt"
	"github.com/sbilibin2017/gw-identity/internal/logger"
	"github.com/sbilibin2017/gw-identity/internal/middlewares"
	"github.com/sbilibin2017/gw-identity/internal/migrations"
	"github.com/sbilibin2017/gw-identity/internal/password"
	"github.com/sbilibin2017/gw-identity/internal/repositories"
	"github.com/sbilibin2017/gw-identity/internal/services"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title gw-identity API
// @version 1.0.0
// @description User identity service: accounts, sessions and admin user management
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Build version: %s\nBuild date: %s\nBuild commit: %s\n", buildVersion, buildDate, buildCommit)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// app holds the services the HTTP router is built from.
type app struct {
	tokens      *jwt.JWT
	revocations middlewares.RevocationChecker
	identity    *services.IdentityService
	auth        *services.AuthService
	admin       *services.AdminService
}

// run initializes the logger, database, Redis, Kafka, the gRPC health
// server and the HTTP server, then blocks until a shutdown signal.
func run(ctx context.Context, cfg *config.Config) error {
	if err := logger.Initialize(cfg.App.LogLevel, cfg.App.LogFormat); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infow("logger initialized", "level", cfg.App.LogLevel)

	// PostgreSQL
	logger.Log.Infow("connecting to PostgreSQL", "host", cfg.Postgres.Host, "port", cfg.Postgres.Port, "db", cfg.Postgres.DB)
	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.Postgres.DSN())
	if err != nil {
		return fmt.Errorf("PostgreSQL connection error: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)

	if err := migrations.Up(ctx, db.DB); err != nil {
		return err
	}

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		// cache failures degrade to store reads
		logger.Log.Warnw("Redis is unreachable", "addr", cfg.Redis.Addr(), "error", err)
	}

	// Kafka
	var kafkaWriter facades.KafkaWriter
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaWriter = &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Kafka.Brokers...),
			Topic:                  cfg.Kafka.Topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			Async:                  true,
			AllowAutoTopicCreation: true,
		}
		logger.Log.Infow("publishing user events", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}
	events := facades.NewUserEventsKafkaFacade(kafkaWriter)
	defer events.Close()

	// Repositories
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db)
	userCacheRepo := repositories.NewUserCacheRepository(rdb)
	credentialRepo := repositories.NewCredentialReadRepository(db)
	revocations := repositories.NewSessionRevocationRepository(rdb)

	// Services
	tokens := jwt.New(jwt.WithSecretKey(cfg.JWT.SecretKey), jwt.WithExpiration(cfg.JWT.Exp))
	hasher := password.NewHasher(bcrypt.DefaultCost)
	identity := services.NewIdentityService(userReadRepo, userWriteRepo, userCacheRepo, events, cfg.Cache.UserTTL)
	authService := services.NewAuthService(identity, hasher, tokens, revocations, credentialRepo)
	adminService := services.NewAdminService(identity, hasher)

	if cfg.Admin.Password != "" {
		if _, err := authService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Name, cfg.Admin.Password); err != nil {
			return fmt.Errorf("failed to seed admin user: %w", err)
		}
	}

	r := newRouter(cfg, &app{
		tokens:      tokens,
		revocations: revocations,
		identity:    identity,
		auth:        authService,
		admin:       adminService,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.App.Host, cfg.App.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// gRPC health
	healthSrv := health.NewServer(cfg.GRPC.HealthInterval,
		health.Check{Name: "postgres", Pinger: health.PingFunc(db.PingContext)},
		health.Check{Name: "redis", Pinger: health.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})},
	)
	lis, err := net.Listen("tcp", ":"+cfg.GRPC.Port)
	if err != nil {
		return fmt.Errorf("gRPC listen failed: %w", err)
	}

	// Graceful shutdown
	errChan := make(chan error, 2)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go healthSrv.Watch(ctxShutdown)

	go func() {
		logger.Log.Infow("gRPC health server listening", "port", cfg.GRPC.Port)
		if err := healthSrv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("gRPC server failed: %w", err)
		}
	}()

	go func() {
		logger.Log.Infow("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping servers...")
	case serveErr := <-errChan:
		healthSrv.Stop()
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}
	healthSrv.Stop()

	logger.Log.Info("servers stopped gracefully")
	return nil
}

// newRouter mounts every HTTP route.
func newRouter(cfg *config.Config, a *app) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))

	authenticated := middlewares.AuthMiddleware(a.tokens, a.revocations)

	// Public routes
	r.Post("/auth/register", handlers.NewRegisterHandler(a.auth))
	r.Post("/auth/login", handlers.NewLoginHandler(a.auth))
	r.Post("/api/password/strength", handlers.NewPasswordStrengthHandler())

	// Session routes
	r.Group(func(r chi.Router) {
		r.Use(authenticated)
		r.Post("/auth/logout", handlers.NewLogoutHandler(a.auth))
		r.Get("/api/users/me", handlers.NewProfileHandler(a.auth))
	})

	// Admin routes
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticated)
		r.Use(middlewares.AdminMiddleware(a.identity))

		r.Get("/users", handlers.NewListUsersHandler(a.admin))
		r.Post("/users", handlers.NewCreateUserHandler(a.admin))
		r.Post("/users/delete", handlers.NewBulkDeleteUsersHandler(a.admin))
		r.Get("/users/{id}", handlers.NewGetUserHandler(a.admin))
		r.Put("/users/{id}", handlers.NewUpdateUserHandler(a.admin))
		r.Delete("/users/{id}", handlers.NewDeleteUserHandler(a.admin))
		r.Post("/cache/clear", handlers.NewClearCacheHandler(a.admin))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.App.Host, cfg.App.Port)),
	))

	return r
}
