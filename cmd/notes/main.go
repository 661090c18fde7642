// Package main реализует точку входа службы заметок.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	authservices "sharenote/internal/auth/adapters/services"
	authapp "sharenote/internal/auth/app"
	"sharenote/internal/config"
	"sharenote/internal/db"
	router "sharenote/internal/gateway/adapters/http"
	"sharenote/internal/gateway/app/services"
	"sharenote/internal/notes/adapters/cache"
	"sharenote/internal/notes/adapters/grpc"
	notesapp "sharenote/internal/notes/app"
	"sharenote/pkg/db/redis"
	"sharenote/pkg/logger"
	"sharenote/pkg/resilience"
	"sharenote/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "NOTES_LOGGER_MODE"
	EnvLoggerLevel = "NOTES_LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitDB               = "failed to initialize database"
	ErrCreateRedisClient    = "failed to create Redis client"
	ErrStartGRPC            = "failed to start gRPC server"
	ErrStartHTTPServer      = "failed to start HTTP server"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "note service started"
	LogServiceShutdownDone = "note service shutdown complete"
	LogClosingDB           = "closing database connections"
	LogClosingCache        = "closing Redis connection"
	LogStoppingGRPC        = "stopping gRPC server"
	LogStoppingHTTP        = "stopping HTTP server"
	LogStoppingCleanup     = "stopping token cleanup"
	LogInitRepo            = "initializing repositories"
	LogInitCache           = "initializing note cache"
	LogInitServices        = "initializing services"
	LogInitUseCases        = "initializing use cases"
	LogInitHTTPServer      = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
	LogStartingGRPC        = "starting gRPC health server"
)

const tokenCleanupInterval = time.Hour

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx)
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		database, err := db.New(ctx, &cfg.Postgres, db.DefaultOptions())
		if err != nil {
			log.Error(ctx, ErrInitDB, zap.Error(err))
			exitCode = 1
			return
		}

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(cfg.Logging.GetEnvironment())),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		log.Info(ctx, LogInitRepo)
		repos := db.NewRepositories(database.Pool())

		hooks := []shutdown.Hook{
			func(ctx context.Context) error {
				log.Info(ctx, LogClosingDB)
				database.Close(ctx)
				return nil
			},
		}

		if cfg.Redis.Enabled {
			log.Info(ctx, LogInitCache)
			client, err := redis.NewClient(ctx, cfg.Redis.ClientConfig())
			if err != nil {
				log.Error(ctx, ErrCreateRedisClient, zap.Error(err))
				database.Close(ctx)
				exitCode = 1
				return
			}
			redisCache := cache.NewRedisCache(client, cfg.Redis.TTL, resilience.DefaultCircuitBreakerConfig())
			repos.WithNoteCache(redisCache, cfg.Redis.TTL)

			hooks = append(hooks, func(ctx context.Context) error {
				log.Info(ctx, LogClosingCache)
				return redisCache.Close()
			})
		}

		log.Info(ctx, LogInitServices)
		serviceFactory := authservices.NewServiceFactory(&cfg.JWT)

		log.Info(ctx, LogInitUseCases)
		authUseCase := authapp.NewAuthUseCase(
			repos.Users,
			repos.Tokens,
			serviceFactory.PasswordService(),
			serviceFactory.TokenService(),
		)
		noteUseCase := notesapp.NewNoteUseCase(repos.Notes)

		authService := services.NewAuthService(authUseCase, serviceFactory.TokenService())
		notesService := services.NewNotesService(noteUseCase)

		log.Info(ctx, LogInitHTTPServer)
		app := fiber.New(fiber.Config{
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
			BodyLimit:    cfg.HTTP.BodyLimit,
		})
		router.SetupRouter(app, authService, notesService)

		log.Info(ctx, LogStartingGRPC)
		grpcServer := grpc.New(&cfg.GRPC, database)
		if err := grpcServer.Start(ctx); err != nil {
			log.Error(ctx, ErrStartGRPC, zap.Error(err))
			database.Close(ctx)
			exitCode = 1
			return
		}

		log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
		go func() {
			if err := app.Listen(cfg.HTTP.GetAddress()); err != nil {
				log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
			}
		}()

		cleanupCtx, stopCleanup := context.WithCancel(ctx)
		go runTokenCleanup(cleanupCtx, authUseCase.CleanupExpiredTokens)

		hooks = append(hooks,
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingCleanup)
				stopCleanup()
				return nil
			},
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingGRPC)
				grpcServer.Stop(ctx)
				return nil
			},
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingHTTP)
				return app.ShutdownWithContext(ctx)
			},
		)

		shutdown.Wait(ctx, cfg.Shutdown.GetTimeout(), hooks...)

		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// runTokenCleanup периодически удаляет просроченные refresh-токены до отмены ctx.
func runTokenCleanup(ctx context.Context, cleanup func(context.Context) (int64, error)) {
	ticker := time.NewTicker(tokenCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Ошибка уже залогирована сценарием.
			_, _ = cleanup(ctx)
		}
	}
}
