package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"usermgmt/backend/internal/config"
	domain "usermgmt/backend/internal/domain/user"
	"usermgmt/backend/internal/httpserver"
	"usermgmt/backend/internal/infrastructure/memstore"
	"usermgmt/backend/internal/infrastructure/password"
	"usermgmt/backend/internal/infrastructure/postgres"
	"usermgmt/backend/internal/infrastructure/token"
	"usermgmt/backend/internal/logger"
	authusecase "usermgmt/backend/internal/usecase/auth"
	userusecase "usermgmt/backend/internal/usecase/user"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Development)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	rootCtx := context.Background()

	var users domain.Repository
	switch cfg.Store {
	case config.StoreMemory:
		zapLogger.Warn("using in-memory user store; data will not survive restarts")
		users = memstore.NewUserRepository()
	default:
		db, err := postgres.New(rootCtx, cfg.DatabaseURL)
		if err != nil {
			zapLogger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		if err := db.Migrate(rootCtx); err != nil {
			zapLogger.Fatal("failed to run database migrations", zap.Error(err))
		}
		users = postgres.NewUserRepository(db.Pool)
	}

	tokenManager := token.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry, cfg.JWTIssuer)
	hasher := password.NewBcryptHasher()

	authService := authusecase.NewService(users, tokenManager, hasher)
	userService := userusecase.NewService(users, hasher)

	server := httpserver.NewServer(cfg, zapLogger, authService, userService, tokenManager)
	zapLogger.Info("HTTP server listening", zap.String("addr", server.Addr()))

	go func() {
		if err := server.Start(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				zapLogger.Info("HTTP server closed")
				return
			}
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zapLogger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		zapLogger.Info("graceful shutdown completed")
	}
}
