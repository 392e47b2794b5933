package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"catalog-service/internal/api"
	"catalog-service/internal/database"
	"catalog-service/pkg/config"
	"catalog-service/pkg/logger"
	"catalog-service/pkg/redisclient"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "catalog-service: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("CATALOG_CONFIG")
	if configPath == "" {
		configPath = "configs/server.yaml"
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.NewLogger(cfg.Logging)
	defer log.Close()
	log.WithField("config", cfg.SanitizeForLogging()).Debug("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewConnection(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db, cfg.Database.Type); err != nil {
		return err
	}
	log.WithField("type", cfg.Database.Type).Info("Database ready")

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redisclient.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		log.WithField("addr", cfg.Redis.Addr).Info("Connected to Redis")
	}

	services, err := api.NewServices(db, redisClient, log, cfg)
	if err != nil {
		return err
	}
	defer services.Close()

	gin.SetMode(cfg.GinMode())
	router := gin.New()
	api.SetupRoutes(router, services)

	serverErrors := log.WithComponent("http").Writer()
	defer serverErrors.Close()

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     stdlog.New(serverErrors, "", 0),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting catalog server on %s", server.Addr)
		var err error
		if cfg.Server.TLS.Enabled {
			err = server.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
