package api

import (
	"context"
	"database/sql"
	"fmt"

	"catalog-service/internal/api/interfaces"
	"catalog-service/internal/auth"
	"catalog-service/internal/cache"
	"catalog-service/internal/database/repositories"
	"catalog-service/internal/metrics"
	"catalog-service/internal/ratelimit"
	"catalog-service/internal/services"
	"catalog-service/pkg/config"
	"catalog-service/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const rateLimitPrefix = "catalog:ratelimit:"

// Services contains all the dependencies for API handlers
type Services struct {
	// Core dependencies
	DB     *sql.DB
	Redis  *redis.Client
	Logger *logger.Logger
	Config *config.Config

	metrics *metrics.Metrics
	gate    *auth.Gate
	limiter ratelimit.Limiter
	cache   cache.Cache

	accountService    *services.AccountService
	userRepository    *repositories.UserRepository
	productRepository *repositories.ProductRepository
}

var _ interfaces.Services = (*Services)(nil)

// NewServices creates a new services container. redisClient may be nil
// when no store is configured to use Redis.
func NewServices(db *sql.DB, redisClient *redis.Client, log *logger.Logger, cfg *config.Config) (*Services, error) {
	codec, err := auth.NewTokenCodec(auth.CodecConfig{
		AccessSecret:  cfg.Security.AccessTokenSecret,
		RefreshSecret: cfg.Security.RefreshTokenSecret,
		AccessTTL:     cfg.Security.AccessTokenTTL,
		RefreshTTL:    cfg.Security.RefreshTokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("token codec: %w", err)
	}

	s := &Services{
		DB:                db,
		Redis:             redisClient,
		Logger:            log,
		Config:            cfg,
		metrics:           metrics.NewMetrics(),
		gate:              auth.NewGate(codec),
		userRepository:    repositories.NewUserRepository(db),
		productRepository: repositories.NewProductRepository(db),
	}

	s.accountService = services.NewAccountService(
		s.userRepository,
		auth.NewBcryptHasher(cfg.Security.BcryptCost),
		codec,
		log,
	)

	if err := s.initializeStores(); err != nil {
		return nil, err
	}

	if cfg.SingleSecret() {
		log.Warning("Refresh token secret not set; signing both token kinds with the access secret")
	} else {
		log.Info("Using separate access and refresh token secrets")
	}

	return s, nil
}

func (s *Services) initializeStores() error {
	rl := s.Config.RateLimit
	if rl.Enabled {
		switch rl.Store {
		case "redis":
			if s.Redis == nil {
				return fmt.Errorf("rate limit store redis requires a redis client")
			}
			s.limiter = ratelimit.NewRedisLimiter(s.Redis, rateLimitPrefix, rl.Max, rl.Window)
		default:
			s.limiter = ratelimit.NewMemoryLimiter(rl.Max, rl.Window, rl.CleanupInterval)
		}
	}

	cc := s.Config.Cache
	if cc.Enabled {
		switch cc.Store {
		case "redis":
			if s.Redis == nil {
				return fmt.Errorf("cache store redis requires a redis client")
			}
			s.cache = cache.NewRedisCache(s.Redis, cc.Prefix)
		default:
			s.cache = cache.NewMemoryCache()
		}
	}

	return nil
}

// GetLogger returns the logger
func (s *Services) GetLogger() *logger.Logger {
	return s.Logger
}

// GetConfig returns the configuration
func (s *Services) GetConfig() *config.Config {
	return s.Config
}

// GetMetrics returns the metrics registry
func (s *Services) GetMetrics() *metrics.Metrics {
	return s.metrics
}

// AuthGate returns the request admission gate
func (s *Services) AuthGate() *auth.Gate {
	return s.gate
}

// AccountService returns the account service
func (s *Services) AccountService() interfaces.AccountService {
	return s.accountService
}

// ProductRepository returns the product store
func (s *Services) ProductRepository() interfaces.ProductStore {
	return s.productRepository
}

// ResponseCache returns the response cache, or nil when disabled
func (s *Services) ResponseCache() cache.Cache {
	return s.cache
}

// RateLimiter returns the rate limiter, or nil when disabled
func (s *Services) RateLimiter() ratelimit.Limiter {
	return s.limiter
}

// HealthChecks pings every backing store
func (s *Services) HealthChecks(ctx context.Context) map[string]error {
	checks := map[string]error{
		"database": s.DB.PingContext(ctx),
	}
	if s.Redis != nil {
		checks["redis"] = s.Redis.Ping(ctx).Err()
	}
	return checks
}

// Close stops background workers. The database and Redis connections are
// owned by the caller.
func (s *Services) Close() error {
	if s.limiter != nil {
		return s.limiter.Close()
	}
	return nil
}
