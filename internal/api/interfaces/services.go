package interfaces

import (
	"context"
	"time"

	"catalog-service/internal/auth"
	"catalog-service/internal/cache"
	"catalog-service/internal/database"
	"catalog-service/internal/metrics"
	"catalog-service/internal/ratelimit"
	"catalog-service/pkg/config"
	"catalog-service/pkg/logger"
)

// AccountService registers users and hands out tokens
type AccountService interface {
	Register(ctx context.Context, username, password string) (*database.User, error)
	Login(ctx context.Context, username, password string) (auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, time.Time, error)
}

// ProductStore persists catalog entries
type ProductStore interface {
	Create(ctx context.Context, product *database.Product) error
	List(ctx context.Context) ([]database.Product, error)
	GetByID(ctx context.Context, id string) (*database.Product, error)
	Update(ctx context.Context, id string, patch database.ProductPatch) (*database.Product, error)
	Delete(ctx context.Context, id string) error
}

// Services defines the interface for API services
type Services interface {
	GetLogger() *logger.Logger
	GetConfig() *config.Config
	GetMetrics() *metrics.Metrics
	AuthGate() *auth.Gate
	AccountService() AccountService
	ProductRepository() ProductStore
	// ResponseCache and RateLimiter return nil when disabled.
	ResponseCache() cache.Cache
	RateLimiter() ratelimit.Limiter
	HealthChecks(ctx context.Context) map[string]error
}
