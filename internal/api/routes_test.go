package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"catalog-service/internal/api/models"
	"catalog-service/internal/auth"
	"catalog-service/internal/database"
	"catalog-service/pkg/config"
	"catalog-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessSecret  = "test-access-secret"
	testRefreshSecret = "test-refresh-secret"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Database = config.DatabaseConfig{Type: "sqlite", Path: filepath.Join(t.TempDir(), "catalog.db")}
	cfg.Security = config.SecurityConfig{
		AccessTokenSecret:  testAccessSecret,
		RefreshTokenSecret: testRefreshSecret,
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenTTL:    7 * 24 * time.Hour,
		BcryptCost:         bcrypt.MinCost,
	}
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, Store: "memory", Max: 1000, Window: time.Minute}
	cfg.Cache = config.CacheConfig{Enabled: true, Store: "memory", TTL: 300 * time.Second}
	cfg.API = config.APIConfig{
		Timeout: 5 * time.Second,
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
			AllowedHeaders: []string{"Content-Type", "Authorization", "Refresh-Token"},
			ExposedHeaders: []string{auth.NewAccessTokenHeader},
		},
	}
	return cfg
}

func newTestRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	router, _ := newTestRouterWithDB(t, cfg)
	return router
}

func newTestRouterWithDB(t *testing.T, cfg *config.Config) (*gin.Engine, *sql.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	db, err := database.NewConnection(ctx, &cfg.Database)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.RunMigrations(ctx, db, cfg.Database.Type))

	services, err := NewServices(db, nil, logger.Discard(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { services.Close() })

	router := gin.New()
	SetupRoutes(router, services)
	return router, db
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func registerAndLogin(t *testing.T, router http.Handler) models.LoginResponse {
	t.Helper()
	creds := map[string]string{"username": "alice", "password": "s3cret"}

	w := doJSON(t, router, http.MethodPost, "/users/register", creds, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/users/login", creds, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[models.LoginResponse](t, w)
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestAccountFlow(t *testing.T) {
	router := newTestRouter(t, testConfig(t))

	tokens := registerAndLogin(t, router)
	assert.NotEmpty(t, tokens.Token)
	assert.NotEmpty(t, tokens.RefreshToken)

	w := doJSON(t, router, http.MethodGet, "/products", nil, bearer(tokens.Token))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	assert.Empty(t, w.Header().Get(auth.NewAccessTokenHeader))
}

func TestRegister_Validation(t *testing.T) {
	router := newTestRouter(t, testConfig(t))

	w := doJSON(t, router, http.MethodPost, "/users/register", map[string]string{"username": "alice"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.ErrCodeInvalidRequest, decode[models.ErrorResponse](t, w).Code)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	router := newTestRouter(t, testConfig(t))
	creds := map[string]string{"username": "alice", "password": "s3cret"}

	require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/users/register", creds, nil).Code)

	w := doJSON(t, router, http.MethodPost, "/users/register", creds, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error registering user", decode[models.ErrorResponse](t, w).Error)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	router := newTestRouter(t, testConfig(t))
	registerAndLogin(t, router)

	wrong := doJSON(t, router, http.MethodPost, "/users/login", map[string]string{"username": "alice", "password": "nope"}, nil)
	unknown := doJSON(t, router, http.MethodPost, "/users/login", map[string]string{"username": "bob", "password": "s3cret"}, nil)

	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
}

func TestAuthGate(t *testing.T) {
	router := newTestRouter(t, testConfig(t))
	tokens := registerAndLogin(t, router)

	past := time.Now().Add(-time.Hour)
	codec, err := auth.NewTokenCodec(auth.CodecConfig{AccessSecret: testAccessSecret, RefreshSecret: testRefreshSecret})
	require.NoError(t, err)
	expired, _, err := codec.WithClock(func() time.Time { return past }).Issue(auth.AccessToken, "1", "alice")
	require.NoError(t, err)

	t.Run("missing authorization", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/products", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, models.ErrCodeUnauthorized, decode[models.ErrorResponse](t, w).Code)
	})

	t.Run("expired access without refresh", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/products", nil, bearer(expired))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("expired access with invalid refresh", func(t *testing.T) {
		headers := bearer(expired)
		headers[auth.RefreshTokenHeader] = "garbage"
		w := doJSON(t, router, http.MethodGet, "/products", nil, headers)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("expired access with valid refresh", func(t *testing.T) {
		headers := bearer(expired)
		headers[auth.RefreshTokenHeader] = tokens.RefreshToken
		w := doJSON(t, router, http.MethodGet, "/products", nil, headers)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		fresh := w.Header().Get(auth.NewAccessTokenHeader)
		require.NotEmpty(t, fresh)
		claims, err := codec.Verify(auth.AccessToken, fresh)
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.Username)
		assert.Equal(t, "1", claims.UserID())
	})
}

func TestRefreshTokenEndpoint(t *testing.T) {
	router := newTestRouter(t, testConfig(t))
	tokens := registerAndLogin(t, router)

	w := doJSON(t, router, http.MethodPost, "/users/refresh-token", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodPost, "/users/refresh-token", nil, map[string]string{auth.RefreshTokenHeader: tokens.Token})
	assert.Equal(t, http.StatusForbidden, w.Code, "an access token is not a refresh token")

	w = doJSON(t, router, http.MethodPost, "/users/refresh-token", nil, map[string]string{auth.RefreshTokenHeader: tokens.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)
	fresh := decode[models.TokenResponse](t, w).Token

	w = doJSON(t, router, http.MethodGet, "/products", nil, bearer(fresh))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProductCRUD(t *testing.T) {
	router := newTestRouter(t, testConfig(t))
	h := bearer(registerAndLogin(t, router).Token)

	w := doJSON(t, router, http.MethodPost, "/products", map[string]interface{}{"name": "Lamp", "description": "Desk lamp"}, h)
	assert.Equal(t, http.StatusBadRequest, w.Code, "price is required")

	w = doJSON(t, router, http.MethodPost, "/products", map[string]interface{}{"name": "Lamp", "description": "Desk lamp", "price": -1}, h)
	assert.Equal(t, http.StatusBadRequest, w.Code, "price must not be negative")

	w = doJSON(t, router, http.MethodPost, "/products", map[string]interface{}{"name": "Lamp", "description": "Desk lamp", "price": 19.5}, h)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[database.Product](t, w)
	require.NotEmpty(t, created.ID)

	w = doJSON(t, router, http.MethodGet, "/products/"+created.ID, nil, h)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Lamp", decode[database.Product](t, w).Name)

	w = doJSON(t, router, http.MethodPut, "/products/"+created.ID, map[string]interface{}{"price": 25}, h)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[database.Product](t, w)
	assert.Equal(t, 25.0, updated.Price)
	assert.Equal(t, "Desk lamp", updated.Description)

	w = doJSON(t, router, http.MethodPut, "/products/missing", map[string]interface{}{"price": 1}, h)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Product not found", decode[models.ErrorResponse](t, w).Error)

	w = doJSON(t, router, http.MethodDelete, "/products/"+created.ID, nil, h)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/products/"+created.ID, nil, h)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/products/"+created.ID, nil, h)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductListCache(t *testing.T) {
	router := newTestRouter(t, testConfig(t))
	h := bearer(registerAndLogin(t, router).Token)

	w := doJSON(t, router, http.MethodGet, "/products", nil, h)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))

	w = doJSON(t, router, http.MethodGet, "/products", nil, h)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.JSONEq(t, `[]`, w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/products", map[string]interface{}{"name": "Mug", "description": "Tea mug", "price": 4}, h)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, "/products", nil, h)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"), "writes clear the cache")
	assert.Len(t, decode[[]database.Product](t, w), 1)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit.Max = 2
	router := newTestRouter(t, cfg)
	creds := map[string]string{"username": "alice", "password": "s3cret"}

	for i := 0; i < 2; i++ {
		w := doJSON(t, router, http.MethodPost, "/users/login", creds, nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, strconv.Itoa(1-i), w.Header().Get("X-RateLimit-Remaining"))
	}

	w := doJSON(t, router, http.MethodPost, "/users/login", creds, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, models.ErrCodeRateLimitExceeded, decode[models.ErrorResponse](t, w).Code)

	w = doJSON(t, router, http.MethodGet, "/products", nil, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code, "the window is shared across route groups")
}

func TestRateLimit_SkipsSystemEndpoints(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit.Max = 2
	router := newTestRouter(t, cfg)

	for i := 0; i < 12; i++ {
		for _, path := range []string{"/health", "/metrics"} {
			w := doJSON(t, router, http.MethodGet, path, nil, nil)
			require.Equal(t, http.StatusOK, w.Code, "%s request %d", path, i+1)
			assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
		}
	}

	w := doJSON(t, router, http.MethodGet, "/products", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "system traffic does not consume the budget")
}

func TestHealthAndMetrics(t *testing.T) {
	router := newTestRouter(t, testConfig(t))

	w := doJSON(t, router, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	health := decode[models.HealthResponse](t, w)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Checks["database"])

	doJSON(t, router, http.MethodGet, "/products", nil, nil)

	w = doJSON(t, router, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `catalog_auth_outcomes_total{outcome="unauthenticated"} 1`)
	assert.Contains(t, w.Body.String(), `catalog_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestHealth_DatabaseDown(t *testing.T) {
	router, db := newTestRouterWithDB(t, testConfig(t))
	require.NoError(t, db.Close())

	w := doJSON(t, router, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "closed")

	health := decode[models.HealthResponse](t, w)
	assert.Equal(t, "degraded", health.Status)
	assert.Equal(t, "unhealthy", health.Checks["database"])
}

func TestCORSExposesRefreshedToken(t *testing.T) {
	router := newTestRouter(t, testConfig(t))

	headers := map[string]string{"Origin": "https://shop.example.com"}
	w := doJSON(t, router, http.MethodGet, "/health", nil, headers)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), auth.NewAccessTokenHeader)

	w = doJSON(t, router, http.MethodOptions, "/products", nil, headers)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), auth.RefreshTokenHeader)
}
