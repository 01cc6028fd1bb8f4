package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/ecommerce-backend/internal/config"
	"github.com/iliyamo/ecommerce-backend/internal/utils"
)

const testSecret = "test-secret"

// =============================================================================
// Helpers
// =============================================================================

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"user": UserID(c), "role": Role(c)})
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func signed(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(testSecret, userID, role, 5)
	require.NoError(t, err)
	return tok.Token
}

// =============================================================================
// JWTAuth
// =============================================================================

func TestJWTAuth(t *testing.T) {
	e := echo.New()
	e.GET("/me", okHandler, JWTAuth(testSecret))

	t.Run("missing token", func(t *testing.T) {
		rec := serve(e, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "missing bearer token")
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := serve(e, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid token")
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signed(t, "42", "ADMIN"))
		rec := serve(e, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"user":"42","role":"ADMIN"}`, rec.Body.String())
	})

	t.Run("legacy header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("x-access-token", signed(t, "7", "STANDARD"))
		rec := serve(e, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"user":"7","role":"STANDARD"}`, rec.Body.String())
	})
}

// =============================================================================
// Roles
// =============================================================================

func TestRequireRole(t *testing.T) {
	e := echo.New()
	e.GET("/admin", okHandler, JWTAuth(testSecret), RequireRole("ADMIN"))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signed(t, "1", "STANDARD"))
	assert.Equal(t, http.StatusForbidden, serve(e, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signed(t, "1", "ADMIN"))
	assert.Equal(t, http.StatusOK, serve(e, req).Code)
}

func TestRequireSelfOrRole(t *testing.T) {
	e := echo.New()
	e.GET("/users/:id", okHandler, JWTAuth(testSecret), RequireSelfOrRole("id", "ADMIN"))

	cases := []struct {
		name   string
		path   string
		user   string
		role   string
		status int
	}{
		{"own record", "/users/5", "5", "STANDARD", http.StatusOK},
		{"someone else", "/users/6", "5", "STANDARD", http.StatusForbidden},
		{"admin on anyone", "/users/6", "1", "ADMIN", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			req.Header.Set("Authorization", "Bearer "+signed(t, tc.user, tc.role))
			assert.Equal(t, tc.status, serve(e, req).Code)
		})
	}

	t.Run("anonymous", func(t *testing.T) {
		e := echo.New()
		e.GET("/users/:id", okHandler, RequireSelfOrRole("id", "ADMIN"))
		rec := serve(e, httptest.NewRequest(http.MethodGet, "/users/5", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

// =============================================================================
// Rate limiting
// =============================================================================

func testLimitConfig(capacity int) config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Capacity:       capacity,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip",
		Prefix:         "rl-test",
		ExemptPaths:    map[string]bool{"/healthz": true},
	}
}

func TestTokenBucketBlocksAfterCapacity(t *testing.T) {
	rdb := setupTestRedis(t)
	e := echo.New()
	e.Use(NewTokenBucket(testLimitConfig(2), rdb, zerolog.Nop()))
	e.GET("/v1/products", okHandler)

	for i := 0; i < 2; i++ {
		rec := serve(e, httptest.NewRequest(http.MethodGet, "/v1/products", nil))
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/v1/products", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestTokenBucketExemptPath(t *testing.T) {
	rdb := setupTestRedis(t)
	e := echo.New()
	e.Use(NewTokenBucket(testLimitConfig(1), rdb, zerolog.Nop()))
	e.GET("/healthz", okHandler)

	for i := 0; i < 3; i++ {
		rec := serve(e, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestTokenBucketDisabledWithoutRedis(t *testing.T) {
	e := echo.New()
	e.Use(NewTokenBucket(testLimitConfig(1), nil, zerolog.Nop()))
	e.GET("/v1/products", okHandler)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(e, httptest.NewRequest(http.MethodGet, "/v1/products", nil)).Code)
	}
}

func TestTokenBucketKeepsOneBucketPerClient(t *testing.T) {
	rdb := setupTestRedis(t)
	cfg := testLimitConfig(3)
	cfg.KeyStrategy = "ip_user_route"
	e := echo.New()
	e.Use(NewTokenBucket(cfg, rdb, zerolog.Nop()))
	e.GET("/v1/products/:id", okHandler)

	req := httptest.NewRequest(http.MethodGet, "/v1/products/9", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.2")
	require.Equal(t, http.StatusOK, serve(e, req).Code)

	key := "rl-test:ip:10.0.0.2:user:anon:route:GET /v1/products/:id"
	bucket, err := rdb.HGetAll(req.Context(), key).Result()
	require.NoError(t, err)
	assert.Equal(t, "2", bucket["tokens"])
	assert.Equal(t, "3", bucket["capacity"])
	assert.NotEmpty(t, bucket["last_refill_ms"])

	ttl, err := rdb.TTL(req.Context(), key).Result()
	require.NoError(t, err)
	assert.Equal(t, cfg.TTL, ttl)
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/users/3", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/users/:id")

	cfg := testLimitConfig(1)
	cfg.KeyStrategy = "ip_user_route"
	assert.Equal(t, "rl-test:ip:10.0.0.1:user:anon:route:GET /v1/users/:id", buildRateKey(cfg, c))

	c.Set(ctxUserID, "3")
	cfg.KeyStrategy = "user"
	assert.Equal(t, "rl-test:user:3", buildRateKey(cfg, c))
}

// =============================================================================
// Request log
// =============================================================================

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(zerolog.New(&buf)))
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, RequestID(c))
	})

	t.Run("generates id", func(t *testing.T) {
		buf.Reset()
		rec := serve(e, httptest.NewRequest(http.MethodGet, "/ping", nil))
		rid := rec.Header().Get("X-Request-ID")
		require.NotEmpty(t, rid)
		assert.Equal(t, rid, rec.Body.String())
		assert.Contains(t, buf.String(), `"request_id":"`+rid+`"`)
		assert.Contains(t, buf.String(), `"status":200`)
	})

	t.Run("reuses client id", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		rec := serve(e, req)
		assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
		assert.Contains(t, buf.String(), `"request_id":"abc-123"`)
	})

	t.Run("logs final status of errors", func(t *testing.T) {
		buf.Reset()
		rec := serve(e, httptest.NewRequest(http.MethodGet, "/missing", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, buf.String(), `"status":404`)
		assert.Contains(t, buf.String(), `"level":"warn"`)
	})
}
