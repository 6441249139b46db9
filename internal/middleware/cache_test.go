package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/fly24/backoffice/internal/config"
)

func listContext(t *testing.T, uid uint64) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/flights", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/flights")
	c.Set("user_id", uid)
	return c
}

func TestCacheKeyChangesWithViewerVersion(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache"}
	c := listContext(t, 42)

	before := cacheKeyFrom(cfg, c, "0")
	after := cacheKeyFrom(cfg, c, "1")
	assert.NotEqual(t, before, after, "a version bump must make old entries unreachable")
	assert.Equal(t, before, cacheKeyFrom(cfg, listContext(t, 42), "0"))
}

func TestCacheKeyIsScopedPerViewer(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache"}
	a := cacheKeyFrom(cfg, listContext(t, 42), "0")
	b := cacheKeyFrom(cfg, listContext(t, 7), "0")
	assert.NotEqual(t, a, b)
}

func TestCacheVersionWithoutRedisIsInert(t *testing.T) {
	v := NewCacheVersion(nil)
	assert.Equal(t, "0", v.Current(listContext(t, 42).Request().Context(), "42"))
	v.Bump(listContext(t, 42).Request().Context(), 42) // must not panic
}
