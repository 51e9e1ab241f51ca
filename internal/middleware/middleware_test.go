package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/blog-articles/internal/config"
	"github.com/deppfellow/blog-articles/internal/errs"
	"github.com/deppfellow/blog-articles/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(rateLimit float64) *server.Server {
	log := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Server:        config.ServerConfig{RateLimit: rateLimit},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger: &log,
	}
}

func newTestEcho(s *server.Server) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(s).GlobalErrorHandler
	return e
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("generates", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		id := rec.Header().Get(RequestIDHeader)
		assert.NotEmpty(t, id)
		assert.Equal(t, id, rec.Body.String())
	})

	t.Run("reuses inbound header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
		assert.Equal(t, "abc-123", rec.Body.String())
	})
}

func TestEnhanceContextAttachesLogger(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	s := newTestServer(0)
	s.Logger = &log

	e := echo.New()
	e.Use(RequestID(), NewContextEnhancer(s).EnhanceContext())
	e.GET("/articles", func(c echo.Context) error {
		zerolog.Ctx(c.Request().Context()).Info().Msg("from context")
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/articles", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, "/articles", line["path"])
	assert.Equal(t, "from context", line["message"])
}

func TestGetLoggerFallsBackToNop(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	require.NotNil(t, GetLogger(c))
}

func TestGlobalErrorHandler(t *testing.T) {
	e := newTestEcho(newTestServer(0))
	e.GET("/missing", func(c echo.Context) error {
		return errs.NewNotFoundError("Article not found", true, nil)
	})
	e.GET("/boom", func(c echo.Context) error {
		return errors.New("connection refused")
	})

	tests := []struct {
		name    string
		path    string
		status  int
		code    string
		message string
	}{
		{"http error", "/missing", http.StatusNotFound, "NOT_FOUND", "Article not found"},
		{"unclassified error", "/boom", http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal Server Error"},
		{"unknown route", "/nowhere", http.StatusNotFound, "NOT_FOUND", "Route not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.status, rec.Code)

			var body errs.HTTPError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.message, body.Message)
			assert.Equal(t, tt.status, body.Status)
		})
	}
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(1)

	e := newTestEcho(s)
	e.Use(NewRateLimitMiddleware(s).Limit())
	e.GET("/", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	first := httptest.NewRecorder()
	e.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	e.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestRateLimitDisabled(t *testing.T) {
	s := newTestServer(0)

	e := newTestEcho(s)
	e.Use(NewRateLimitMiddleware(s).Limit())
	e.GET("/", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestNewRelicMiddlewareDisabledPassesThrough(t *testing.T) {
	tm := NewTracingMiddleware(newTestServer(0), nil)

	e := echo.New()
	e.Use(tm.NewRelicMiddleware(), tm.EnhanceTracing())
	e.GET("/", func(c echo.Context) error {
		return c.NoContent(http.StatusAccepted)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestAllowAnyOrigin(t *testing.T) {
	e := echo.New()
	e.Use(AllowAnyOrigin("/api/"))
	e.GET("/api/items", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot)
	})
	e.GET("/status", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	api := httptest.NewRecorder()
	e.ServeHTTP(api, httptest.NewRequest(http.MethodGet, "/api/items", nil))
	assert.Equal(t, http.StatusTeapot, api.Code)
	assert.Equal(t, "*", api.Header().Get(echo.HeaderAccessControlAllowOrigin))

	system := httptest.NewRecorder()
	e.ServeHTTP(system, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.Empty(t, system.Header().Get(echo.HeaderAccessControlAllowOrigin))
}
