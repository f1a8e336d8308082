package middleware_test

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/prompter/pkg/middleware"
)

func TestApplyOrder(t *testing.T) {
	var order []string
	mw := middleware.New()

	for _, name := range []string{"first", "second"} {
		mw.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		})
	}

	handler := mw.Apply(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestNewCopiesInput(t *testing.T) {
	noop := func(next http.Handler) http.Handler { return next }
	mws := []middleware.Func{noop}

	stack := middleware.New(mws...)
	stack.Use(noop)

	assert.Len(t, stack, 2)
	assert.Len(t, mws, 1)
}

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestCORSDisabled(t *testing.T) {
	handler := middleware.CORS(&middleware.CORSConfig{Enabled: false})(http.HandlerFunc(ok))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://example.com")
	handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSAllowedOrigin(t *testing.T) {
	cfg := &middleware.CORSConfig{Enabled: true, Origins: []string{"http://example.com"}}
	require.NoError(t, cfg.Finalize(nil))
	handler := middleware.CORS(cfg)(http.HandlerFunc(ok))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://example.com")
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))
}

func TestCORSPreflight(t *testing.T) {
	cfg := &middleware.CORSConfig{Enabled: true, Origins: []string{"*"}}
	require.NoError(t, cfg.Finalize(nil))

	reached := false
	handler := middleware.CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/prompts", nil)
	req.Header.Set("Origin", "http://other.example")
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, reached)
}

func TestCORSEnvOrigins(t *testing.T) {
	t.Setenv("TEST_ORIGINS", "http://a.example, ,http://b.example")

	cfg := &middleware.CORSConfig{}
	require.NoError(t, cfg.Finalize(&middleware.CORSEnv{Origins: "TEST_ORIGINS"}))
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Origins)
}

func TestCORSEnvMalformed(t *testing.T) {
	tests := []struct {
		name string
		env  middleware.CORSEnv
		val  string
	}{
		{"enabled", middleware.CORSEnv{Enabled: "TEST_CORS_VALUE"}, "sometimes"},
		{"credentials", middleware.CORSEnv{AllowCredentials: "TEST_CORS_VALUE"}, "maybe"},
		{"max age", middleware.CORSEnv{MaxAge: "TEST_CORS_VALUE"}, "1h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_CORS_VALUE", tt.val)
			cfg := &middleware.CORSConfig{}
			err := cfg.Finalize(&tt.env)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "TEST_CORS_VALUE")
		})
	}
}

func TestLoggerRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := middleware.Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/prompts?page=2", nil))

	out := buf.String()
	assert.Contains(t, out, "status=418")
	assert.Contains(t, out, "/prompts?page=2")
}

func TestMaxBodySize(t *testing.T) {
	var readErr error
	handler := middleware.MaxBodySize(4)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("too long")))

	var tooLarge *http.MaxBytesError
	assert.ErrorAs(t, readErr, &tooLarge)
}

func TestLoggerPreservesFlusher(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	var flushable bool
	handler := middleware.Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, ok := w.(http.Flusher)
		flushable = ok
		if ok {
			f.Flush()
		}
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))

	assert.True(t, flushable)
	assert.True(t, rec.Flushed)
}
