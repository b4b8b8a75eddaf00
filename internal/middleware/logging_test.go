package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newCapturedLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	return logger, &buf
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestLoggingBasic(t *testing.T) {
	logger, buf := newCapturedLogger()
	m := NewRequestLoggingMiddleware(logger)

	req := httptest.NewRequest(http.MethodPost, "/api/assessments", nil)
	req.Header.Set("User-Agent", "test-agent")
	rec := httptest.NewRecorder()

	m.Handler(okHandler()).ServeHTTP(rec, req)

	out := buf.String()
	if !strings.Contains(out, "method=POST") {
		t.Errorf("expected method in log output, got: %s", out)
	}
	if !strings.Contains(out, "path=/api/assessments") {
		t.Errorf("expected path in log output, got: %s", out)
	}
	if !strings.Contains(out, "status=200") {
		t.Errorf("expected status in log output, got: %s", out)
	}
	if !strings.Contains(out, "user_agent=test-agent") {
		t.Errorf("expected user agent in log output, got: %s", out)
	}
}

func TestRequestLoggingSkipsNoisyPaths(t *testing.T) {
	logger, buf := newCapturedLogger()
	m := NewRequestLoggingMiddleware(logger)

	for _, path := range []string{"/health", "/metrics", "/files/assessments/x/images/y.jpg"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		m.Handler(okHandler()).ServeHTTP(rec, req)
	}

	if buf.Len() != 0 {
		t.Errorf("expected no log output for skipped paths, got: %s", buf.String())
	}
}

func TestRequestLoggingServerErrorLevel(t *testing.T) {
	logger, buf := newCapturedLogger()
	m := NewRequestLoggingMiddleware(logger)

	failing := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/assessments/abc", nil)
	rec := httptest.NewRecorder()

	m.Handler(failing).ServeHTTP(rec, req)

	out := buf.String()
	if !strings.Contains(out, "level=WARN") {
		t.Errorf("expected WARN level for 5xx response, got: %s", out)
	}
}

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		rawQuery string
		want     string
	}{
		{"no query", "/api/assessments", "", "/api/assessments"},
		{"safe query", "/x", "page=2", "/x?page=2"},
		{"token redacted", "/x", "token=secret123", "/x?token=[REDACTED]"},
		{"api key redacted", "/x", "api_key=abc&page=1", "/x?api_key=[REDACTED]&page=1"},
		{"case insensitive", "/x", "TOKEN=abc", "/x?TOKEN=[REDACTED]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizePath(tt.path, tt.rawQuery)
			if got != tt.want {
				t.Errorf("sanitizePath(%q, %q) = %q, want %q", tt.path, tt.rawQuery, got, tt.want)
			}
		})
	}
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:12345"
	if ip := getClientIP(req); ip != "10.0.0.1" {
		t.Errorf("expected remote addr host, got %q", ip)
	}

	req.Header.Set("X-Real-IP", "203.0.113.5")
	if ip := getClientIP(req); ip != "203.0.113.5" {
		t.Errorf("expected X-Real-IP, got %q", ip)
	}

	req.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.2")
	if ip := getClientIP(req); ip != "198.51.100.7" {
		t.Errorf("expected first X-Forwarded-For entry, got %q", ip)
	}
}

func TestMetricsAuth(t *testing.T) {
	t.Run("disabled when unconfigured", func(t *testing.T) {
		m := NewMetricsAuthMiddleware("", "")
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		rec := httptest.NewRecorder()

		m.Handler(okHandler()).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200 with auth disabled, got %d", rec.Code)
		}
	})

	t.Run("rejects missing credentials", func(t *testing.T) {
		m := NewMetricsAuthMiddleware("ops", "hunter2")
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		rec := httptest.NewRecorder()

		m.Handler(okHandler()).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
		if rec.Header().Get("WWW-Authenticate") == "" {
			t.Error("expected WWW-Authenticate header")
		}
	})

	t.Run("rejects wrong credentials", func(t *testing.T) {
		m := NewMetricsAuthMiddleware("ops", "hunter2")
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		req.SetBasicAuth("ops", "wrong")
		rec := httptest.NewRecorder()

		m.Handler(okHandler()).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("accepts valid credentials", func(t *testing.T) {
		m := NewMetricsAuthMiddleware("ops", "hunter2")
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		req.SetBasicAuth("ops", "hunter2")
		rec := httptest.NewRecorder()

		m.Handler(okHandler()).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})
}

func TestSecurityHeaders(t *testing.T) {
	t.Run("development", func(t *testing.T) {
		m := NewSecurityHeadersMiddleware(false)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		m.Handler(okHandler()).ServeHTTP(rec, req)

		if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
			t.Errorf("X-Frame-Options = %q", got)
		}
		if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
			t.Errorf("X-Content-Type-Options = %q", got)
		}
		if got := rec.Header().Get("Strict-Transport-Security"); got != "" {
			t.Errorf("unexpected HSTS header in development: %q", got)
		}
	})

	t.Run("production", func(t *testing.T) {
		m := NewSecurityHeadersMiddleware(true)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		m.Handler(okHandler()).ServeHTTP(rec, req)

		if got := rec.Header().Get("Strict-Transport-Security"); got == "" {
			t.Error("expected HSTS header in production")
		}
	})
}
