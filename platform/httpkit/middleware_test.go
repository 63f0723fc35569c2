package httpkit

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"tradesmarket/platform/logger"
)

const testSecret = "test-secret"

type jwtConfig struct{ secret string }

func (c jwtConfig) GetJWTAccessSecret() string { return c.secret }

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthRequired(jwtConfig{secret: testSecret}), func(c *gin.Context) {
		id := MustGetIdentity(c)
		if id == nil {
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": id.UserID().String(), "admin": id.IsAdmin()})
	})
	r.GET("/admin", AuthRequired(jwtConfig{secret: testSecret}), RequireRole(RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestAuthRequired(t *testing.T) {
	userID := uuid.New()
	valid := jwt.MapClaims{
		"sub":  userID.String(),
		"type": "access",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "empty bearer", header: "Bearer   ", want: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + signToken(t, "other", valid), want: http.StatusUnauthorized},
		{name: "refresh token", header: "Bearer " + signToken(t, testSecret, jwt.MapClaims{
			"sub":  userID.String(),
			"type": "refresh",
			"exp":  time.Now().Add(time.Hour).Unix(),
		}), want: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + signToken(t, testSecret, jwt.MapClaims{
			"sub":  userID.String(),
			"type": "access",
			"exp":  time.Now().Add(-time.Hour).Unix(),
		}), want: http.StatusUnauthorized},
		{name: "bad subject", header: "Bearer " + signToken(t, testSecret, jwt.MapClaims{
			"sub":  "not-a-uuid",
			"type": "access",
			"exp":  time.Now().Add(time.Hour).Unix(),
		}), want: http.StatusUnauthorized},
		{name: "valid", header: "Bearer " + signToken(t, testSecret, valid), want: http.StatusOK},
	}

	r := newAuthRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	r := newAuthRouter()
	userID := uuid.New().String()

	tests := []struct {
		name  string
		roles interface{}
		want  int
	}{
		{name: "no roles", roles: nil, want: http.StatusForbidden},
		{name: "other role", roles: []string{"client"}, want: http.StatusForbidden},
		{name: "admin", roles: []string{"client", RoleAdmin}, want: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := jwt.MapClaims{
				"sub":  userID,
				"type": "access",
				"exp":  time.Now().Add(time.Hour).Unix(),
			}
			if tt.roles != nil {
				claims["roles"] = tt.roles
			}
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, claims))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewIPRateLimiter(rate.Every(time.Hour), 2, logger.NewNop())

	r := gin.New()
	r.GET("/ping", limiter.RateLimit(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}

	// A different client has its own bucket.
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected second client to pass, got %d", w.Code)
	}
}

func TestNewPublicRateLimiterDisabled(t *testing.T) {
	limiter := NewPublicRateLimiter(0, nil)
	if limiter.rate != rate.Inf {
		t.Fatalf("expected infinite rate, got %v", limiter.rate)
	}
}

func TestSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("unexpected X-Content-Type-Options %q", got)
	}
	if got := w.Header().Get("Strict-Transport-Security"); got != "" {
		t.Fatalf("HSTS must not be set over plain HTTP, got %q", got)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, logger.RequestIDFromContext(c.Request.Context()))
	})

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "keeps caller id", incoming: "abc-123", keep: true},
		{name: "mints when missing", incoming: ""},
		{name: "mints when oversized", incoming: strings.Repeat("x", 200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.incoming != "" {
				req.Header.Set(HeaderRequestID, tt.incoming)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Header().Get(HeaderRequestID)
			if got == "" || got != w.Body.String() {
				t.Fatalf("expected header and context to agree, header=%q body=%q", got, w.Body.String())
			}
			if tt.keep && got != tt.incoming {
				t.Fatalf("expected %q, got %q", tt.incoming, got)
			}
			if !tt.keep {
				if _, err := uuid.Parse(got); err != nil {
					t.Fatalf("expected generated uuid, got %q", got)
				}
			}
		})
	}
}

func TestRequestLoggerRecordsAttachedErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestID(), RequestLogger(logger.NewWithWriter("production", &buf)))
	r.GET("/fail", func(c *gin.Context) {
		HandleError(c, errors.New("db exploded"))
	})

	req := httptest.NewRequest(http.MethodGet, "/fail", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	out := buf.String()
	for _, want := range []string{`"msg":"http_error"`, `"error":"db exploded"`, `"msg":"http_request"`, `"request_id":"req-42"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected log output to contain %s, got %s", want, out)
		}
	}
}
