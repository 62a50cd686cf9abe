package middleware

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"account-rbac-service/internal/config"
	domainToken "account-rbac-service/internal/domain/token"
	domainUser "account-rbac-service/internal/domain/user"
	"account-rbac-service/internal/usecase/credential"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuthenticator struct {
	principal *credential.Principal
	err       error
	gotToken  string
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, raw string) (*credential.Principal, error) {
	f.gotToken = raw
	return f.principal, f.err
}

type fakeChecker struct {
	allowed bool
	err     error
	calls   int
}

func (f *fakeChecker) HasPermission(context.Context, uuid.UUID, string) (bool, error) {
	f.calls++
	return f.allowed, f.err
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func withPrincipal(p *credential.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p != nil {
			c.Set(PrincipalKey, p)
		}
		c.Next()
	}
}

func ok(c *gin.Context) { c.Status(http.StatusOK) }

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{name: "propagates valid id", header: "req-123", keep: true},
		{name: "replaces id with spaces", header: "bad id", keep: false},
		{name: "replaces overlong id", header: strings.Repeat("a", 129), keep: false},
		{name: "generates missing id", header: "", keep: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			rec := serve(r, req)

			got := rec.Header().Get(RequestIDHeader)
			if rec.Body.String() != got {
				t.Errorf("context id %q != header id %q", rec.Body.String(), got)
			}
			if tt.keep && got != tt.header {
				t.Errorf("id = %q, want %q", got, tt.header)
			}
			if !tt.keep {
				if _, err := uuid.Parse(got); err != nil {
					t.Errorf("id = %q, want generated uuid", got)
				}
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	principal := &credential.Principal{UserID: uuid.New(), Email: "a@example.com"}

	tests := []struct {
		name   string
		header string
		authn  *fakeAuthenticator
		want   int
	}{
		{name: "valid token", header: "Bearer good", authn: &fakeAuthenticator{principal: principal}, want: http.StatusOK},
		{name: "missing header", header: "", authn: &fakeAuthenticator{}, want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", authn: &fakeAuthenticator{}, want: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", authn: &fakeAuthenticator{}, want: http.StatusUnauthorized},
		{name: "revoked token", header: "Bearer old", authn: &fakeAuthenticator{err: domainToken.ErrTokenRevoked}, want: http.StatusUnauthorized},
		{name: "expired token", header: "Bearer old", authn: &fakeAuthenticator{err: domainToken.ErrTokenExpired}, want: http.StatusUnauthorized},
		{name: "inactive user", header: "Bearer x", authn: &fakeAuthenticator{err: domainUser.ErrUserInactive}, want: http.StatusUnauthorized},
		{name: "store failure", header: "Bearer x", authn: &fakeAuthenticator{err: errors.New("connection refused")}, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/", AuthMiddleware(tt.authn), func(c *gin.Context) {
				userID, _ := GetUserID(c)
				if userID != principal.UserID {
					t.Errorf("user id = %v, want %v", userID, principal.UserID)
				}
				if GetRawToken(c) != "good" {
					t.Errorf("raw token = %q, want good", GetRawToken(c))
				}
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if rec := serve(r, req); rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRequirePermission(t *testing.T) {
	user := &credential.Principal{UserID: uuid.New()}
	admin := &credential.Principal{UserID: uuid.New(), IsAdmin: true}

	tests := []struct {
		name      string
		principal *credential.Principal
		checker   *fakeChecker
		want      int
		wantCalls int
	}{
		{name: "granted", principal: user, checker: &fakeChecker{allowed: true}, want: http.StatusOK, wantCalls: 1},
		{name: "denied", principal: user, checker: &fakeChecker{}, want: http.StatusForbidden, wantCalls: 1},
		{name: "lookup failure", principal: user, checker: &fakeChecker{err: errors.New("boom")}, want: http.StatusInternalServerError, wantCalls: 1},
		{name: "admin bypass", principal: admin, checker: &fakeChecker{}, want: http.StatusOK, wantCalls: 0},
		{name: "unauthenticated", principal: nil, checker: &fakeChecker{}, want: http.StatusUnauthorized, wantCalls: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/", withPrincipal(tt.principal), RequirePermission(tt.checker, "USER_VIEW"), ok)

			rec := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.checker.calls != tt.wantCalls {
				t.Errorf("checker calls = %d, want %d", tt.checker.calls, tt.wantCalls)
			}
		})
	}
}

func TestAdminOnly(t *testing.T) {
	tests := []struct {
		name      string
		principal *credential.Principal
		want      int
	}{
		{name: "admin", principal: &credential.Principal{IsAdmin: true}, want: http.StatusOK},
		{name: "regular user", principal: &credential.Principal{}, want: http.StatusForbidden},
		{name: "anonymous", principal: nil, want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/", withPrincipal(tt.principal), AdminOnly(), ok)

			if rec := serve(r, httptest.NewRequest(http.MethodGet, "/", nil)); rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		if allowed, _ := rl.Allow("10.0.0.1", now); !allowed {
			t.Fatalf("request %d rejected inside burst", i)
		}
	}

	allowed, wait := rl.Allow("10.0.0.1", now)
	if allowed {
		t.Fatal("request over burst allowed")
	}
	if wait <= 0 || wait > time.Second {
		t.Errorf("wait = %v, want (0, 1s]", wait)
	}

	if allowed, _ := rl.Allow("10.0.0.2", now); !allowed {
		t.Error("other client limited by first client's bucket")
	}
	if allowed, _ := rl.Allow("10.0.0.1", now.Add(time.Second)); !allowed {
		t.Error("request rejected after refill")
	}
}

func TestRateLimiterPrune(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	rl.Allow("10.0.0.1", now)
	rl.Allow("10.0.0.2", now.Add(20*time.Minute))

	if removed := rl.Prune(now.Add(40*time.Minute), limiterIdleTTL); removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, ok := rl.visitors["10.0.0.2"]; !ok {
		t.Error("recently seen client pruned")
	}
}

func TestRateLimiterMiddlewareSetsRetryAfter(t *testing.T) {
	r := gin.New()
	r.GET("/", NewRateLimiter(0.5, 1).Middleware(), ok)

	if rec := serve(r, httptest.NewRequest(http.MethodGet, "/", nil)); rec.Code != http.StatusOK {
		t.Fatalf("first request = %d, want 200", rec.Code)
	}
	rec := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}
}

func TestRequestSizeLimit(t *testing.T) {
	r := gin.New()
	r.POST("/", RequestSizeLimitMiddleware(16), func(c *gin.Context) {
		var body map[string]interface{}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})

	small := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`))
	if rec := serve(r, small); rec.Code != http.StatusOK {
		t.Errorf("small body = %d, want 200", rec.Code)
	}

	large := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"`+strings.Repeat("x", 64)+`"}`))
	if rec := serve(r, large); rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("large body = %d, want 413", rec.Code)
	}

	// Without a declared length the body is cut off while reading.
	chunked := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"`+strings.Repeat("x", 64)+`"}`))
	chunked.ContentLength = -1
	if rec := serve(r, chunked); rec.Code != http.StatusBadRequest {
		t.Errorf("chunked body = %d, want 400", rec.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	for _, production := range []bool{false, true} {
		r := gin.New()
		r.GET("/", SecurityHeadersMiddleware(production), ok)

		rec := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
		if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
			t.Errorf("production=%v nosniff header = %q", production, got)
		}
		if got := rec.Header().Get("Cache-Control"); got != "no-store" {
			t.Errorf("production=%v cache-control = %q", production, got)
		}
		hasHSTS := rec.Header().Get("Strict-Transport-Security") != ""
		if hasHSTS != production {
			t.Errorf("production=%v HSTS present = %v", production, hasHSTS)
		}
	}
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware(&config.CORSConfig{
		AllowedOrigins: []string{"http://localhost:3005"},
		AllowedMethods: []string{"GET"},
		MaxAge:         600,
	}))
	r.GET("/", ok)

	allowed := httptest.NewRequest(http.MethodGet, "/", nil)
	allowed.Header.Set("Origin", "http://localhost:3005")
	rec := serve(r, allowed)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3005" {
		t.Errorf("allow origin = %q", got)
	}

	denied := httptest.NewRequest(http.MethodGet, "/", nil)
	denied.Header.Set("Origin", "http://evil.example")
	if rec := serve(r, denied); rec.Code != http.StatusForbidden {
		t.Errorf("foreign origin = %d, want 403", rec.Code)
	}
}

func TestCompressionMiddleware(t *testing.T) {
	body := strings.Repeat(`{"status":"success"}`, 64)

	r := gin.New()
	r.Use(CompressionMiddleware())
	r.GET("/api", func(c *gin.Context) { c.String(http.StatusOK, body) })
	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, body) })

	req := httptest.NewRequest(http.MethodGet, "/api", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := serve(r, req)
	if got := rec.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("content-encoding = %q, want gzip", got)
	}
	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	decoded, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(decoded) != body {
		t.Errorf("decoded body differs from the original")
	}

	plain := serve(r, httptest.NewRequest(http.MethodGet, "/api", nil))
	if got := plain.Header().Get("Content-Encoding"); got != "" || plain.Body.String() != body {
		t.Errorf("client without gzip got content-encoding %q", got)
	}

	health := httptest.NewRequest(http.MethodGet, "/health", nil)
	health.Header.Set("Accept-Encoding", "gzip")
	if got := serve(r, health).Header().Get("Content-Encoding"); got != "" {
		t.Errorf("health content-encoding = %q, want none", got)
	}
}
