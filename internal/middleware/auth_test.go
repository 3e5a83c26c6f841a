package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/paylink-backend/internal/platform/ctxutil"
	"github.com/yungbote/paylink-backend/internal/platform/logger"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, subject string, expires time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expires),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func authRouter(t *testing.T) (*gin.Engine, *uuid.UUID) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}

	var seen uuid.UUID
	router := gin.New()
	router.Use(NewAuthMiddleware(log, testSecret).RequireAuth())
	router.GET("/probe", func(c *gin.Context) {
		seen = ctxutil.UserID(c.Request.Context())
		c.Status(http.StatusOK)
	})
	return router, &seen
}

func TestRequireAuthAcceptsBearerToken(t *testing.T) {
	router, seen := authRouter(t)
	userID := uuid.New()
	token := signToken(t, testSecret, userID.String(), time.Now().Add(time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if *seen != userID {
		t.Fatalf("context user: got %s want %s", *seen, userID)
	}
}

func TestRequireAuthAcceptsQueryToken(t *testing.T) {
	router, seen := authRouter(t)
	userID := uuid.New()
	token := signToken(t, testSecret, userID.String(), time.Now().Add(time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/probe?token="+token, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if *seen != userID {
		t.Fatalf("context user: got %s want %s", *seen, userID)
	}
}

func TestRequireAuthRejects(t *testing.T) {
	router, _ := authRouter(t)

	cases := []struct {
		name  string
		setup func(req *http.Request)
	}{
		{
			name:  "no token",
			setup: func(req *http.Request) {},
		},
		{
			name: "malformed header",
			setup: func(req *http.Request) {
				req.Header.Set("Authorization", "Token abc")
			},
		},
		{
			name: "wrong secret",
			setup: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", uuid.New().String(), time.Now().Add(time.Hour)))
			},
		},
		{
			name: "expired token",
			setup: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, uuid.New().String(), time.Now().Add(-time.Hour)))
			},
		},
		{
			name: "non-uuid subject",
			setup: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "not-a-uuid", time.Now().Add(time.Hour)))
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			tc.setup(req)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status: got %d want 401", rec.Code)
			}
		})
	}
}
