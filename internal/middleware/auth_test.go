package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/openmicroshop/commerce-backend/internal/platform/apierr"
	"github.com/openmicroshop/commerce-backend/internal/platform/logger"
	"github.com/openmicroshop/commerce-backend/internal/services"
	"github.com/openmicroshop/commerce-backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubAuthService accepts exactly one token and rejects everything else.
type stubAuthService struct {
	validToken string
}

func (s *stubAuthService) Register(ctx context.Context, input services.RegisterInput) (*types.User, error) {
	return nil, apierr.Internal(nil)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*services.TokenPair, error) {
	return nil, apierr.Internal(nil)
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	return nil, apierr.Internal(nil)
}

func (s *stubAuthService) Verify(ctx context.Context, tokenString string) (*services.TokenClaims, error) {
	if tokenString != s.validToken {
		return nil, apierr.Unauthorized("invalid_token", nil)
	}
	return &services.TokenClaims{UserID: 7, Email: "ada@example.com", JTI: "jti-1"}, nil
}

func (s *stubAuthService) Logout(ctx context.Context, tokenString string) error { return nil }

func newProtectedRouter(validToken string) *gin.Engine {
	am := NewAuthMiddleware(logger.NewNop(), &stubAuthService{validToken: validToken})
	router := gin.New()
	router.GET("/protected", am.RequireAuth(), func(c *gin.Context) {
		userID, _ := c.Get(ContextUserIDKey)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	return router
}

func TestRequireAuthAcceptsValidBearer(t *testing.T) {
	t.Parallel()
	router := newProtectedRouter("good-token")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=200 body=%s", w.Code, w.Body.String())
	}
}

func TestRequireAuthRejectsMissingOrBadToken(t *testing.T) {
	t.Parallel()
	router := newProtectedRouter("good-token")

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic abc"},
		{"wrong token", "Bearer bad-token"},
		{"bare bearer", "Bearer "},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: unexpected status: got=%d want=401", tc.name, w.Code)
		}
	}
}

func TestExtractBearer(t *testing.T) {
	t.Parallel()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Authorization", "bearer lowercase-scheme")
	if got := ExtractBearer(c); got != "lowercase-scheme" {
		t.Fatalf("unexpected token: got=%q", got)
	}

	c.Request.Header.Set("Authorization", "Token xyz")
	if got := ExtractBearer(c); got != "" {
		t.Fatalf("expected empty token for non-bearer scheme, got %q", got)
	}
}
