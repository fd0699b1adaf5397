package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/openmicroshop/commerce-backend/internal/config"
	"github.com/openmicroshop/commerce-backend/internal/platform/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestGateway(t *testing.T, token string, peers config.PeersConfig) *gin.Engine {
	t.Helper()
	gw, err := New(logger.NewNop(), &config.Config{
		Peers: peers,
		Auth:  config.AuthConfig{GatewayToken: token},
	})
	if err != nil {
		t.Fatalf("gateway init: %v", err)
	}
	return gw.Router()
}

func echoUpstream(t *testing.T) (*httptest.Server, *string) {
	t.Helper()
	var lastPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"users":[]}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &lastPath
}

func allPeers(url string) config.PeersConfig {
	return config.PeersConfig{
		Users:    url,
		Stores:   url,
		Products: url,
		Orders:   url,
		Carts:    url,
		Auth:     url,
	}
}

func TestGatewayForwardsWithToken(t *testing.T) {
	t.Parallel()
	upstream, lastPath := echoUpstream(t)
	router := newTestGateway(t, "secret", allPeers(upstream.URL))

	// ResponseRecorder has no CloseNotify; give the request a cancellable
	// context so ReverseProxy skips the legacy http.CloseNotifier path.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/users/1", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=200 body=%s", w.Code, w.Body.String())
	}
	if *lastPath != "/api/users/1" {
		t.Fatalf("path not forwarded untouched: got=%q want=%q", *lastPath, "/api/users/1")
	}
}

func TestGatewayRejectsMissingToken(t *testing.T) {
	t.Parallel()
	upstream, _ := echoUpstream(t)
	router := newTestGateway(t, "secret", allPeers(upstream.URL))

	req := httptest.NewRequest(http.MethodGet, "/api/users/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got=%d want=401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/users/1", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got=%d want=401", w.Code)
	}
}

func TestGatewayNoTokenConfiguredPassesThrough(t *testing.T) {
	t.Parallel()
	upstream, _ := echoUpstream(t)
	router := newTestGateway(t, "", allPeers(upstream.URL))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=200", w.Code)
	}
}

func TestGatewayHealthIsPublic(t *testing.T) {
	t.Parallel()
	upstream, _ := echoUpstream(t)
	router := newTestGateway(t, "secret", allPeers(upstream.URL))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=200", w.Code)
	}

	var body struct {
		Status   string   `json:"status"`
		Services []string `json:"services"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Status != "ok" || len(body.Services) != 6 {
		t.Fatalf("unexpected health body: %s", w.Body.String())
	}
}

func TestGatewayUnknownServiceIs404(t *testing.T) {
	t.Parallel()
	upstream, _ := echoUpstream(t)
	router := newTestGateway(t, "secret", allPeers(upstream.URL))

	req := httptest.NewRequest(http.MethodGet, "/api/warehouses/1", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got=%d want=404", w.Code)
	}
}

func TestGatewayUpstreamDownIs502(t *testing.T) {
	t.Parallel()
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()
	router := newTestGateway(t, "secret", allPeers(dead.URL))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/users/1", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("unexpected status: got=%d want=502 body=%s", w.Code, w.Body.String())
	}
}
