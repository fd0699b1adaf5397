package gateway

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/openmicroshop/commerce-backend/internal/config"
	"github.com/openmicroshop/commerce-backend/internal/handlers"
	"github.com/openmicroshop/commerce-backend/internal/http/response"
	"github.com/openmicroshop/commerce-backend/internal/middleware"
	"github.com/openmicroshop/commerce-backend/internal/platform/apierr"
	"github.com/openmicroshop/commerce-backend/internal/platform/logger"
)

// Gateway fronts the service fleet. It routes on the first path segment
// after /api and forwards the rest of the request untouched.
type Gateway struct {
	log     *logger.Logger
	token   string
	proxies map[string]*httputil.ReverseProxy
}

type route struct {
	segment string
	baseURL string
}

func New(baseLog *logger.Logger, cfg *config.Config) (*Gateway, error) {
	log := baseLog.With("component", "gateway")
	routes := []route{
		{"users", cfg.Peers.Users},
		{"stores", cfg.Peers.Stores},
		{"products", cfg.Peers.Products},
		{"orders", cfg.Peers.Orders},
		{"carts", cfg.Peers.Carts},
		{"auth", cfg.Peers.Auth},
	}
	proxies := make(map[string]*httputil.ReverseProxy, len(routes))
	for _, r := range routes {
		target, err := url.Parse(r.baseURL)
		if err != nil {
			return nil, err
		}
		proxy := httputil.NewSingleHostReverseProxy(target)
		segment := r.segment
		proxy.ErrorHandler = func(w http.ResponseWriter, req *http.Request, err error) {
			log.Error("upstream unreachable", "service", segment, "path", req.URL.Path, "error", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`{"error":{"message":"upstream service unreachable","code":"bad_gateway"}}`))
		}
		proxies[segment] = proxy
	}
	return &Gateway{log: log, token: cfg.Auth.GatewayToken, proxies: proxies}, nil
}

func (g *Gateway) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("gateway"))
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(g.log))
	router.Use(middleware.CORS())
	router.GET("/healthcheck", handlers.HealthCheck)
	router.Any("/api/*path", g.proxy)
	return router
}

func (g *Gateway) proxy(c *gin.Context) {
	rest := strings.TrimPrefix(c.Param("path"), "/")
	segment := rest
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		segment = rest[:i]
	}

	if segment == "health" && c.Request.Method == http.MethodGet {
		response.RespondOK(c, gin.H{"status": "ok", "services": g.serviceNames()})
		return
	}

	if !g.authorized(c) {
		response.RespondAPIError(c, apierr.Unauthorized("invalid_gateway_token", nil))
		return
	}

	proxy, ok := g.proxies[segment]
	if !ok {
		response.RespondAPIError(c, apierr.NotFound("unknown_service", nil))
		return
	}
	proxy.ServeHTTP(c.Writer, c.Request)
}

func (g *Gateway) authorized(c *gin.Context) bool {
	if g.token == "" {
		return true
	}
	return middleware.ExtractBearer(c) == g.token
}

func (g *Gateway) serviceNames() []string {
	names := make([]string, 0, len(g.proxies))
	for name := range g.proxies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
