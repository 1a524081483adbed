package server

import (
	"github.com/gin-gonic/gin"

	"github.com/NancyCima/Azure-Dashboard/internal/shared/auth"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/metrics"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/server/middleware"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/server/respond"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/telemetry"
)

// APIPrefix is the versioned mount point. Every route is also served at the root.
const APIPrefix = "/api/v1"

// RouteRegistrar attaches a feature's routes to a group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouterDeps carries what the engine needs. Nil registrars are skipped.
type RouterDeps struct {
	Logger       telemetry.Logger
	CORSOrigins  []string
	Issuer       *auth.Issuer
	AuthRequired bool
	Health       gin.HandlerFunc
	Features     []RouteRegistrar
	RateLimits   map[string]middleware.RateLimitRule
	Limiter      *middleware.RateLimiter
}

// DefaultRateLimits throttles the expensive and the credential-guessing routes.
func DefaultRateLimits() map[string]middleware.RateLimitRule {
	return map[string]middleware.RateLimitRule{
		"/analyze-ticket": {Rate: 0.5, Burst: 5},
		"/login":          {Rate: 0.2, Burst: 5},
	}
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	public := []string{"/login", "/health", "/metrics", "/"}
	r.Use(
		middleware.RequestID(),
		middleware.Logging(deps.Logger),
		middleware.Recovery(deps.Logger),
		middleware.Metrics(),
		middleware.CORS(deps.CORSOrigins),
		middleware.Auth(deps.Issuer, deps.AuthRequired, withPrefix(public)...),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:   withPrefixRules(deps.RateLimits),
			Limiter: deps.Limiter,
		}),
	)

	r.GET("/metrics", metrics.Handler())
	r.GET("/", root)

	for _, rg := range []*gin.RouterGroup{&r.RouterGroup, r.Group(APIPrefix)} {
		if deps.Health != nil {
			rg.GET("/health", deps.Health)
		}
		registerMeRoutes(rg)
		for _, f := range deps.Features {
			if f != nil {
				f.RegisterRoutes(rg)
			}
		}
	}
	return r
}

func root(c *gin.Context) {
	respond.OK(c, gin.H{"message": "Azure DevOps Dashboard API"})
}

func withPrefix(paths []string) []string {
	out := make([]string, 0, len(paths)*2)
	for _, p := range paths {
		out = append(out, p, APIPrefix+p)
	}
	return out
}

func withPrefixRules(rules map[string]middleware.RateLimitRule) map[string]middleware.RateLimitRule {
	out := make(map[string]middleware.RateLimitRule, len(rules)*2)
	for path, rule := range rules {
		out[path] = rule
		out[APIPrefix+path] = rule
	}
	return out
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
