package health

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NancyCima/Azure-Dashboard/internal/shared/server/respond"
)

const checkTimeout = 2 * time.Second

// Checker is a dependency that can report reachability.
type Checker interface {
	Ping(ctx context.Context) error
}

// CheckFunc adapts a function to Checker.
type CheckFunc func(ctx context.Context) error

func (f CheckFunc) Ping(ctx context.Context) error { return f(ctx) }

// Service aggregates dependency checks.
type Service struct {
	checks map[string]Checker
}

// NewService constructs a health service with no checks.
func NewService() *Service {
	return &Service{checks: make(map[string]Checker)}
}

// Add registers a named check. Nil checkers are ignored.
func (s *Service) Add(name string, c Checker) *Service {
	if c != nil {
		s.checks[name] = c
	}
	return s
}

// Status runs every check and reports per-dependency results.
func (s *Service) Status(ctx context.Context) (map[string]string, bool) {
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]string, len(names))
	ok := true
	for _, name := range names {
		cctx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := s.checks[name].Ping(cctx)
		cancel()
		if err != nil {
			out[name] = err.Error()
			ok = false
			continue
		}
		out[name] = "ok"
	}
	return out, ok
}

// Handler serves GET /health.
func (s *Service) Handler(c *gin.Context) {
	checks, ok := s.Status(c.Request.Context())
	status := http.StatusOK
	if !ok {
		status = http.StatusServiceUnavailable
	}
	respond.JSON(c, status, gin.H{"ok": ok, "checks": checks})
}
