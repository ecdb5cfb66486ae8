package handler

import (
	"Crosspost/internal/api/dto"
	"Crosspost/internal/pkg/response"
	"context"
	log "log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck 返回 nil 表示依赖可用
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]HealthCheck
}

func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (s *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	res := dto.HealthDTO{Status: "ok", Components: make(map[string]string, len(names))}
	for _, name := range names {
		if err := s.checks[name](ctx); err != nil {
			log.WarnContext(ctx, "health check failed", "component", name, "err", err)
			res.Components[name] = err.Error()
			res.Status = "degraded"
			continue
		}
		res.Components[name] = "ok"
	}

	if res.Status != "ok" {
		response.Fail(c, http.StatusServiceUnavailable, res.Status, res)
		return
	}
	response.Success(c, res)
}
