package api

import (
	"Crosspost/internal/api/middleware"
	"Crosspost/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter 运维接口：健康检查、指标与手动触发任务
func SetupRouter(group *HandlersGroup, logIndex, logToken string) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	r.Use(middleware.TraceMiddleware())
	logger.SetupGin(r, logIndex, logToken)

	r.GET("/healthz", group.HealthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	jobGroup := r.Group("/jobs")
	{
		jobGroup.POST("/publish", group.JobHandler.RunPublish)
		jobGroup.POST("/statistics", group.JobHandler.RunStatistics)
	}

	return r
}
