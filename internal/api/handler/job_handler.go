package handler

import (
	"Crosspost/internal/api/dto"
	"Crosspost/internal/pkg/consts"
	"Crosspost/internal/pkg/logger"
	"Crosspost/internal/pkg/response"
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// JobRunner 可手动触发的定时任务
type JobRunner interface {
	RunContext(ctx context.Context) error
}

type JobHandler struct {
	publishJob    JobRunner
	statisticsJob JobRunner
}

func NewJobHandler(publishJob, statisticsJob JobRunner) *JobHandler {
	return &JobHandler{
		publishJob:    publishJob,
		statisticsJob: statisticsJob,
	}
}

func (s *JobHandler) RunPublish(c *gin.Context) {
	s.run(c, consts.JobPublish, s.publishJob)
}

func (s *JobHandler) RunStatistics(c *gin.Context) {
	s.run(c, consts.JobStatistics, s.statisticsJob)
}

func (s *JobHandler) run(c *gin.Context, name string, runner JobRunner) {
	start := time.Now()
	if err := runner.RunContext(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.JobRunDTO{
		Job:        name,
		TraceID:    logger.TraceID(c.Request.Context()),
		DurationMs: time.Since(start).Milliseconds(),
	})
}
