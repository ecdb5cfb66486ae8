package job

import (
	"Crosspost/internal/pkg/consts"
	"Crosspost/internal/service"
	"context"
	log "log/slog"
	"time"
)

type StatisticsJob struct {
	statisticsSvc service.StatisticsService
	runner        *lockedRunner
}

func NewStatisticsJob(statisticsSvc service.StatisticsService, locker Locker, lockTTL time.Duration) *StatisticsJob {
	return &StatisticsJob{
		statisticsSvc: statisticsSvc,
		runner:        &lockedRunner{name: consts.JobStatistics, key: consts.StatisticsJobLock, ttl: lockTTL, locker: locker},
	}
}

func (s *StatisticsJob) Run() {
	_ = s.RunContext(context.Background())
}

func (s *StatisticsJob) RunContext(ctx context.Context) error {
	return s.runner.run(ctx, func(ctx context.Context) error {
		log.InfoContext(ctx, "StatisticsJob started")
		reports, err := s.statisticsSvc.RefreshStatistics(ctx)
		refreshed, failed := 0, 0
		for _, r := range reports {
			refreshed += r.Refreshed
			failed += r.Failed
		}
		log.InfoContext(ctx, "StatisticsJob finished", "refreshed", refreshed, "failed", failed)
		return err
	})
}
