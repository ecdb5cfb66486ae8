package job

import (
	"Crosspost/internal/pkg/consts"
	"Crosspost/internal/service"
	"context"
	log "log/slog"
	"time"
)

type PublishJob struct {
	publishSvc service.PublishService
	runner     *lockedRunner
}

func NewPublishJob(publishSvc service.PublishService, locker Locker, lockTTL time.Duration) *PublishJob {
	return &PublishJob{
		publishSvc: publishSvc,
		runner:     &lockedRunner{name: consts.JobPublish, key: consts.PublishJobLock, ttl: lockTTL, locker: locker},
	}
}

// Run 供 cron 调度
func (s *PublishJob) Run() {
	_ = s.RunContext(context.Background())
}

func (s *PublishJob) RunContext(ctx context.Context) error {
	return s.runner.run(ctx, func(ctx context.Context) error {
		reports, err := s.publishSvc.PublishAll(ctx)
		published, failed := 0, 0
		for _, r := range reports {
			published += r.Published
			failed += r.Failed
		}
		if published+failed > 0 {
			log.InfoContext(ctx, "PublishJob finished", "published", published, "failed", failed)
		}
		return err
	})
}
