package job

import (
	"Crosspost/internal/pkg/logger"
	"Crosspost/internal/pkg/metrics"
	"context"
	"errors"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// ErrJobRunning 同名任务正被其他进程或调度持有
var ErrJobRunning = errors.New("job already running")

type Locker interface {
	TryLock(ctx context.Context, key string, value string, expiration time.Duration, retryTimes int) (bool, error)
	UnLock(ctx context.Context, key string, value string) error
}

// lockedRunner 为一次任务执行生成 trace_id 并持有运行锁
type lockedRunner struct {
	name   string
	key    string
	ttl    time.Duration
	locker Locker
}

func (r *lockedRunner) run(ctx context.Context, fn func(ctx context.Context) error) error {
	// 手动触发时沿用请求的 trace_id
	if logger.TraceID(ctx) == "" {
		ctx = logger.WithTraceID(ctx, "job-"+r.name+"-"+uuid.NewString())
	}

	owner := uuid.NewString()
	ok, err := r.locker.TryLock(ctx, r.key, owner, r.ttl, 1)
	if err != nil {
		log.ErrorContext(ctx, "acquire job lock failed", "job", r.name, "err", err)
		return err
	}
	if !ok {
		metrics.RecordJobSkipped(r.name)
		log.InfoContext(ctx, "job skipped, previous run still holds the lock", "job", r.name)
		return ErrJobRunning
	}
	defer func() {
		// ctx 可能已取消，释放锁使用独立的超时
		unlockCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := r.locker.UnLock(unlockCtx, r.key, owner); err != nil {
			log.ErrorContext(ctx, "release job lock failed", "job", r.name, "err", err)
		}
	}()

	start := time.Now()
	err = fn(ctx)
	metrics.ObserveJob(r.name, time.Since(start))
	return err
}
