package service

import (
	"Crosspost/internal/model"
	"Crosspost/internal/repository"
	"context"
	"errors"
	"iter"
	"time"

	"github.com/google/uuid"
)

type QueueConfig struct {
	PageSize    int
	ClaimTTL    time.Duration
	MaxAttempts int
}

type QueueService interface {
	// DueEntries 每次调用重新查询，按 id 游标分批惰性产出到期条目
	DueEntries(ctx context.Context, platform model.Platform) iter.Seq2[*model.PendingPost, error]
	// Claim 认领成功返回认领令牌；已被其他进程认领时 ok 为 false
	Claim(ctx context.Context, entry *model.PendingPost) (token string, ok bool, err error)
	// Release 记录失败并释放认领，返回条目是否进入死信
	Release(ctx context.Context, entry *model.PendingPost, token string, cause error) (dead bool, err error)
}

type queueServiceImpl struct {
	pending repository.PendingRepo
	cfg     QueueConfig
	now     func() time.Time
}

func NewQueueService(pending repository.PendingRepo, cfg QueueConfig) QueueService {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	if cfg.ClaimTTL <= 0 {
		cfg.ClaimTTL = 30 * time.Minute
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &queueServiceImpl{pending: pending, cfg: cfg, now: time.Now}
}

func (s *queueServiceImpl) staleBefore(now time.Time) int64 {
	return now.Add(-s.cfg.ClaimTTL).UnixMilli()
}

func (s *queueServiceImpl) DueEntries(ctx context.Context, platform model.Platform) iter.Seq2[*model.PendingPost, error] {
	return func(yield func(*model.PendingPost, error) bool) {
		now := s.now()
		afterID := ""
		for {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			page, err := s.pending.ListDue(ctx, platform, now.UnixMilli(), s.staleBefore(now), afterID, s.cfg.PageSize)
			if err != nil {
				yield(nil, err)
				return
			}
			for _, entry := range page {
				if !yield(entry, nil) {
					return
				}
			}
			if len(page) < s.cfg.PageSize {
				return
			}
			afterID = page[len(page)-1].ID
		}
	}
}

func (s *queueServiceImpl) Claim(ctx context.Context, entry *model.PendingPost) (string, bool, error) {
	token := uuid.NewString()
	now := s.now()
	ok, err := s.pending.Claim(ctx, entry.Platform, entry.ID, token, now.UnixMilli(), s.staleBefore(now))
	if err != nil || !ok {
		return "", false, err
	}
	entry.Status = model.PendingStatusProcessing
	entry.ClaimToken = token
	entry.ClaimedAt = now.UnixMilli()
	return token, true, nil
}

// Release 等待用户重新授权的失败不进死信；内容非法或平台永久拒绝直接进死信
func (s *queueServiceImpl) Release(ctx context.Context, entry *model.PendingPost, token string, cause error) (bool, error) {
	dead := false
	switch {
	case awaitsUser(cause):
	case isPermanent(cause):
		dead = true
	case entry.Attempts+1 >= s.cfg.MaxAttempts:
		dead = true
	}

	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	if err := s.pending.Release(ctx, entry.Platform, entry.ID, token, msg, dead); err != nil {
		if errors.Is(err, repository.ErrClaimLost) {
			return false, err
		}
		return false, errors.Join(ErrStoreWrite, err)
	}
	entry.Attempts++
	entry.LastError = msg
	entry.ClaimToken = ""
	if dead {
		entry.Status = model.PendingStatusDead
	} else {
		entry.Status = model.PendingStatusPending
	}
	return dead, nil
}
