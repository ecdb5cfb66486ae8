package service

import (
	"Crosspost/internal/model"
	"Crosspost/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/jinzhu/copier"
)

type LedgerService interface {
	// Commit 在一个事务里追加发布记录、标记日程事件、删除队列条目，任一步失败整体回滚
	Commit(ctx context.Context, entry *model.PendingPost, claimToken string, published *PublishedPost) (*model.Post, error)
	RecordPublication(ctx context.Context, repos *repository.Repos, platform model.Platform, clerkID string, published *PublishedPost) (*model.Post, error)
	CompleteEvent(ctx context.Context, repos *repository.Repos, pendingID string) error
	ConsumePending(ctx context.Context, repos *repository.Repos, entry *model.PendingPost, claimToken string) error
}

type ledgerServiceImpl struct {
	uow    repository.UnitOfWork
	growth GrowthModel
	now    func() time.Time
}

func NewLedgerService(uow repository.UnitOfWork, growth GrowthModel) LedgerService {
	return &ledgerServiceImpl{uow: uow, growth: growth, now: time.Now}
}

func (s *ledgerServiceImpl) Commit(ctx context.Context, entry *model.PendingPost, claimToken string, published *PublishedPost) (*model.Post, error) {
	var post *model.Post
	err := s.uow.Transaction(ctx, func(repos *repository.Repos) error {
		var err error
		if post, err = s.RecordPublication(ctx, repos, entry.Platform, entry.ClerkID, published); err != nil {
			return err
		}
		if err = s.CompleteEvent(ctx, repos, entry.ID); err != nil {
			return err
		}
		return s.ConsumePending(ctx, repos, entry, claimToken)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: commit publication %s: %w", ErrStoreWrite, entry.ID, err)
	}
	return post, nil
}

// RecordPublication 行锁内重新读取绑定，避免与统计任务互相覆盖
func (s *ledgerServiceImpl) RecordPublication(ctx context.Context, repos *repository.Repos, platform model.Platform, clerkID string, published *PublishedPost) (*model.Post, error) {
	binding, err := repos.Bindings.GetByClerkIDForUpdate(ctx, platform, clerkID)
	if err != nil {
		return nil, err
	}
	if binding == nil {
		return nil, ErrMissingBinding
	}

	var post model.Post
	if err = copier.Copy(&post, published); err != nil {
		return nil, err
	}
	now := s.now().UnixMilli()
	post.Date = now
	post.Statistics = []model.StatisticsSnapshot{s.growth.Seed(now)}

	posts := append(binding.Posts, post)
	if err = repos.Bindings.UpdatePosts(ctx, platform, clerkID, posts); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *ledgerServiceImpl) CompleteEvent(ctx context.Context, repos *repository.Repos, pendingID string) error {
	n, err := repos.Events.MarkPosted(ctx, pendingID)
	if err != nil {
		return err
	}
	if n == 0 {
		log.WarnContext(ctx, "no schedule event references pending post", "pending_id", pendingID)
	}
	return nil
}

func (s *ledgerServiceImpl) ConsumePending(ctx context.Context, repos *repository.Repos, entry *model.PendingPost, claimToken string) error {
	return repos.Pending.Delete(ctx, entry.Platform, entry.ID, claimToken)
}
