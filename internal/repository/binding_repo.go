package repository

import (
	"Crosspost/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BindingRepo interface {
	// GetByClerkID 不存在时返回 nil, nil
	GetByClerkID(ctx context.Context, platform model.Platform, clerkID string) (*model.PlatformBinding, error)
	// GetByClerkIDForUpdate 事务内加行锁读取，用于读改写 posts/profile_followers
	GetByClerkIDForUpdate(ctx context.Context, platform model.Platform, clerkID string) (*model.PlatformBinding, error)
	ListPage(ctx context.Context, platform model.Platform, afterID string, limit int) ([]*model.PlatformBinding, error)
	UpdateCredential(ctx context.Context, platform model.Platform, clerkID string, access, refresh string, expiration int64) error
	UpdatePosts(ctx context.Context, platform model.Platform, clerkID string, posts model.PostList) error
	UpdateLedger(ctx context.Context, platform model.Platform, clerkID string, posts model.PostList, followers model.FollowerList) error
}

type bindingRepoImpl struct {
	db *gorm.DB
}

func NewBindingRepo(db *gorm.DB) BindingRepo {
	return &bindingRepoImpl{db: db}
}

func (s *bindingRepoImpl) table(ctx context.Context, platform model.Platform) *gorm.DB {
	return s.db.WithContext(ctx).Table(platform.BindingTable())
}

func (s *bindingRepoImpl) GetByClerkID(ctx context.Context, platform model.Platform, clerkID string) (*model.PlatformBinding, error) {
	return s.get(s.table(ctx, platform), platform, clerkID)
}

func (s *bindingRepoImpl) GetByClerkIDForUpdate(ctx context.Context, platform model.Platform, clerkID string) (*model.PlatformBinding, error) {
	return s.get(s.table(ctx, platform).Clauses(clause.Locking{Strength: "UPDATE"}), platform, clerkID)
}

func (s *bindingRepoImpl) get(db *gorm.DB, platform model.Platform, clerkID string) (*model.PlatformBinding, error) {
	var binding model.PlatformBinding
	err := db.Where("clerkId = ?", clerkID).First(&binding).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	binding.Platform = platform
	return &binding, nil
}

func (s *bindingRepoImpl) ListPage(ctx context.Context, platform model.Platform, afterID string, limit int) ([]*model.PlatformBinding, error) {
	bindings := make([]*model.PlatformBinding, 0, limit)
	err := s.table(ctx, platform).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&bindings).Error
	if err != nil {
		return nil, err
	}
	for _, b := range bindings {
		b.Platform = platform
	}
	return bindings, nil
}

// UpdateCredential refresh 为空表示平台未轮换刷新令牌，保留原值
func (s *bindingRepoImpl) UpdateCredential(ctx context.Context, platform model.Platform, clerkID string, access, refresh string, expiration int64) error {
	updates := map[string]any{
		"tokenAccess":     access,
		"tokenExpiration": expiration,
	}
	if refresh != "" {
		updates["tokenRefresh"] = refresh
	}
	return s.updates(ctx, platform, clerkID, updates)
}

func (s *bindingRepoImpl) UpdatePosts(ctx context.Context, platform model.Platform, clerkID string, posts model.PostList) error {
	return s.updates(ctx, platform, clerkID, map[string]any{"posts": posts})
}

func (s *bindingRepoImpl) UpdateLedger(ctx context.Context, platform model.Platform, clerkID string, posts model.PostList, followers model.FollowerList) error {
	return s.updates(ctx, platform, clerkID, map[string]any{
		"posts":             posts,
		"profile_followers": followers,
	})
}

func (s *bindingRepoImpl) updates(ctx context.Context, platform model.Platform, clerkID string, updates map[string]any) error {
	return s.table(ctx, platform).Where("clerkId = ?", clerkID).Updates(updates).Error
}
