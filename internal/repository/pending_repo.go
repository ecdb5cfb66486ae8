package repository

import (
	"Crosspost/internal/model"
	"context"
	"strings"

	"gorm.io/gorm"
)

type PendingRepo interface {
	// ListDue 按 id 游标分页读取已到期且可认领的条目
	ListDue(ctx context.Context, platform model.Platform, now, staleBefore int64, afterID string, limit int) ([]*model.PendingPost, error)
	// Claim 条件更新认领条目，返回是否认领成功
	Claim(ctx context.Context, platform model.Platform, id, token string, now, staleBefore int64) (bool, error)
	// Release 释放认领并记录失败，dead 为 true 时转入死信状态
	Release(ctx context.Context, platform model.Platform, id, token, lastError string, dead bool) error
	Delete(ctx context.Context, platform model.Platform, id, token string) error
}

type pendingRepoImpl struct {
	db *gorm.DB
}

func NewPendingRepo(db *gorm.DB) PendingRepo {
	return &pendingRepoImpl{db: db}
}

func (s *pendingRepoImpl) table(ctx context.Context, platform model.Platform) *gorm.DB {
	return s.db.WithContext(ctx).Table(platform.PendingTable())
}

// claimable 待处理，或处理中但认领已超时（进程崩溃遗留）
func claimable(db *gorm.DB, staleBefore int64) *gorm.DB {
	return db.Where("(status = ? OR (status = ? AND claimedAt < ?))",
		model.PendingStatusPending, model.PendingStatusProcessing, staleBefore)
}

func (s *pendingRepoImpl) ListDue(ctx context.Context, platform model.Platform, now, staleBefore int64, afterID string, limit int) ([]*model.PendingPost, error) {
	posts := make([]*model.PendingPost, 0, limit)
	err := claimable(s.table(ctx, platform), staleBefore).
		Where("postingDate <= ?", now).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		p.Platform = platform
	}
	return posts, nil
}

func (s *pendingRepoImpl) Claim(ctx context.Context, platform model.Platform, id, token string, now, staleBefore int64) (bool, error) {
	result := claimable(s.table(ctx, platform).Where("id = ?", id), staleBefore).
		Updates(map[string]any{
			"status":     model.PendingStatusProcessing,
			"claimToken": token,
			"claimedAt":  now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (s *pendingRepoImpl) Release(ctx context.Context, platform model.Platform, id, token, lastError string, dead bool) error {
	status := model.PendingStatusPending
	if dead {
		status = model.PendingStatusDead
	}
	lastError = truncateLastError(lastError)
	result := s.table(ctx, platform).
		Where("id = ? AND claimToken = ?", id, token).
		Updates(map[string]any{
			"status":     status,
			"claimToken": "",
			"claimedAt":  0,
			"attempts":   gorm.Expr("attempts + 1"),
			"lastError":  lastError,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrClaimLost
	}
	return nil
}

func (s *pendingRepoImpl) Delete(ctx context.Context, platform model.Platform, id, token string) error {
	result := s.table(ctx, platform).
		Where("id = ? AND claimToken = ?", id, token).
		Delete(&model.PendingPost{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrClaimLost
	}
	return nil
}

const lastErrorMaxBytes = 1024

// truncateLastError 按字节截断，丢弃被截断的半个字符，utf8mb4 严格模式下不能写入非法编码
func truncateLastError(msg string) string {
	if len(msg) <= lastErrorMaxBytes {
		return msg
	}
	return strings.ToValidUTF8(msg[:lastErrorMaxBytes], "")
}
