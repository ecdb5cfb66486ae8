package repository

import (
	"Crosspost/internal/model"
	"context"

	"gorm.io/gorm"
)

type EventRepo interface {
	// MarkPosted 将关联 pendingId 的日程事件标记为已发布，返回命中行数
	MarkPosted(ctx context.Context, pendingID string) (int64, error)
}

type eventRepoImpl struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepo {
	return &eventRepoImpl{db: db}
}

func (s *eventRepoImpl) MarkPosted(ctx context.Context, pendingID string) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&model.ScheduleEvent{}).
		Where("pendingId = ?", pendingID).
		Update("posted", 1)
	return result.RowsAffected, result.Error
}
