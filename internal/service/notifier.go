package service

import (
	"Crosspost/internal/model"
	"context"
)

// Notifier 发布成功后的下游通知，失败不影响已完成的发布
type Notifier interface {
	NotifyPublished(ctx context.Context, evt *model.PostPublishedEvent) error
}

type noopNotifier struct{}

func NewNoopNotifier() Notifier { return noopNotifier{} }

func (noopNotifier) NotifyPublished(context.Context, *model.PostPublishedEvent) error { return nil }
