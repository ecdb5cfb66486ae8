package service

import (
	"Crosspost/internal/model"
	"context"
	"fmt"
)

// PublishedPost 平台确认发布后的结果
type PublishedPost struct {
	ID          string
	Text        string
	Title       string
	Description string

	// Cleanup 账本提交成功后才执行，例如删除远端素材
	Cleanup func(ctx context.Context)
}

type Publisher interface {
	Platform() model.Platform
	Publish(ctx context.Context, binding *model.PlatformBinding, cred *Credential, content model.Content) (*PublishedPost, error)
}

// FollowerSource 能从平台读取真实粉丝数的发布器额外实现
type FollowerSource interface {
	FollowerCount(ctx context.Context, cred *Credential) (int64, error)
}

func contentMismatch(platform model.Platform, content model.Content) error {
	return fmt.Errorf("%w: %T is not %s content", ErrUnsupportedContentType, content, platform)
}
