package service

import (
	"Crosspost/internal/model"
	"Crosspost/internal/pkg/social"
	"errors"
)

var (
	ErrMissingBinding                 = errors.New("platform binding missing")
	ErrCredentialExpiredUnrefreshable = errors.New("credential expired and cannot be refreshed")
	ErrStoreWrite                     = errors.New("store write failed")

	ErrPlatformRejected       = social.ErrPlatformRejected
	ErrTransientNetwork       = social.ErrTransientNetwork
	ErrPlatformUnauthorized   = social.ErrUnauthorized
	ErrUnsupportedContentType = model.ErrUnsupportedContentType
)

type PlatformRejectedError = social.PlatformRejectedError

const OutcomePublished = "published"

// ErrorClasses 错误分类标签，用于日志与指标；按顺序匹配
var ErrorClasses = []struct {
	Err   error
	Label string
}{
	{ErrUnsupportedContentType, "unsupported_content_type"},
	{ErrStoreWrite, "store_write"},
	{ErrMissingBinding, "missing_binding"},
	{ErrCredentialExpiredUnrefreshable, "credential_expired_unrefreshable"},
	{ErrPlatformUnauthorized, "platform_unauthorized"},
	{ErrPlatformRejected, "platform_rejected"},
	{ErrTransientNetwork, "transient_network"},
}

// Classify 返回错误所属的分类标签
func Classify(err error) string {
	if err == nil {
		return OutcomePublished
	}
	for _, c := range ErrorClasses {
		if errors.Is(err, c.Err) {
			return c.Label
		}
	}
	return "unexpected"
}

// isPermanent 重试不会成功的失败：内容非法，或平台明确拒绝
func isPermanent(err error) bool {
	if errors.Is(err, ErrUnsupportedContentType) {
		return true
	}
	var rej *PlatformRejectedError
	return errors.As(err, &rej) && rej.Permanent()
}

// awaitsUser 需要用户重新授权或绑定账号，不计入死信
func awaitsUser(err error) bool {
	return errors.Is(err, ErrMissingBinding) ||
		errors.Is(err, ErrCredentialExpiredUnrefreshable) ||
		errors.Is(err, ErrPlatformUnauthorized)
}
