package social

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrPlatformRejected = errors.New("platform rejected request")
	ErrTransientNetwork = errors.New("transient network failure")
	// ErrRefreshRejected 刷新令牌缺失、失效或被撤销
	ErrRefreshRejected = errors.New("refresh token rejected")
	// ErrUnauthorized 平台拒绝了访问令牌，需要用户重新授权
	ErrUnauthorized = errors.New("platform rejected access token")
)

// PlatformRejectedError 平台返回了非成功状态码
type PlatformRejectedError struct {
	Platform string
	Status   int
	Body     string
}

func (e *PlatformRejectedError) Error() string {
	body := e.Body
	if len(body) > 512 {
		body = body[:512] + "..."
	}
	return fmt.Sprintf("%s rejected request: status %d: %s", e.Platform, e.Status, body)
}

func (e *PlatformRejectedError) Is(target error) bool {
	return target == ErrPlatformRejected || (target == ErrUnauthorized && e.Unauthorized())
}

// Unauthorized 401/403：令牌被撤销或权限不足
func (e *PlatformRejectedError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// Permanent 4xx 重试也不会成功；限流、超时和授权问题除外
func (e *PlatformRejectedError) Permanent() bool {
	switch e.Status {
	case http.StatusTooManyRequests, http.StatusRequestTimeout:
		return false
	}
	return e.Status >= 400 && e.Status < 500 && !e.Unauthorized()
}

func rejected(platform string, status int, body []byte) error {
	return &PlatformRejectedError{Platform: platform, Status: status, Body: string(body)}
}

func transient(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrTransientNetwork, err)
}
