package service

import (
	"Crosspost/internal/model"
	"Crosspost/internal/pkg/metrics"
	"Crosspost/internal/pkg/social"
	"Crosspost/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"time"
)

// defaultTokenLifetime 平台未返回 expires_in 时使用
const defaultTokenLifetime = time.Hour

// Credential 可直接用于调用平台接口的访问令牌
type Credential struct {
	AccessToken string
	ExpiresAt   int64
	Refreshed   bool
}

type CredentialService interface {
	// EnsureValidCredential 令牌未过期直接返回；过期则刷新并先落库再返回
	EnsureValidCredential(ctx context.Context, binding *model.PlatformBinding) (*Credential, error)
}

type credentialServiceImpl struct {
	bindings   repository.BindingRepo
	refreshers map[model.Platform]social.TokenRefresher
	now        func() time.Time
}

func NewCredentialService(bindings repository.BindingRepo, refreshers map[model.Platform]social.TokenRefresher) CredentialService {
	return &credentialServiceImpl{
		bindings:   bindings,
		refreshers: refreshers,
		now:        time.Now,
	}
}

func (s *credentialServiceImpl) EnsureValidCredential(ctx context.Context, binding *model.PlatformBinding) (*Credential, error) {
	if binding == nil {
		return nil, ErrMissingBinding
	}
	now := s.now()
	if !binding.TokenExpired(now.UnixMilli()) {
		return &Credential{AccessToken: binding.TokenAccess, ExpiresAt: binding.TokenExpiration}, nil
	}

	platform := binding.Platform.String()
	refresher, ok := s.refreshers[binding.Platform]
	if !ok || binding.TokenRefresh == "" {
		metrics.RecordTokenRefresh(platform, "unrefreshable")
		return nil, fmt.Errorf("%w: %s binding of %s has no refresh token", ErrCredentialExpiredUnrefreshable, platform, binding.ClerkID)
	}

	token, err := refresher.Refresh(ctx, binding.TokenRefresh)
	if err != nil {
		if errors.Is(err, social.ErrRefreshRejected) {
			metrics.RecordTokenRefresh(platform, "unrefreshable")
			return nil, fmt.Errorf("%w: %w", ErrCredentialExpiredUnrefreshable, err)
		}
		metrics.RecordTokenRefresh(platform, Classify(err))
		return nil, err
	}

	expiration := now.Add(defaultTokenLifetime).UnixMilli()
	if !token.Expiry.IsZero() {
		expiration = token.Expiry.UnixMilli()
	}
	// 平台未轮换时 RefreshToken 为空，仓储层保留原值
	rotated := token.RefreshToken
	if rotated == binding.TokenRefresh {
		rotated = ""
	}

	if err = s.bindings.UpdateCredential(ctx, binding.Platform, binding.ClerkID, token.AccessToken, rotated, expiration); err != nil {
		metrics.RecordTokenRefresh(platform, "store_write")
		return nil, fmt.Errorf("%w: persist refreshed token: %w", ErrStoreWrite, err)
	}

	binding.TokenAccess = token.AccessToken
	binding.TokenExpiration = expiration
	if rotated != "" {
		binding.TokenRefresh = rotated
	}
	metrics.RecordTokenRefresh(platform, "refreshed")
	log.InfoContext(ctx, "access token refreshed",
		"platform", platform,
		"clerk_id", binding.ClerkID,
		"rotated", rotated != "",
		"expires_at", expiration,
	)

	return &Credential{AccessToken: token.AccessToken, ExpiresAt: expiration, Refreshed: true}, nil
}
