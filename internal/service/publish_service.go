package service

import (
	"Crosspost/internal/model"
	"Crosspost/internal/pkg/metrics"
	"Crosspost/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
)

// PublishReport 单个平台一次扫描的结果
type PublishReport struct {
	Platform     model.Platform
	Scanned      int
	Published    int
	Failed       int
	DeadLettered int
	Skipped      int
}

type PublishService interface {
	// PublishAll 依次处理所有平台，单个平台出错不影响其他平台
	PublishAll(ctx context.Context) ([]PublishReport, error)
	PublishPlatform(ctx context.Context, platform model.Platform) (PublishReport, error)
}

type publishServiceImpl struct {
	queue       QueueService
	credentials CredentialService
	bindings    repository.BindingRepo
	ledger      LedgerService
	publishers  map[model.Platform]Publisher
	notifier    Notifier
}

func NewPublishService(
	queue QueueService,
	credentials CredentialService,
	bindings repository.BindingRepo,
	ledger LedgerService,
	publishers []Publisher,
	notifier Notifier,
) PublishService {
	m := make(map[model.Platform]Publisher, len(publishers))
	for _, p := range publishers {
		m[p.Platform()] = p
	}
	if notifier == nil {
		notifier = NewNoopNotifier()
	}
	return &publishServiceImpl{
		queue:       queue,
		credentials: credentials,
		bindings:    bindings,
		ledger:      ledger,
		publishers:  m,
		notifier:    notifier,
	}
}

func (s *publishServiceImpl) PublishAll(ctx context.Context) ([]PublishReport, error) {
	reports := make([]PublishReport, 0, len(model.Platforms))
	var errs []error
	for _, platform := range model.Platforms {
		report, err := s.PublishPlatform(ctx, platform)
		reports = append(reports, report)
		if err != nil {
			log.ErrorContext(ctx, "publish sweep failed", "platform", platform, "err", err)
			errs = append(errs, err)
		}
	}
	return reports, errors.Join(errs...)
}

func (s *publishServiceImpl) PublishPlatform(ctx context.Context, platform model.Platform) (PublishReport, error) {
	report := PublishReport{Platform: platform}
	publisher, ok := s.publishers[platform]
	if !ok {
		return report, fmt.Errorf("no publisher registered for %s", platform)
	}

	for entry, err := range s.queue.DueEntries(ctx, platform) {
		if err != nil {
			return report, fmt.Errorf("scan %s queue: %w", platform, err)
		}
		report.Scanned++
		s.processEntry(ctx, publisher, entry, &report)
	}

	if report.Scanned > 0 {
		log.InfoContext(ctx, "publish sweep finished",
			"platform", platform,
			"scanned", report.Scanned,
			"published", report.Published,
			"failed", report.Failed,
			"dead_lettered", report.DeadLettered,
			"skipped", report.Skipped,
		)
	}
	return report, nil
}

func (s *publishServiceImpl) processEntry(ctx context.Context, publisher Publisher, entry *model.PendingPost, report *PublishReport) {
	platform := entry.Platform

	token, ok, err := s.queue.Claim(ctx, entry)
	if err != nil {
		report.Failed++
		log.ErrorContext(ctx, "claim pending post failed", "platform", platform, "pending_id", entry.ID, "err", err)
		return
	}
	if !ok {
		report.Skipped++
		log.InfoContext(ctx, "pending post claimed by another run", "platform", platform, "pending_id", entry.ID)
		return
	}

	post, err := s.publish(ctx, publisher, entry, token)
	if err != nil {
		s.fail(ctx, entry, token, err, report)
		return
	}

	report.Published++
	metrics.RecordPublishAttempt(platform.String(), OutcomePublished)
	log.InfoContext(ctx, "post published",
		"platform", platform,
		"pending_id", entry.ID,
		"clerk_id", entry.ClerkID,
		"post_id", post.ID,
	)

	evt := &model.PostPublishedEvent{
		Platform:    platform,
		ClerkID:     entry.ClerkID,
		PendingID:   entry.ID,
		PostID:      post.ID,
		Text:        post.Text,
		Title:       post.Title,
		PublishedAt: post.Date,
	}
	if err = s.notifier.NotifyPublished(ctx, evt); err != nil {
		log.WarnContext(ctx, "publish notification failed", "platform", platform, "pending_id", entry.ID, "err", err)
	}
}

// publish 内容先于凭据校验，非法内容不会触发令牌刷新
func (s *publishServiceImpl) publish(ctx context.Context, publisher Publisher, entry *model.PendingPost, token string) (*model.Post, error) {
	content, err := model.ParseContent(entry.Platform, entry.Content)
	if err != nil {
		return nil, err
	}

	binding, err := s.bindings.GetByClerkID(ctx, entry.Platform, entry.ClerkID)
	if err != nil {
		return nil, fmt.Errorf("load binding: %w", err)
	}
	if binding == nil {
		return nil, fmt.Errorf("%w: %s binding of %s", ErrMissingBinding, entry.Platform, entry.ClerkID)
	}

	cred, err := s.credentials.EnsureValidCredential(ctx, binding)
	if err != nil {
		return nil, err
	}

	published, err := publisher.Publish(ctx, binding, cred, content)
	if err != nil {
		return nil, err
	}

	post, err := s.ledger.Commit(ctx, entry, token, published)
	if err != nil {
		log.ErrorContext(ctx, "post published but ledger commit failed",
			"platform", entry.Platform,
			"pending_id", entry.ID,
			"post_id", published.ID,
			"err", err,
		)
		return nil, err
	}
	if published.Cleanup != nil {
		published.Cleanup(ctx)
	}
	return post, nil
}

func (s *publishServiceImpl) fail(ctx context.Context, entry *model.PendingPost, token string, cause error, report *PublishReport) {
	class := Classify(cause)
	report.Failed++
	metrics.RecordPublishAttempt(entry.Platform.String(), class)

	dead, err := s.queue.Release(ctx, entry, token, cause)
	if err != nil {
		log.ErrorContext(ctx, "release pending post failed", "platform", entry.Platform, "pending_id", entry.ID, "err", err)
	}
	if dead {
		report.DeadLettered++
	}

	log.ErrorContext(ctx, "publish pending post failed",
		"platform", entry.Platform,
		"pending_id", entry.ID,
		"clerk_id", entry.ClerkID,
		"error_class", class,
		"attempts", entry.Attempts,
		"dead", dead,
		"err", cause,
	)
}
