package service

import (
	"Crosspost/internal/model"
	"Crosspost/internal/pkg/metrics"
	"Crosspost/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

type StatisticsConfig struct {
	Concurrency int
	PageSize    int
}

// StatisticsReport 单个平台一次统计刷新的结果
type StatisticsReport struct {
	Platform  model.Platform
	Bindings  int
	Refreshed int
	Failed    int
}

type StatisticsService interface {
	// RefreshStatistics 为所有平台的所有绑定追加粉丝快照和互动快照
	RefreshStatistics(ctx context.Context) ([]StatisticsReport, error)
	RefreshPlatform(ctx context.Context, platform model.Platform) (StatisticsReport, error)
}

type statisticsServiceImpl struct {
	bindings    repository.BindingRepo
	uow         repository.UnitOfWork
	credentials CredentialService
	sources     map[model.Platform]FollowerSource
	growth      GrowthModel
	cfg         StatisticsConfig
	now         func() time.Time
}

// NewStatisticsService 实现了 FollowerSource 的发布器提供真实粉丝数，其余平台合成
func NewStatisticsService(
	bindings repository.BindingRepo,
	uow repository.UnitOfWork,
	credentials CredentialService,
	publishers []Publisher,
	growth GrowthModel,
	cfg StatisticsConfig,
) StatisticsService {
	sources := make(map[model.Platform]FollowerSource)
	for _, p := range publishers {
		if src, ok := p.(FollowerSource); ok {
			sources[p.Platform()] = src
		}
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 200
	}
	return &statisticsServiceImpl{
		bindings:    bindings,
		uow:         uow,
		credentials: credentials,
		sources:     sources,
		growth:      growth,
		cfg:         cfg,
		now:         time.Now,
	}
}

func (s *statisticsServiceImpl) RefreshStatistics(ctx context.Context) ([]StatisticsReport, error) {
	reports := make([]StatisticsReport, 0, len(model.Platforms))
	var errs []error
	for _, platform := range model.Platforms {
		report, err := s.RefreshPlatform(ctx, platform)
		reports = append(reports, report)
		if err != nil {
			log.ErrorContext(ctx, "statistics refresh failed", "platform", platform, "err", err)
			errs = append(errs, err)
		}
	}
	return reports, errors.Join(errs...)
}

func (s *statisticsServiceImpl) RefreshPlatform(ctx context.Context, platform model.Platform) (StatisticsReport, error) {
	report := StatisticsReport{Platform: platform}
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)

	afterID := ""
	var scanErr error
	for {
		if err := ctx.Err(); err != nil {
			scanErr = err
			break
		}
		page, err := s.bindings.ListPage(ctx, platform, afterID, s.cfg.PageSize)
		if err != nil {
			scanErr = fmt.Errorf("list %s bindings: %w", platform, err)
			break
		}
		for _, binding := range page {
			g.Go(func() error {
				err := s.refreshBinding(ctx, binding)
				mu.Lock()
				defer mu.Unlock()
				report.Bindings++
				if err != nil {
					report.Failed++
					metrics.RecordStatisticsRefresh(platform.String(), Classify(err))
					log.ErrorContext(ctx, "refresh binding statistics failed",
						"platform", platform,
						"clerk_id", binding.ClerkID,
						"error_class", Classify(err),
						"err", err,
					)
					return nil
				}
				report.Refreshed++
				metrics.RecordStatisticsRefresh(platform.String(), "refreshed")
				return nil
			})
		}
		if len(page) < s.cfg.PageSize {
			break
		}
		afterID = page[len(page)-1].ID
	}
	_ = g.Wait()

	if report.Bindings > 0 {
		log.InfoContext(ctx, "statistics refreshed",
			"platform", platform,
			"bindings", report.Bindings,
			"refreshed", report.Refreshed,
			"failed", report.Failed,
		)
	}
	return report, scanErr
}

// refreshBinding 网络请求在事务外完成，事务内重新加锁读取后追加快照
func (s *statisticsServiceImpl) refreshBinding(ctx context.Context, binding *model.PlatformBinding) error {
	var (
		followers int64
		fetched   bool
	)
	if src, ok := s.sources[binding.Platform]; ok {
		cred, err := s.credentials.EnsureValidCredential(ctx, binding)
		if err != nil {
			return err
		}
		if followers, err = src.FollowerCount(ctx, cred); err != nil {
			return err
		}
		fetched = true
	}

	now := s.now().UnixMilli()
	err := s.uow.Transaction(ctx, func(repos *repository.Repos) error {
		locked, err := repos.Bindings.GetByClerkIDForUpdate(ctx, binding.Platform, binding.ClerkID)
		if err != nil {
			return err
		}
		if locked == nil {
			return ErrMissingBinding
		}

		count := followers
		if !fetched {
			last, _ := locked.Followers.Last()
			count = s.growth.NextFollowers(last.Count)
		}
		locked.Followers = append(locked.Followers, model.FollowerSnapshot{Date: now, Count: count})

		for i := range locked.Posts {
			last, _ := locked.Posts[i].LastStatistics()
			locked.Posts[i].Statistics = append(locked.Posts[i].Statistics, s.growth.Grow(last, now))
		}

		return repos.Bindings.UpdateLedger(ctx, binding.Platform, binding.ClerkID, locked.Posts, locked.Followers)
	})
	if err != nil && !errors.Is(err, ErrMissingBinding) {
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
	return err
}
