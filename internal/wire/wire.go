package wire

import (
	"Crosspost/internal/api"
	"Crosspost/internal/api/config"
	"Crosspost/internal/api/handler"
	"Crosspost/internal/job"
	"Crosspost/internal/model"
	"Crosspost/internal/pkg/consts"
	"Crosspost/internal/pkg/cron"
	"Crosspost/internal/pkg/kafka"
	"Crosspost/internal/pkg/minio"
	"Crosspost/internal/pkg/redis"
	"Crosspost/internal/pkg/social"
	"Crosspost/internal/repository"
	"Crosspost/internal/service"
	"context"
	log "log/slog"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router        *gin.Engine
	DB            *gorm.DB
	CronMgr       *cron.Manager
	PublishJob    *job.PublishJob
	StatisticsJob *job.StatisticsJob

	closers []func() error
}

func BuildApplication(db *gorm.DB, rdb *goredis.Client, cfg *config.Config) (*ApplicationContainer, error) {
	app := &ApplicationContainer{DB: db}

	bindingRepo := repository.NewBindingRepo(db)
	pendingRepo := repository.NewPendingRepo(db)
	uow := repository.NewUnitOfWork(db)

	// 平台客户端
	mediaStore, err := minio.NewStore(cfg.MinIO)
	if err != nil {
		return nil, err
	}
	linkedinClient := social.NewLinkedinClient(cfg.Linkedin.BaseURL, cfg.Linkedin.HTTPTimeout)
	twitterClient := social.NewTwitterClient(cfg.Twitter.BaseURL, cfg.Twitter.HTTPTimeout)
	youtubeClient := social.NewYoutubeClient(cfg.Youtube.BaseURL, cfg.Youtube.UploadTimeout)
	downloader := social.NewDownloader(cfg.Youtube.UploadTimeout, cfg.Publish.TempDir)

	publishers := []service.Publisher{
		service.NewLinkedinPublisher(linkedinClient),
		service.NewTwitterPublisher(twitterClient),
		service.NewYoutubePublisher(youtubeClient, mediaStore, downloader),
	}

	refreshers := map[model.Platform]social.TokenRefresher{
		model.PlatformLinkedin: newRefresher(cfg.Linkedin, false),
		model.PlatformTwitter:  newRefresher(cfg.Twitter, true),
		model.PlatformYoutube:  newRefresher(cfg.Youtube, false),
	}

	notifier := service.NewNoopNotifier()
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewPublishedNotifier(cfg.Kafka)
		if err != nil {
			return nil, err
		}
		notifier = producer
		app.closers = append(app.closers, producer.Close)
	}

	growth := service.NewGrowthModel()
	credentialService := service.NewCredentialService(bindingRepo, refreshers)
	queueService := service.NewQueueService(pendingRepo, service.QueueConfig{
		PageSize:    cfg.Publish.PageSize,
		ClaimTTL:    cfg.Publish.ClaimTTL,
		MaxAttempts: cfg.Publish.MaxAttempts,
	})
	ledgerService := service.NewLedgerService(uow, growth)
	publishService := service.NewPublishService(queueService, credentialService, bindingRepo, ledgerService, publishers, notifier)
	statisticsService := service.NewStatisticsService(bindingRepo, uow, credentialService, publishers, growth, service.StatisticsConfig{
		Concurrency: cfg.Statistics.Concurrency,
		PageSize:    cfg.Statistics.PageSize,
	})

	// 定时任务
	locker := redis.NewLocker(rdb)
	app.PublishJob = job.NewPublishJob(publishService, locker, cfg.Job.LockTTL)
	app.StatisticsJob = job.NewStatisticsJob(statisticsService, locker, cfg.Job.LockTTL)
	app.CronMgr = cron.NewCronManager(
		cron.Entry{Name: consts.JobPublish, Spec: cfg.Job.PublishSpec, Job: app.PublishJob},
		cron.Entry{Name: consts.JobStatistics, Spec: cfg.Job.StatisticsSpec, Job: app.StatisticsJob},
	)

	handlers := &api.HandlersGroup{
		JobHandler: handler.NewJobHandler(app.PublishJob, app.StatisticsJob),
		HealthHandler: handler.NewHealthHandler(map[string]handler.HealthCheck{
			"mysql": func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
			"redis": func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			},
			"minio": mediaStore.Ping,
		}),
	}
	app.Router = api.SetupRouter(handlers, cfg.Logstash.Index, cfg.Logstash.Token)

	return app, nil
}

func newRefresher(p config.PlatformConfig, basicAuth bool) social.TokenRefresher {
	return social.NewOAuthRefresher(social.OAuthConfig{
		ClientID:     p.ClientID,
		ClientSecret: p.ClientSecret,
		TokenURL:     p.TokenURL,
		BasicAuth:    basicAuth,
		Timeout:      p.HTTPTimeout,
	})
}

// Close 释放 Kafka 生产者等外部资源
func (a *ApplicationContainer) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			log.Error("failed to close resource", "err", err)
		}
	}
}
