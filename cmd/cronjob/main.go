package main

import (
	"Crosspost/internal/api/config"
	"Crosspost/internal/job"
	"Crosspost/internal/pkg/cron"
	"Crosspost/internal/pkg/database"
	"Crosspost/internal/pkg/logger"
	"Crosspost/internal/pkg/redis"
	"Crosspost/internal/wire"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

func main() {
	// 加载配置
	if err := config.LoadConfig(); err != nil {
		log.Error("Fatal error: failed to load configuration", "err", err)
		panic(err)
	}
	cfg := config.Cfg

	mode, err := config.ResolveJobMode(cfg.Job.Mode, os.Getenv("CRON_TYPE"))
	if err != nil {
		log.Error("Fatal error: invalid job mode", "err", err)
		panic(err)
	}

	// 初始化日志
	logger.InitLogger(cfg.Logstash)

	// 数据库连接
	dbCfg := cfg.DB
	db, err := database.NewGormDB(&dbCfg)
	if err != nil {
		log.Error("Fatal error: failed to create database connection", "err", err)
		panic(err)
	}
	if dbCfg.AutoMigrate {
		if err = database.AutoMigrate(db); err != nil {
			log.Error("Fatal error: failed to migrate tables", "err", err)
			panic(err)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Redis 连接
	rdb, err := redis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Error("Fatal error: failed to create redis connection", "err", err)
		panic(err)
	}
	defer func() { _ = rdb.Close() }()

	// 依赖注入
	app, err := wire.BuildApplication(db, rdb, cfg)
	if err != nil {
		log.Error("Fatal error: failed to create application", "err", err)
		panic(err)
	}
	defer app.Close()

	log.Info("Crosspost starting", "mode", mode)
	switch mode {
	case config.ModePublish:
		err = app.PublishJob.RunContext(ctx)
	case config.ModeStatistics:
		err = app.StatisticsJob.RunContext(ctx)
	case config.ModeServe:
		err = serve(ctx, app, cfg.Server.Port)
	}
	if errors.Is(err, job.ErrJobRunning) {
		// 上一次运行尚未结束，本次直接退出
		log.Info("Previous run still in progress, skipped", "mode", mode)
		err = nil
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("App exited with error", "mode", mode, "err", err)
		app.Close()
		os.Exit(1)
	}
	log.Info("App exited successfully.", "mode", mode)
}

// serve 常驻进程：cron 调度两个任务，同时提供运维接口
func serve(ctx context.Context, app *wire.ApplicationContainer, port int) error {
	g, ctx := errgroup.WithContext(ctx)

	// 定时任务
	if err := cron.InitCron(app.CronMgr); err != nil {
		return err
	}
	g.Go(func() error {
		<-ctx.Done()
		log.Info("Cron Jobs stopping...")
		app.CronMgr.Stop()
		return nil
	})

	// HTTP 服务器
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.Go(func() error {
		log.Info("HTTP Server starting...", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// 优雅退出
	g.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP Server shutdown failed", "err", err)
		}
		return nil
	})

	return g.Wait()
}
