package cron

import (
	log "log/slog"

	"github.com/robfig/cron/v3"
)

// Entry 一个调度表达式对应的任务
type Entry struct {
	Name string
	Spec string
	Job  cron.Job
}

type Manager struct {
	engine  *cron.Cron
	entries []Entry
}

func NewCronManager(entries ...Entry) *Manager {
	return &Manager{
		// 上一次仍在运行时跳过本次触发，跨进程互斥由 Redis 锁保证
		engine:  cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		entries: entries,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	for _, e := range s.entries {
		id, err := s.engine.AddJob(e.Spec, e.Job)
		if err != nil {
			return err
		}
		log.Info("Cron job registered", "job", e.Name, "spec", e.Spec, "entry_id", id)
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron engine starting")
	s.engine.Start()
}

// Stop 等待正在执行的任务结束
func (s *Manager) Stop() {
	log.Info("Cron engine stopping")
	<-s.engine.Stop().Done()
}
