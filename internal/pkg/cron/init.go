package cron

import log "log/slog"

// InitCron 注册全部任务后启动；任一表达式非法则不启动
func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		log.Error("Cron jobs registration failed", "err", err)
		return err
	}
	log.Info("Cron jobs starting", "jobs", len(mgr.entries))
	mgr.Start()
	return nil
}
