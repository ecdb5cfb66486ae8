package database

import (
	"Crosspost/internal/api/config"
	"Crosspost/internal/model"
	"Crosspost/internal/pkg/logger"
	"fmt"
	log "log/slog"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// NewGormDB 初始化并返回 *gorm.DB 实例，处理连接池配置
func NewGormDB(cfg *config.DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger:      logger.NewGormLogger(),
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	sqlDB.SetMaxOpenConns(cfg.MaxOpen)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Minute)

	if err = sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database connection check failed: %w", err)
	}

	if cfg.AutoMigrate {
		if err = AutoMigrate(db); err != nil {
			return nil, err
		}
	}

	log.Info("Database connection established successfully.")
	return db, nil
}

// AutoMigrate 开发环境建表，生产库结构由外部维护
func AutoMigrate(db *gorm.DB) error {
	for _, p := range model.Platforms {
		if err := db.Table(p.BindingTable()).AutoMigrate(&model.PlatformBinding{}); err != nil {
			return fmt.Errorf("migrate %s: %w", p.BindingTable(), err)
		}
		if err := db.Table(p.PendingTable()).AutoMigrate(&model.PendingPost{}); err != nil {
			return fmt.Errorf("migrate %s: %w", p.PendingTable(), err)
		}
	}
	if err := db.AutoMigrate(&model.ScheduleEvent{}); err != nil {
		return fmt.Errorf("migrate event: %w", err)
	}
	return nil
}
