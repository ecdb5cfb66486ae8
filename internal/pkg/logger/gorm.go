package logger

import (
	"context"
	"errors"
	log "log/slog"
	"strings"
	"time"

	"gorm.io/gorm/logger"
)

// SlogGormLogger 把 GORM 的 SQL 日志写入 slog，带上 ctx 中的 trace_id
type SlogGormLogger struct {
	LogLevel      logger.LogLevel
	SlowThreshold time.Duration
}

func NewGormLogger() *SlogGormLogger {
	return &SlogGormLogger{LogLevel: logger.Warn, SlowThreshold: 200 * time.Millisecond}
}

func (l *SlogGormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &SlogGormLogger{LogLevel: level, SlowThreshold: l.SlowThreshold}
}

func (l *SlogGormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= logger.Info {
		log.InfoContext(ctx, msg, "data", data)
	}
}

func (l *SlogGormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= logger.Warn {
		log.WarnContext(ctx, msg, "data", data)
	}
}

func (l *SlogGormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= logger.Error {
		log.ErrorContext(ctx, msg, "data", data)
	}
}

func (l *SlogGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	operation := "Query"
	if i := strings.IndexByte(sql, ' '); i > 0 {
		operation = sql[:i]
	}
	msg := "MySQL " + operation

	fields := []any{
		log.String("sql", sql),
		log.Duration("latency", elapsed),
		log.Int64("rows", rows),
	}

	switch {
	case err != nil && !errors.Is(err, logger.ErrRecordNotFound) && l.LogLevel >= logger.Error:
		log.ErrorContext(ctx, msg+" Error", append(fields, log.Any("err", err))...)
	case elapsed > l.SlowThreshold && l.LogLevel >= logger.Warn:
		log.WarnContext(ctx, msg+" Slow", fields...)
	case l.LogLevel >= logger.Info:
		log.InfoContext(ctx, msg, fields...)
	}
}
