package logger

import (
	"Crosspost/internal/pkg/consts"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLoggerHook Redis 只用于任务运行锁，日志按锁对应的任务名标注
type RedisLoggerHook struct {
	SlowThreshold time.Duration
}

func NewRedisLogger() *RedisLoggerHook {
	return &RedisLoggerHook{SlowThreshold: 100 * time.Millisecond}
}

func (s *RedisLoggerHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		start := time.Now()
		conn, err := next(ctx, network, addr)
		if err != nil {
			log.ErrorContext(ctx, "Redis Dial Error",
				log.String("addr", addr),
				log.Duration("latency", time.Since(start)),
				log.Any("err", err),
			)
		}
		return conn, err
	}
}

func (s *RedisLoggerHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		elapsed := time.Since(start)

		if err == nil && elapsed < s.SlowThreshold {
			return nil
		}
		if err != nil && ignorableRedisErr(cmd.Name(), err) {
			return err
		}

		fields := append(commandFields(cmd), log.Duration("latency", elapsed))
		if err != nil {
			log.ErrorContext(ctx, "Redis Error", append(fields, log.Any("err", err))...)
		} else {
			log.WarnContext(ctx, "Redis Slow", fields...)
		}
		return err
	}
}

func (s *RedisLoggerHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		if err != nil {
			log.ErrorContext(ctx, "Redis Pipeline Error",
				log.Int("cmd_count", len(cmds)),
				log.Duration("latency", time.Since(start)),
				log.Any("err", err))
		}
		return err
	}
}

func ignorableRedisErr(cmdName string, err error) bool {
	if errors.Is(err, redis.Nil) {
		return true
	}
	// 旧版本服务端不支持 CLIENT SETINFO
	return cmdName == "client" && strings.Contains(err.Error(), "setinfo")
}

// commandFields 不输出锁的持有者值和 Lua 脚本正文，只保留命令名、锁键与任务名
func commandFields(cmd redis.Cmder) []any {
	name := cmd.Name()
	fields := []any{log.String("command", name)}

	switch name {
	case "auth", "hello":
		return append(fields, log.String("args", "[PROTECTED]"))
	case "eval", "evalsha":
		// EVAL script numkeys key...
		if args := cmd.Args(); len(args) > 3 {
			return append(fields, lockFields(fmt.Sprint(args[3]))...)
		}
		return fields
	}
	if args := cmd.Args(); len(args) > 1 {
		return append(fields, lockFields(fmt.Sprint(args[1]))...)
	}
	return fields
}

func lockFields(key string) []any {
	fields := []any{log.String("key", key)}
	if job, ok := strings.CutPrefix(key, consts.JobLockPrefix); ok {
		fields = append(fields, log.String("job", job))
	}
	return fields
}
