package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const unlockScript = "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end"

// Locker 基于 SETNX 的分布式锁，value 用于校验持有者
type Locker struct {
	rdb        redis.Cmdable
	retryDelay time.Duration
}

func NewLocker(rdb redis.Cmdable) *Locker {
	return &Locker{rdb: rdb, retryDelay: 200 * time.Millisecond}
}

// TryLock retryTimes 为 -1 时一直重试直到 ctx 结束
func (l *Locker) TryLock(ctx context.Context, key string, value string, expiration time.Duration, retryTimes int) (bool, error) {
	for i := 0; i < retryTimes || retryTimes == -1; i++ {
		success, err := l.rdb.SetNX(ctx, key, value, expiration).Result()
		if err != nil {
			return false, err
		}
		if success {
			return true, nil
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(l.retryDelay):
		}
	}
	return false, nil
}

// UnLock 释放锁，只删除自己持有的
func (l *Locker) UnLock(ctx context.Context, key string, value string) error {
	return l.rdb.Eval(ctx, unlockScript, []string{key}, value).Err()
}
