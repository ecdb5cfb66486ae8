package service

import (
	"Crosspost/internal/model"
	"math/rand/v2"
	"sync"
	"time"
)

// GrowthModel 统计数据的模拟增长规则
type GrowthModel interface {
	// Seed 新发布内容的初始快照
	Seed(date int64) model.StatisticsSnapshot
	// Grow 在上一快照基础上增长，各项不减
	Grow(last model.StatisticsSnapshot, date int64) model.StatisticsSnapshot
	// NextFollowers 平台不提供粉丝数时的合成值
	NextFollowers(last int64) int64
}

type randomGrowth struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewGrowthModel() GrowthModel {
	now := uint64(time.Now().UnixNano())
	return NewSeededGrowthModel(now, now>>17)
}

func NewSeededGrowthModel(seed1, seed2 uint64) GrowthModel {
	return &randomGrowth{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

func (g *randomGrowth) int64N(n int64) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Int64N(n)
}

func (g *randomGrowth) Seed(date int64) model.StatisticsSnapshot {
	impressions := g.int64N(1000)
	return model.StatisticsSnapshot{
		Date:        date,
		Impressions: impressions,
		Comments:    impressions / 10,
		Likes:       impressions / 5,
	}
}

func (g *randomGrowth) Grow(last model.StatisticsSnapshot, date int64) model.StatisticsSnapshot {
	return model.StatisticsSnapshot{
		Date:        date,
		Impressions: last.Impressions + g.int64N(110),
		Comments:    last.Comments + g.int64N(11),
		Likes:       last.Likes + g.int64N(11),
	}
}

func (g *randomGrowth) NextFollowers(last int64) int64 {
	return last + g.int64N(11)
}
