package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PublishAttemptsTotal 每个队列条目的处理结果，outcome 为 published 或错误分类
	PublishAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crosspost_publish_attempts_total",
			Help: "Pending post publish attempts by platform and outcome",
		},
		[]string{"platform", "outcome"},
	)

	StatisticsRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crosspost_statistics_refresh_total",
			Help: "Binding statistics refreshes by platform and outcome",
		},
		[]string{"platform", "outcome"},
	)

	TokenRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crosspost_token_refresh_total",
			Help: "OAuth access token refreshes by platform and outcome",
		},
		[]string{"platform", "outcome"},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crosspost_job_duration_seconds",
			Help:    "Duration of publish and statistics runs",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
		},
		[]string{"job"},
	)

	JobSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crosspost_job_skipped_total",
			Help: "Runs skipped because another run held the lock",
		},
		[]string{"job"},
	)
)

func RecordPublishAttempt(platform, outcome string) {
	PublishAttemptsTotal.WithLabelValues(platform, outcome).Inc()
}

func RecordStatisticsRefresh(platform, outcome string) {
	StatisticsRefreshTotal.WithLabelValues(platform, outcome).Inc()
}

func RecordTokenRefresh(platform, outcome string) {
	TokenRefreshTotal.WithLabelValues(platform, outcome).Inc()
}

func ObserveJob(job string, elapsed time.Duration) {
	JobDuration.WithLabelValues(job).Observe(elapsed.Seconds())
}

func RecordJobSkipped(job string) {
	JobSkippedTotal.WithLabelValues(job).Inc()
}
