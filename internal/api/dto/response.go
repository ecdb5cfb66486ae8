package dto

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// JobRunDTO 手动触发任务的结果
type JobRunDTO struct {
	Job        string `json:"job"`
	TraceID    string `json:"traceId"`
	DurationMs int64  `json:"durationMs"`
}

type HealthDTO struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}
