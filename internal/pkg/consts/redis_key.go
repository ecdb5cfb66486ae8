package consts

// JobLockPrefix 任务运行锁，后缀为任务名
const JobLockPrefix = "crosspost:lock:job:"

const (
	PublishJobLock    = JobLockPrefix + JobPublish
	StatisticsJobLock = JobLockPrefix + JobStatistics
)
