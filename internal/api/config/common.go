package config

import "time"

// Config 配置主体
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	DB         DBConfig         `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	MinIO      MinIOConfig      `mapstructure:"minio"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Logstash   LogstashConfig   `mapstructure:"logstash"`
	Job        JobConfig        `mapstructure:"job"`
	Publish    PublishConfig    `mapstructure:"publish"`
	Statistics StatisticsConfig `mapstructure:"statistics"`
	Linkedin   PlatformConfig   `mapstructure:"linkedin"`
	Twitter    PlatformConfig   `mapstructure:"twitter"`
	Youtube    PlatformConfig   `mapstructure:"youtube"`
}

// ServerConfig 运维 HTTP 端口，仅 serve 模式使用
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// MinIOConfig 视频素材所在的对象存储
type MinIOConfig struct {
	Endpoint    string        `mapstructure:"endpoint"`
	AccessKey   string        `mapstructure:"access_key"`
	SecretKey   string        `mapstructure:"secret_key"`
	UseSSL      bool          `mapstructure:"use_ssl"`
	Region      string        `mapstructure:"region"`
	MediaBucket string        `mapstructure:"media_bucket"`
	PresignTTL  time.Duration `mapstructure:"presign_ttl"`
}

type KafkaConfig struct {
	Enabled        bool       `mapstructure:"enabled"`
	Brokers        []string   `mapstructure:"brokers"`
	Sasl           SaslConfig `mapstructure:"sasl"`
	PublishedTopic string     `mapstructure:"published_topic"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

// JobConfig 运行模式与 serve 模式下的调度表达式
type JobConfig struct {
	Mode           string        `mapstructure:"mode"`
	PublishSpec    string        `mapstructure:"publish_spec"`
	StatisticsSpec string        `mapstructure:"statistics_spec"`
	LockTTL        time.Duration `mapstructure:"lock_ttl"`
}

type PublishConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	ClaimTTL    time.Duration `mapstructure:"claim_ttl"`
	PageSize    int           `mapstructure:"page_size"`
	TempDir     string        `mapstructure:"temp_dir"`
}

type StatisticsConfig struct {
	Concurrency int `mapstructure:"concurrency"`
	PageSize    int `mapstructure:"page_size"`
}

// PlatformConfig 单个平台的 OAuth 应用与接口地址
type PlatformConfig struct {
	ClientID      string        `mapstructure:"client_id"`
	ClientSecret  string        `mapstructure:"client_secret"`
	TokenURL      string        `mapstructure:"token_url"`
	BaseURL       string        `mapstructure:"base_url"`
	HTTPTimeout   time.Duration `mapstructure:"http_timeout"`
	UploadTimeout time.Duration `mapstructure:"upload_timeout"`
}
