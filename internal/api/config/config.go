package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	ModePublish    = "publish"
	ModeStatistics = "statistics"
	ModeServe      = "serve"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从 ./configs/config.yaml 与 CROSSPOST_ 环境变量加载配置并填充到 Cfg
func LoadConfig() error {
	cfg, err := Load("./configs")
	if err != nil {
		return err
	}
	Cfg = cfg
	return nil
}

// Load 配置文件缺失时只使用默认值和环境变量
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix("CROSSPOST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate 认领超时必须长于单条视频最慢的处理时间（刷新令牌、下载、上传），否则上传中的条目会被其他运行重新认领
func (c *Config) validate() error {
	worst := c.Youtube.HTTPTimeout + 2*c.Youtube.UploadTimeout
	if c.Publish.ClaimTTL <= worst {
		return fmt.Errorf("publish.claim_ttl %s must exceed youtube http_timeout + 2*upload_timeout (%s)", c.Publish.ClaimTTL, worst)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.max_idle", 5)
	v.SetDefault("database.max_open", 20)
	v.SetDefault("database.max_lifetime", 30)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("minio.region", "us-east-1")
	v.SetDefault("minio.presign_ttl", "15m")
	v.SetDefault("kafka.published_topic", "crosspost.post-published")

	// job.mode 不设默认值，交给 ResolveJobMode 结合 CRON_TYPE 判断
	v.SetDefault("job.mode", "")
	v.SetDefault("job.publish_spec", "@every 1m")
	v.SetDefault("job.statistics_spec", "@daily")
	v.SetDefault("job.lock_ttl", "30m")

	v.SetDefault("publish.max_attempts", 5)
	v.SetDefault("publish.claim_ttl", "30m")
	v.SetDefault("publish.page_size", 100)
	v.SetDefault("statistics.concurrency", 4)
	v.SetDefault("statistics.page_size", 200)

	v.SetDefault("linkedin.token_url", "https://www.linkedin.com/oauth/v2/accessToken")
	v.SetDefault("linkedin.base_url", "https://api.linkedin.com")
	v.SetDefault("twitter.token_url", "https://api.twitter.com/2/oauth2/token")
	v.SetDefault("twitter.base_url", "https://api.twitter.com")
	v.SetDefault("youtube.token_url", "https://oauth2.googleapis.com/token")
	for _, p := range []string{"linkedin", "twitter", "youtube"} {
		v.SetDefault(p+".http_timeout", "20s")
		v.SetDefault(p+".upload_timeout", "10m")
	}
}

// ResolveJobMode job.mode 优先；未设置时兼容旧的 CRON_TYPE=day 进入统计模式
func ResolveJobMode(mode, cronType string) (string, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	switch mode {
	case ModePublish, ModeStatistics, ModeServe:
		return mode, nil
	case "":
		if strings.EqualFold(strings.TrimSpace(cronType), "day") {
			return ModeStatistics, nil
		}
		return ModePublish, nil
	}
	return "", fmt.Errorf("unknown job mode %q", mode)
}
