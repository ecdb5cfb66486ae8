package minio

import (
	"Crosspost/internal/api/config"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store 视频素材存储，mediaKey 即对象名
type Store struct {
	client     *minio.Client
	bucket     string
	presignTTL time.Duration
}

// NewStore 初始化 MinIO 客户端；Region 固定后预签名不需要访问服务端
func NewStore(cfg config.MinIOConfig) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio client: %w", err)
	}
	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Store{client: client, bucket: cfg.MediaBucket, presignTTL: ttl}, nil
}

// Ping 启动时检查素材桶是否存在
func (s *Store) Ping(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to connect to minio server: %w", err)
	}
	if !ok {
		return fmt.Errorf("minio bucket %q does not exist", s.bucket)
	}
	return nil
}
