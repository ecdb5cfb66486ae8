package social

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	YoutubeTokenURL = "https://oauth2.googleapis.com/token"
	youtubePlatform = "youtube"
)

// VideoUpload 上传参数
type VideoUpload struct {
	Title       string
	Description string
	Tags        []string
	Privacy     string
	Media       io.Reader
}

type UploadedVideo struct {
	ID    string
	Title string
}

type YoutubeClient struct {
	endpoint string
	timeout  time.Duration
}

// NewYoutubeClient endpoint 为空时使用 SDK 默认地址
func NewYoutubeClient(endpoint string, timeout time.Duration) *YoutubeClient {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &YoutubeClient{endpoint: endpoint, timeout: timeout}
}

func (c *YoutubeClient) service(ctx context.Context, accessToken string) (*youtube.Service, error) {
	opts := []option.ClientOption{
		option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})),
	}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}
	return youtube.NewService(ctx, opts...)
}

// InsertVideo 成功条件是 200，其他状态一律视为平台拒绝
func (c *YoutubeClient) InsertVideo(ctx context.Context, accessToken string, in *VideoUpload) (*UploadedVideo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	svc, err := c.service(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("init youtube service: %w", err)
	}

	privacy := in.Privacy
	if privacy == "" {
		privacy = "public"
	}
	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       in.Title,
			Description: in.Description,
			Tags:        in.Tags,
		},
		Status: &youtube.VideoStatus{PrivacyStatus: privacy},
	}

	resp, err := svc.Videos.Insert([]string{"snippet", "status"}, video).
		Media(in.Media).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classifyGoogleErr("youtube insert video", err)
	}
	if resp.HTTPStatusCode != http.StatusOK || resp.Id == "" {
		return nil, &PlatformRejectedError{
			Platform: youtubePlatform,
			Status:   resp.HTTPStatusCode,
			Body:     fmt.Sprintf("unexpected insert response, id=%q", resp.Id),
		}
	}
	return &UploadedVideo{ID: resp.Id, Title: in.Title}, nil
}

// SubscriberCount 当前授权频道的订阅数
func (c *YoutubeClient) SubscriberCount(ctx context.Context, accessToken string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	svc, err := c.service(ctx, accessToken)
	if err != nil {
		return 0, fmt.Errorf("init youtube service: %w", err)
	}

	resp, err := svc.Channels.List([]string{"statistics"}).Mine(true).Context(ctx).Do()
	if err != nil {
		return 0, classifyGoogleErr("youtube list channels", err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Statistics == nil {
		return 0, &PlatformRejectedError{Platform: youtubePlatform, Status: resp.HTTPStatusCode, Body: "no channel for token"}
	}
	return int64(resp.Items[0].Statistics.SubscriberCount), nil
}

func classifyGoogleErr(op string, err error) error {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return &PlatformRejectedError{Platform: youtubePlatform, Status: gErr.Code, Body: gErr.Message}
	}
	return transient(op, err)
}
