package service

import (
	"Crosspost/internal/model"
	"Crosspost/internal/pkg/consts"
	"Crosspost/internal/pkg/social"
	"context"
	log "log/slog"
	"os"

	"github.com/pkg/errors"
)

type YoutubeAPI interface {
	InsertVideo(ctx context.Context, accessToken string, in *social.VideoUpload) (*social.UploadedVideo, error)
	SubscriberCount(ctx context.Context, accessToken string) (int64, error)
}

// MediaStore 视频素材所在的对象存储
type MediaStore interface {
	PresignedURL(ctx context.Context, key string) (string, error)
	Remove(ctx context.Context, key string) error
}

type MediaDownloader interface {
	Download(ctx context.Context, url string) (string, error)
}

type youtubePublisher struct {
	api        YoutubeAPI
	store      MediaStore
	downloader MediaDownloader
}

func NewYoutubePublisher(api YoutubeAPI, store MediaStore, downloader MediaDownloader) Publisher {
	return &youtubePublisher{api: api, store: store, downloader: downloader}
}

func (p *youtubePublisher) Platform() model.Platform { return model.PlatformYoutube }

// Publish 本地临时文件总会删除；远端素材在永久失败时删除，成功时交给 Cleanup 在账本提交后删除
func (p *youtubePublisher) Publish(ctx context.Context, binding *model.PlatformBinding, cred *Credential, content model.Content) (*PublishedPost, error) {
	c, ok := content.(*model.YoutubeContent)
	if !ok {
		return nil, contentMismatch(model.PlatformYoutube, content)
	}

	url, err := p.store.PresignedURL(ctx, c.MediaKey)
	if err != nil {
		return nil, errors.Wrapf(social.ErrTransientNetwork, "resolve media %s: %v", c.MediaKey, err)
	}

	path, err := p.downloader.Download(ctx, url)
	if err != nil {
		if isPermanent(err) {
			p.removeRemote(ctx, c.MediaKey)
		}
		return nil, errors.Wrapf(err, "fetch media %s", c.MediaKey)
	}
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			log.WarnContext(ctx, "remove temp media failed", "path", path, "err", rmErr)
		}
	}()

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open temp media")
	}
	defer file.Close()

	var tags []string
	if c.Type == model.YoutubeShort {
		tags = []string{consts.YoutubeShortsTag}
	}

	video, err := p.api.InsertVideo(ctx, cred.AccessToken, &social.VideoUpload{
		Title:       c.Title,
		Description: c.Description,
		Tags:        tags,
		Privacy:     consts.YoutubePrivacy,
		Media:       file,
	})
	if err != nil {
		if isPermanent(err) {
			p.removeRemote(ctx, c.MediaKey)
		}
		return nil, err
	}

	key := c.MediaKey
	return &PublishedPost{
		ID:          video.ID,
		Title:       c.Title,
		Description: c.Description,
		Cleanup:     func(ctx context.Context) { p.removeRemote(ctx, key) },
	}, nil
}

func (p *youtubePublisher) removeRemote(ctx context.Context, key string) {
	if err := p.store.Remove(ctx, key); err != nil {
		log.WarnContext(ctx, "remove remote media failed", "media_key", key, "err", err)
	}
}

func (p *youtubePublisher) FollowerCount(ctx context.Context, cred *Credential) (int64, error) {
	return p.api.SubscriberCount(ctx, cred.AccessToken)
}
