package service

import (
	"Crosspost/internal/model"
	"Crosspost/internal/pkg/social"
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

var testCred = &Credential{AccessToken: "at"}

func TestYoutubePublisherShortSuccess(t *testing.T) {
	yt, store, dl := &fakeYoutube{}, &fakeMediaStore{}, &fakeDownloader{dir: t.TempDir()}
	p := NewYoutubePublisher(yt, store, dl)

	published, err := p.Publish(context.Background(), &model.PlatformBinding{ClerkID: "u"}, testCred,
		&model.YoutubeContent{Type: model.YoutubeShort, Title: "Clip", Description: "desc", MediaKey: "videos/a.mp4"})
	require.NoError(t, err)
	require.Equal(t, "yt-1", published.ID)
	require.Equal(t, "Clip", published.Title)
	require.Equal(t, "desc", published.Description)

	require.Len(t, yt.uploads, 1)
	require.Equal(t, []string{"shorts"}, yt.uploads[0].Tags)
	require.Equal(t, "public", yt.uploads[0].Privacy)
	require.Equal(t, "video:https://media.local/videos/a.mp4", yt.bodies[0])

	// 远端素材等账本提交后再删
	require.Empty(t, store.removed)
	require.NotNil(t, published.Cleanup)
	published.Cleanup(context.Background())
	require.Equal(t, []string{"videos/a.mp4"}, store.removed)
	require.Len(t, dl.paths, 1)
	_, statErr := os.Stat(dl.paths[0])
	require.True(t, os.IsNotExist(statErr))
}

func TestYoutubePublisherVideoHasNoTags(t *testing.T) {
	yt := &fakeYoutube{}
	p := NewYoutubePublisher(yt, &fakeMediaStore{}, &fakeDownloader{dir: t.TempDir()})

	_, err := p.Publish(context.Background(), &model.PlatformBinding{}, testCred,
		&model.YoutubeContent{Type: model.YoutubeVideo, Title: "Long", MediaKey: "k"})
	require.NoError(t, err)
	require.Empty(t, yt.uploads[0].Tags)
}

func TestYoutubePublisherTransientKeepsRemote(t *testing.T) {
	yt := &fakeYoutube{err: fmt.Errorf("upload: %w", social.ErrTransientNetwork)}
	store, dl := &fakeMediaStore{}, &fakeDownloader{dir: t.TempDir()}
	p := NewYoutubePublisher(yt, store, dl)

	_, err := p.Publish(context.Background(), &model.PlatformBinding{}, testCred,
		&model.YoutubeContent{Type: model.YoutubeVideo, Title: "t", MediaKey: "k"})
	require.ErrorIs(t, err, ErrTransientNetwork)
	require.Empty(t, store.removed)
	_, statErr := os.Stat(dl.paths[0])
	require.True(t, os.IsNotExist(statErr))
}

func TestYoutubePublisherPermanentRemovesRemote(t *testing.T) {
	yt := &fakeYoutube{err: &social.PlatformRejectedError{Platform: "youtube", Status: 400, Body: "invalid title"}}
	store := &fakeMediaStore{}
	p := NewYoutubePublisher(yt, store, &fakeDownloader{dir: t.TempDir()})

	_, err := p.Publish(context.Background(), &model.PlatformBinding{}, testCred,
		&model.YoutubeContent{Type: model.YoutubeVideo, Title: "t", MediaKey: "k"})
	require.ErrorIs(t, err, ErrPlatformRejected)
	require.Equal(t, []string{"k"}, store.removed)
}

func TestYoutubePublisherDownloadFailure(t *testing.T) {
	yt := &fakeYoutube{}
	dl := &fakeDownloader{err: fmt.Errorf("get: %w", social.ErrTransientNetwork)}
	p := NewYoutubePublisher(yt, &fakeMediaStore{}, dl)

	_, err := p.Publish(context.Background(), &model.PlatformBinding{}, testCred,
		&model.YoutubeContent{Type: model.YoutubeVideo, Title: "t", MediaKey: "k"})
	require.ErrorIs(t, err, ErrTransientNetwork)
	require.Empty(t, yt.uploads)
}

func TestYoutubePublisherMissingMediaRemovesRemote(t *testing.T) {
	yt, store := &fakeYoutube{}, &fakeMediaStore{}
	dl := &fakeDownloader{err: &social.PlatformRejectedError{Platform: "media-store", Status: 404}}
	p := NewYoutubePublisher(yt, store, dl)

	_, err := p.Publish(context.Background(), &model.PlatformBinding{}, testCred,
		&model.YoutubeContent{Type: model.YoutubeVideo, Title: "t", MediaKey: "k"})
	require.ErrorIs(t, err, ErrPlatformRejected)
	require.Empty(t, yt.uploads)
	require.Equal(t, []string{"k"}, store.removed)
}

func TestTwitterPublisherThreadInterrupted(t *testing.T) {
	tw := &fakeTwitter{err: &social.PlatformRejectedError{Platform: "twitter", Status: 403}, failAt: 2}
	p := NewTwitterPublisher(tw)

	published, err := p.Publish(context.Background(), &model.PlatformBinding{}, testCred,
		&model.TweetContent{Segments: []model.TweetSegment{{Text: "one"}, {Text: "two"}, {Text: "three"}}})
	require.NoError(t, err)
	require.Equal(t, "tw-1", published.ID)
	require.Equal(t, "one", published.Text)
	require.Equal(t, []string{"one"}, tw.tweets)
}

func TestTwitterPublisherFirstTweetFails(t *testing.T) {
	tw := &fakeTwitter{err: &social.PlatformRejectedError{Platform: "twitter", Status: 401}}
	p := NewTwitterPublisher(tw)

	_, err := p.Publish(context.Background(), &model.PlatformBinding{}, testCred,
		&model.TweetContent{Segments: []model.TweetSegment{{Text: "one"}}})
	require.ErrorIs(t, err, ErrPlatformRejected)
}

func TestPublisherRejectsForeignContent(t *testing.T) {
	p := NewLinkedinPublisher(&fakeLinkedin{})
	_, err := p.Publish(context.Background(), &model.PlatformBinding{}, testCred,
		&model.TweetContent{Segments: []model.TweetSegment{{Text: "x"}}})
	require.ErrorIs(t, err, ErrUnsupportedContentType)
}

func TestClassify(t *testing.T) {
	require.Equal(t, "published", Classify(nil))
	require.Equal(t, "platform_rejected", Classify(&social.PlatformRejectedError{Status: 500}))
	require.Equal(t, "platform_unauthorized", Classify(&social.PlatformRejectedError{Status: 403}))
	require.Equal(t, "transient_network", Classify(fmt.Errorf("x: %w", ErrTransientNetwork)))
	require.Equal(t, "store_write", Classify(fmt.Errorf("%w: %w", ErrStoreWrite, ErrMissingBinding)))
	require.Equal(t, "unexpected", Classify(errBoom))
}
