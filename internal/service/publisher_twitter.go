package service

import (
	"Crosspost/internal/model"
	"Crosspost/internal/pkg/social"
	"context"
	log "log/slog"
)

type TwitterAPI interface {
	CreateTweet(ctx context.Context, accessToken, text, inReplyTo string) (*social.Tweet, error)
	FollowersCount(ctx context.Context, accessToken string) (int64, error)
}

type twitterPublisher struct {
	api TwitterAPI
}

func NewTwitterPublisher(api TwitterAPI) Publisher {
	return &twitterPublisher{api: api}
}

func (p *twitterPublisher) Platform() model.Platform { return model.PlatformTwitter }

// Publish 串推逐条回复上一条；首条发出后的失败只记录，账本记录首条
func (p *twitterPublisher) Publish(ctx context.Context, binding *model.PlatformBinding, cred *Credential, content model.Content) (*PublishedPost, error) {
	c, ok := content.(*model.TweetContent)
	if !ok || len(c.Segments) == 0 {
		return nil, contentMismatch(model.PlatformTwitter, content)
	}

	first, err := p.api.CreateTweet(ctx, cred.AccessToken, c.Segments[0].Text, "")
	if err != nil {
		return nil, err
	}

	prev := first.ID
	for i, seg := range c.Segments[1:] {
		tweet, err := p.api.CreateTweet(ctx, cred.AccessToken, seg.Text, prev)
		if err != nil {
			log.WarnContext(ctx, "thread interrupted after first tweet",
				"clerk_id", binding.ClerkID,
				"tweet_id", first.ID,
				"segment", i+1,
				"segments", len(c.Segments),
				"err", err,
			)
			break
		}
		prev = tweet.ID
	}

	text := first.Text
	if text == "" {
		text = c.Segments[0].Text
	}
	return &PublishedPost{ID: first.ID, Text: text}, nil
}

func (p *twitterPublisher) FollowerCount(ctx context.Context, cred *Credential) (int64, error) {
	return p.api.FollowersCount(ctx, cred.AccessToken)
}
