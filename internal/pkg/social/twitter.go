package social

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

const (
	TwitterAPIBase  = "https://api.twitter.com"
	TwitterTokenURL = "https://api.twitter.com/2/oauth2/token"
	twitterPlatform = "twitter"
)

type Tweet struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type createTweetRequest struct {
	Text  string      `json:"text"`
	Reply *tweetReply `json:"reply,omitempty"`
}

type tweetReply struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}

type TwitterClient struct {
	http *resty.Client
}

func NewTwitterClient(baseURL string, timeout time.Duration) *TwitterClient {
	if baseURL == "" {
		baseURL = TwitterAPIBase
	}
	return &TwitterClient{http: newRestyClient(baseURL, timeout)}
}

// CreateTweet inReplyTo 非空时作为串推的回复发出
func (c *TwitterClient) CreateTweet(ctx context.Context, accessToken, text, inReplyTo string) (*Tweet, error) {
	reqBody := createTweetRequest{Text: text}
	if inReplyTo != "" {
		reqBody.Reply = &tweetReply{InReplyToTweetID: inReplyTo}
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/2/tweets")
	if err != nil {
		return nil, transient("twitter create tweet", err)
	}
	if resp.StatusCode() != http.StatusCreated && resp.StatusCode() != http.StatusOK {
		return nil, rejected(twitterPlatform, resp.StatusCode(), resp.Body())
	}

	var out struct {
		Data Tweet `json:"data"`
	}
	if err = json.Unmarshal(resp.Body(), &out); err != nil || out.Data.ID == "" {
		return nil, rejected(twitterPlatform, resp.StatusCode(), resp.Body())
	}
	return &out.Data, nil
}

// FollowersCount 当前授权用户的粉丝数
func (c *TwitterClient) FollowersCount(ctx context.Context, accessToken string) (int64, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetQueryParam("user.fields", "public_metrics").
		Get("/2/users/me")
	if err != nil {
		return 0, transient("twitter get me", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return 0, rejected(twitterPlatform, resp.StatusCode(), resp.Body())
	}

	var out struct {
		Data struct {
			PublicMetrics struct {
				FollowersCount int64 `json:"followers_count"`
			} `json:"public_metrics"`
		} `json:"data"`
	}
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return 0, rejected(twitterPlatform, resp.StatusCode(), resp.Body())
	}
	return out.Data.PublicMetrics.FollowersCount, nil
}
