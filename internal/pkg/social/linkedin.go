package social

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

const (
	LinkedinAPIBase  = "https://api.linkedin.com"
	LinkedinTokenURL = "https://www.linkedin.com/oauth/v2/accessToken"
	linkedinPlatform = "linkedin"
)

// UGCPost LinkedIn ugcPosts 请求体
type UGCPost struct {
	Author          string             `json:"author"`
	LifecycleState  string             `json:"lifecycleState"`
	SpecificContent UGCSpecificContent `json:"specificContent"`
	Visibility      UGCVisibility      `json:"visibility"`
}

type UGCSpecificContent struct {
	ShareContent UGCShareContent `json:"com.linkedin.ugc.ShareContent"`
}

type UGCShareContent struct {
	ShareCommentary    UGCText           `json:"shareCommentary"`
	ShareMediaCategory string            `json:"shareMediaCategory"`
	Media              []json.RawMessage `json:"media,omitempty"`
}

type UGCText struct {
	Text string `json:"text"`
}

type UGCVisibility struct {
	MemberNetworkVisibility string `json:"com.linkedin.ugc.MemberNetworkVisibility"`
}

type LinkedinClient struct {
	http *resty.Client
}

func NewLinkedinClient(baseURL string, timeout time.Duration) *LinkedinClient {
	if baseURL == "" {
		baseURL = LinkedinAPIBase
	}
	return &LinkedinClient{http: newRestyClient(baseURL, timeout)}
}

// CreateUGCPost 成功返回 201，帖子 id 在 x-restli-id 响应头
func (c *LinkedinClient) CreateUGCPost(ctx context.Context, accessToken string, post *UGCPost) (string, error) {
	body, err := json.Marshal(post)
	if err != nil {
		return "", err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetHeader("X-Restli-Protocol-Version", "2.0.0").
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/v2/ugcPosts")
	if err != nil {
		return "", transient("linkedin create post", err)
	}
	if resp.StatusCode() != http.StatusCreated {
		return "", rejected(linkedinPlatform, resp.StatusCode(), resp.Body())
	}
	return resp.Header().Get("x-restli-id"), nil
}
