package model

import (
	"Crosspost/internal/pkg/util"
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// ErrUnsupportedContentType 内容无法解析、类型未知或校验失败
var ErrUnsupportedContentType = errors.New("unsupported content type")

// Content 各平台内容的封闭联合类型
type Content interface {
	Platform() Platform
	Marshal() (string, error)
	isContent()
}

// ParseContent 按平台解析队列中序列化的内容
func ParseContent(platform Platform, raw string) (Content, error) {
	switch platform {
	case PlatformLinkedin:
		return ParseLinkedinContent(raw)
	case PlatformTwitter:
		return ParseTweetContent(raw)
	case PlatformYoutube:
		return ParseYoutubeContent(raw)
	}
	return nil, fmt.Errorf("%w: unknown platform %q", ErrUnsupportedContentType, platform)
}

func unsupported(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedContentType, fmt.Sprintf(format, args...))
}

// ---------------------------------------------------------------- LinkedIn

type LinkedinMediaCategory string

const (
	LinkedinMediaNone    LinkedinMediaCategory = "NONE"
	LinkedinMediaArticle LinkedinMediaCategory = "ARTICLE"
	LinkedinMediaImage   LinkedinMediaCategory = "IMAGE"
	LinkedinMediaVideo   LinkedinMediaCategory = "VIDEO"
)

type LinkedinContent struct {
	ShareMediaCategory LinkedinMediaCategory `json:"shareMediaCategory" validate:"required"`
	ShareCommentary    string                `json:"shareCommentary" validate:"max=3000"`
	Media              []json.RawMessage     `json:"media,omitempty"`
}

func (*LinkedinContent) Platform() Platform { return PlatformLinkedin }
func (*LinkedinContent) isContent()         {}

func (c *LinkedinContent) Marshal() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func ParseLinkedinContent(raw string) (*LinkedinContent, error) {
	var c LinkedinContent
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, unsupported("linkedin payload: %v", err)
	}
	c.ShareMediaCategory = LinkedinMediaCategory(strings.ToUpper(strings.TrimSpace(string(c.ShareMediaCategory))))
	if err := util.ValidateStruct(&c); err != nil {
		return nil, unsupported("linkedin payload: %v", err)
	}
	switch c.ShareMediaCategory {
	case LinkedinMediaNone:
		if strings.TrimSpace(c.ShareCommentary) == "" {
			return nil, unsupported("linkedin text share without commentary")
		}
	case LinkedinMediaArticle, LinkedinMediaImage, LinkedinMediaVideo:
		if len(c.Media) == 0 {
			return nil, unsupported("linkedin %s share without media", c.ShareMediaCategory)
		}
	default:
		return nil, unsupported("linkedin shareMediaCategory %q", c.ShareMediaCategory)
	}
	return &c, nil
}

// ---------------------------------------------------------------- Twitter

type TweetSegment struct {
	Text string `json:"text" validate:"required"`
}

// TweetContent 单条推文或串推，多于一段即为串推
type TweetContent struct {
	Segments []TweetSegment `validate:"required,min=1,dive"`
}

func (*TweetContent) Platform() Platform { return PlatformTwitter }
func (*TweetContent) isContent()         {}

func (c *TweetContent) IsThread() bool {
	return len(c.Segments) > 1
}

// Marshal 单条输出对象，串推输出数组
func (c *TweetContent) Marshal() (string, error) {
	var (
		b   []byte
		err error
	)
	if c.IsThread() {
		b, err = json.Marshal(c.Segments)
	} else if len(c.Segments) == 1 {
		b, err = json.Marshal(c.Segments[0])
	} else {
		return "", unsupported("empty tweet content")
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParseTweetContent 接受 {"text":...}、["a","b"] 或 [{"text":...},...]
func ParseTweetContent(raw string) (*TweetContent, error) {
	data := bytes.TrimSpace([]byte(raw))
	if len(data) == 0 {
		return nil, unsupported("empty tweet payload")
	}

	var c TweetContent
	switch data[0] {
	case '{':
		var seg TweetSegment
		if err := json.Unmarshal(data, &seg); err != nil {
			return nil, unsupported("tweet payload: %v", err)
		}
		c.Segments = []TweetSegment{seg}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, unsupported("tweet thread payload: %v", err)
		}
		for i, item := range items {
			seg, err := parseTweetSegment(item)
			if err != nil {
				return nil, unsupported("tweet thread segment %d: %v", i, err)
			}
			c.Segments = append(c.Segments, seg)
		}
	default:
		return nil, unsupported("tweet payload is neither object nor array")
	}

	if err := util.ValidateStruct(&c); err != nil {
		return nil, unsupported("tweet payload: %v", err)
	}
	return &c, nil
}

func parseTweetSegment(item json.RawMessage) (TweetSegment, error) {
	item = bytes.TrimSpace(item)
	if len(item) > 0 && item[0] == '"' {
		var text string
		if err := json.Unmarshal(item, &text); err != nil {
			return TweetSegment{}, err
		}
		return TweetSegment{Text: text}, nil
	}
	var seg TweetSegment
	err := json.Unmarshal(item, &seg)
	return seg, err
}

// ---------------------------------------------------------------- YouTube

type YoutubeVideoType string

const (
	YoutubeShort YoutubeVideoType = "short"
	YoutubeVideo YoutubeVideoType = "video"
)

type YoutubeContent struct {
	Type        YoutubeVideoType `json:"type" validate:"required"`
	Title       string           `json:"title" validate:"required,max=100"`
	Description string           `json:"description" validate:"max=5000"`
	MediaKey    string           `json:"mediaKey" validate:"required"`
}

func (*YoutubeContent) Platform() Platform { return PlatformYoutube }
func (*YoutubeContent) isContent()         {}

func (c *YoutubeContent) Marshal() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func ParseYoutubeContent(raw string) (*YoutubeContent, error) {
	var c YoutubeContent
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, unsupported("youtube payload: %v", err)
	}
	c.Type = YoutubeVideoType(strings.ToLower(strings.TrimSpace(string(c.Type))))
	if err := util.ValidateStruct(&c); err != nil {
		return nil, unsupported("youtube payload: %v", err)
	}
	switch c.Type {
	case YoutubeShort, YoutubeVideo:
	default:
		return nil, unsupported("youtube type %q", c.Type)
	}
	return &c, nil
}
