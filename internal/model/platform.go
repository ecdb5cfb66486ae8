package model

// Platform 目标发布平台
type Platform string

const (
	PlatformLinkedin Platform = "linkedin"
	PlatformTwitter  Platform = "twitter"
	PlatformYoutube  Platform = "youtube"
)

// Platforms 按发布顺序排列的全部平台
var Platforms = []Platform{PlatformLinkedin, PlatformTwitter, PlatformYoutube}

func (p Platform) Valid() bool {
	switch p {
	case PlatformLinkedin, PlatformTwitter, PlatformYoutube:
		return true
	}
	return false
}

// BindingTable 账号绑定表名
func (p Platform) BindingTable() string {
	switch p {
	case PlatformLinkedin:
		return "media_linkedin"
	case PlatformTwitter:
		return "media_twitter"
	case PlatformYoutube:
		return "media_youtube"
	}
	return ""
}

// PendingTable 待发布队列表名
func (p Platform) PendingTable() string {
	switch p {
	case PlatformLinkedin:
		return "pending_linkedin"
	case PlatformTwitter:
		return "pending_tweets"
	case PlatformYoutube:
		return "pending_youtube"
	}
	return ""
}

func (p Platform) String() string {
	return string(p)
}
