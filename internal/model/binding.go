package model

import (
	"time"
)

// PlatformBinding 用户与某个平台账号的绑定，保存凭据、资料和发布记录
type PlatformBinding struct {
	ID              string       `gorm:"primaryKey;column:id;type:varchar(64)" json:"id"`
	ClerkID         string       `gorm:"column:clerkId;type:varchar(64);not null;uniqueIndex:idx_clerk" json:"clerk_id"`
	CreatedAt       time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	TokenAccess     string       `gorm:"column:tokenAccess;type:varchar(2048);not null;default:''" json:"-"`
	TokenRefresh    string       `gorm:"column:tokenRefresh;type:varchar(2048);not null;default:''" json:"-"`
	TokenExpiration int64        `gorm:"column:tokenExpiration;not null;default:0" json:"token_expiration"`
	ProfileID       string       `gorm:"column:profile_id;type:varchar(128);not null;default:''" json:"profile_id"`
	ProfileUsername string       `gorm:"column:profile_username;type:varchar(255);not null;default:''" json:"profile_username"`
	ProfileURL      string       `gorm:"column:profile_url;type:varchar(1024);not null;default:''" json:"profile_url"`
	ProfilePicture  string       `gorm:"column:profile_picture;type:varchar(1024);not null;default:''" json:"profile_picture"`
	Followers       FollowerList `gorm:"column:profile_followers;type:longtext" json:"profile_followers"`
	Posts           PostList     `gorm:"column:posts;type:longtext" json:"posts"`

	Platform Platform `gorm:"-" json:"platform"`
}

// TokenExpired 按毫秒时间戳判断访问令牌是否过期
func (b *PlatformBinding) TokenExpired(nowMilli int64) bool {
	return b.TokenAccess == "" || nowMilli >= b.TokenExpiration
}
