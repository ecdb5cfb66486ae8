package model

type PendingStatus string

const (
	PendingStatusPending    PendingStatus = "pending"
	PendingStatusProcessing PendingStatus = "processing"
	// PendingStatusDead 重试耗尽或内容无法解析，不再被扫描
	PendingStatusDead PendingStatus = "dead"
)

// PendingPost 待发布队列条目，三张 pending 表共用同一结构
type PendingPost struct {
	ID          string        `gorm:"primaryKey;column:id;type:varchar(64)"`
	ClerkID     string        `gorm:"column:clerkId;type:varchar(64);not null;index"`
	PostingDate int64         `gorm:"column:postingDate;not null;index:idx_due,priority:2"`
	ContentType string        `gorm:"column:contentType;type:varchar(32);not null;default:''"`
	Content     string        `gorm:"column:content;type:longtext;not null"`
	Status      PendingStatus `gorm:"column:status;type:varchar(16);not null;default:pending;index:idx_due,priority:1"`
	ClaimToken  string        `gorm:"column:claimToken;type:varchar(64);not null;default:''"`
	ClaimedAt   int64         `gorm:"column:claimedAt;not null;default:0"`
	Attempts    int           `gorm:"column:attempts;not null;default:0"`
	LastError   string        `gorm:"column:lastError;type:varchar(1024);not null;default:''"`

	Platform Platform `gorm:"-"`
}

// Due 是否已到发布时间
func (p *PendingPost) Due(nowMilli int64) bool {
	return p.PostingDate <= nowMilli
}
