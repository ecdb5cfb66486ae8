package model

// ScheduleEvent 日程事件，posted 为 1 表示关联的待发布内容已发出
type ScheduleEvent struct {
	ID          string  `gorm:"primaryKey;column:id;type:varchar(64)"`
	ClerkID     string  `gorm:"column:clerkId;type:varchar(64);not null;index"`
	SocialMedia string  `gorm:"column:socialMedia;type:varchar(32);not null;default:''"`
	Content     string  `gorm:"column:content;type:longtext"`
	PendingID   *string `gorm:"column:pendingId;type:varchar(64);index"`
	Date        int64   `gorm:"column:date;not null"`
	Posted      int8    `gorm:"column:posted;not null;default:0"`
}

func (ScheduleEvent) TableName() string {
	return "event"
}
