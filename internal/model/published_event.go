package model

// PostPublishedEvent 发布成功后投递到消息队列的通知
type PostPublishedEvent struct {
	Platform    Platform `json:"platform"`
	ClerkID     string   `json:"clerk_id"`
	PendingID   string   `json:"pending_id"`
	PostID      string   `json:"post_id"`
	Text        string   `json:"text,omitempty"`
	Title       string   `json:"title,omitempty"`
	PublishedAt int64    `json:"published_at"`
}
