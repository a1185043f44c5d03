package model

import "time"

// Reply 回复模型
type Reply struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	TopicID   uint64    `gorm:"not null;index" json:"topic_id"`
	Body      string    `gorm:"type:text" json:"body"`
	CreatedAt time.Time `json:"created_at"`
	Topic     Topic     `gorm:"foreignKey:TopicID" json:"topic,omitempty"`
}
