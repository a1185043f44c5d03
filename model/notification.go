package model

import "time"

// Notification 站内通知
type Notification struct {
	ID         uint64     `gorm:"primarykey" json:"id"`
	UserID     uint64     `gorm:"not null;index" json:"user_id"` // 接收者
	FromUserID uint64     `gorm:"not null" json:"from_user_id"`
	Type       string     `gorm:"not null;size:50" json:"type"` // e.g. new_follower
	ReadAt     *time.Time `json:"read_at"`
	CreatedAt  time.Time  `json:"created_at"`
}
