package model

import "time"

// Topic 话题模型
type Topic struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	UserID       uint64    `gorm:"not null;index" json:"user_id"`
	Title        string    `gorm:"not null;size:200" json:"title"`
	Body         string    `gorm:"type:text" json:"body"`
	RepliesCount int       `gorm:"default:0" json:"replies_count"`
	VoteCount    int       `gorm:"default:0" json:"vote_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	User         User      `gorm:"foreignKey:UserID" json:"user,omitempty"` // 关联用户
}
