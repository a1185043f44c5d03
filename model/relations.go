package model

import "time"

// UserFollow is one edge of the follow graph, kept as an explicit join row
// so the relation can be managed through a plain add/remove/list repository.
type UserFollow struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	FollowerID uint64    `gorm:"not null;uniqueIndex:idx_follower_followed" json:"follower_id"`
	FollowedID uint64    `gorm:"not null;uniqueIndex:idx_follower_followed" json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// TopicFavorite marks a topic as favorited by a user.
type TopicFavorite struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_user_topic" json:"user_id"`
	TopicID   uint64    `gorm:"not null;uniqueIndex:idx_user_topic" json:"topic_id"`
	CreatedAt time.Time `json:"created_at"`
}
