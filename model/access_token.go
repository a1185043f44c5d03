package model

import "time"

// AccessToken records one issued credential so users can review and revoke
// their active sessions. The raw token string is kept so revocation can
// also blacklist it.
type AccessToken struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	Token     string    `gorm:"not null;size:512" json:"-"`
	Device    string    `gorm:"size:100" json:"device"`
	CreatedAt time.Time `json:"created_at"`
}
