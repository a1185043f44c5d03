package model

import (
	"crypto/md5"
	"fmt"
	"strings"
	"time"
)

// User 用户模型
type User struct {
	ID              uint64    `gorm:"primarykey" json:"id"`
	Username        string    `gorm:"unique;not null;size:50" json:"username"`
	Email           string    `gorm:"unique;not null;size:100" json:"email"`
	Password        string    `gorm:"-" json:"-"`
	PasswordHash    string    `gorm:"not null;size:255" json:"-"` // 忽略JSON序列化
	GithubName      string    `gorm:"size:100" json:"github_name"`
	RealName        string    `gorm:"size:100" json:"real_name"`
	City            string    `gorm:"size:100" json:"city"`
	Company         string    `gorm:"size:100" json:"company"`
	TwitterAccount  string    `gorm:"size:100" json:"twitter_account"`
	PersonalWebsite string    `gorm:"size:255" json:"personal_website"`
	Introduction    string    `gorm:"type:text" json:"introduction"`
	WeiboName       string    `gorm:"size:100" json:"weibo_name"`
	WeiboID         string    `gorm:"size:100" json:"weibo_id"`
	Avatar          string    `gorm:"size:255" json:"avatar"`
	ImageURL        string    `gorm:"size:255" json:"-"` // 外部头像源，refresh_cache 时回填
	LoginToken      string    `gorm:"size:64" json:"-"`
	IsBanned        string    `gorm:"size:3;default:no" json:"is_banned"` // yes / no
	IsStaff         bool      `gorm:"default:false" json:"is_staff"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// AvatarLink resolves the presentation URL for the user's avatar. A stored
// upload wins; otherwise fall back to a gravatar computed from the email,
// so the link is never empty.
func (u *User) AvatarLink(publicDir string) string {
	if u.Avatar != "" {
		if strings.HasPrefix(u.Avatar, "http://") || strings.HasPrefix(u.Avatar, "https://") {
			return u.Avatar
		}
		return strings.TrimRight(publicDir, "/") + "/" + u.Avatar
	}
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(u.Email))))
	return fmt.Sprintf("https://gravatar.com/avatar/%x?s=380&d=retro", sum)
}

// Banned reports the two-valued ban flag as a bool.
func (u *User) Banned() bool {
	return u.IsBanned == "yes"
}
