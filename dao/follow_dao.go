package dao

import (
	"forumhub/model"

	"gorm.io/gorm"
)

// FollowDAO manages the follow graph as an explicit join-row repository.
type FollowDAO struct {
	db *gorm.DB
}

func NewFollowDAO(db *gorm.DB) *FollowDAO {
	return &FollowDAO{db: db}
}

// Add 关注
func (dao *FollowDAO) Add(followerID, followedID uint64) error {
	return dao.db.Create(&model.UserFollow{FollowerID: followerID, FollowedID: followedID}).Error
}

// Remove 取消关注
func (dao *FollowDAO) Remove(followerID, followedID uint64) error {
	return dao.db.
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&model.UserFollow{}).Error
}

// Exists reports whether follower already follows followed.
func (dao *FollowDAO) Exists(followerID, followedID uint64) (bool, error) {
	var count int64
	err := dao.db.Model(&model.UserFollow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	return count > 0, err
}

// Following lists the users someone follows, newest edge first.
func (dao *FollowDAO) Following(followerID uint64, limit, offset int) ([]model.User, error) {
	var users []model.User
	err := dao.db.
		Joins("JOIN user_follows ON user_follows.followed_id = users.id").
		Where("user_follows.follower_id = ?", followerID).
		Order("user_follows.id desc").
		Limit(limit).Offset(offset).
		Find(&users).Error
	return users, err
}
