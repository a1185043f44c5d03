package dao

import (
	"forumhub/model"

	"gorm.io/gorm"
)

type ReplyDAO struct {
	db *gorm.DB
}

func NewReplyDAO(db *gorm.DB) *ReplyDAO {
	return &ReplyDAO{db: db}
}

// RecentByUser 按创建时间倒序取某用户的回复
func (dao *ReplyDAO) RecentByUser(userID uint64, limit, offset int) ([]model.Reply, error) {
	var replies []model.Reply
	err := dao.db.Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&replies).Error
	return replies, err
}
