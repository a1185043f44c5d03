package dao

import (
	"forumhub/model"

	"gorm.io/gorm"
)

// FavoriteDAO manages topic favorites as an explicit join-row repository.
type FavoriteDAO struct {
	db *gorm.DB
}

func NewFavoriteDAO(db *gorm.DB) *FavoriteDAO {
	return &FavoriteDAO{db: db}
}

func (dao *FavoriteDAO) Add(userID, topicID uint64) error {
	return dao.db.Create(&model.TopicFavorite{UserID: userID, TopicID: topicID}).Error
}

func (dao *FavoriteDAO) Remove(userID, topicID uint64) error {
	return dao.db.
		Where("user_id = ? AND topic_id = ?", userID, topicID).
		Delete(&model.TopicFavorite{}).Error
}

func (dao *FavoriteDAO) Exists(userID, topicID uint64) (bool, error) {
	var count int64
	err := dao.db.Model(&model.TopicFavorite{}).
		Where("user_id = ? AND topic_id = ?", userID, topicID).
		Count(&count).Error
	return count > 0, err
}
