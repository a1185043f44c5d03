package dao

import (
	"forumhub/model"

	"gorm.io/gorm"
)

type TopicDAO struct {
	db *gorm.DB
}

func NewTopicDAO(db *gorm.DB) *TopicDAO {
	return &TopicDAO{db: db}
}

// FindByID 根据主键查询话题
func (dao *TopicDAO) FindByID(id uint64) (*model.Topic, error) {
	var topic model.Topic
	err := dao.db.First(&topic, id).Error
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

// RecentByUser 按创建时间倒序取某用户的话题
func (dao *TopicDAO) RecentByUser(userID uint64, limit, offset int) ([]model.Topic, error) {
	var topics []model.Topic
	err := dao.db.Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&topics).Error
	return topics, err
}

// FavoritesByUser lists topics the user marked as favorite, newest mark first.
func (dao *TopicDAO) FavoritesByUser(userID uint64, limit, offset int) ([]model.Topic, error) {
	var topics []model.Topic
	err := dao.db.
		Joins("JOIN topic_favorites ON topic_favorites.topic_id = topics.id").
		Where("topic_favorites.user_id = ?", userID).
		Order("topic_favorites.id desc").
		Limit(limit).Offset(offset).
		Find(&topics).Error
	return topics, err
}
