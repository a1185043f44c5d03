package dao

import (
	"forumhub/model"

	"gorm.io/gorm"
)

type NotificationDAO struct {
	db *gorm.DB
}

func NewNotificationDAO(db *gorm.DB) *NotificationDAO {
	return &NotificationDAO{db: db}
}

func (dao *NotificationDAO) Create(n *model.Notification) error {
	return dao.db.Create(n).Error
}

// ListByUser 列出某用户收到的通知
func (dao *NotificationDAO) ListByUser(userID uint64, limit, offset int) ([]model.Notification, error) {
	var list []model.Notification
	err := dao.db.Where("user_id = ?", userID).
		Order("id desc").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}
