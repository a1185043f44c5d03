package dao

import (
	"forumhub/model"

	"gorm.io/gorm"
)

type UserDAO struct {
	db *gorm.DB
}

// NewUserDAO 创建一个新的 UserDAO 实例
func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{db: db}
}

// CreateUser 创建新用户
func (dao *UserDAO) CreateUser(user *model.User) error {
	return dao.db.Create(user).Error
}

// FindByID 根据主键查询用户
func (dao *UserDAO) FindByID(id uint64) (*model.User, error) {
	var user model.User
	err := dao.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername 根据用户名获取用户
func (dao *UserDAO) GetByUsername(username string) (*model.User, error) {
	var user model.User
	err := dao.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Recent returns the newest users, capped at limit.
func (dao *UserDAO) Recent(limit int) ([]model.User, error) {
	var users []model.User
	err := dao.db.Order("id desc").Limit(limit).Find(&users).Error
	return users, err
}

// UpdateFields applies a partial update of editable profile attributes.
func (dao *UserDAO) UpdateFields(id uint64, fields map[string]interface{}) error {
	return dao.db.Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
}

// Save persists the whole record.
func (dao *UserDAO) Save(user *model.User) error {
	return dao.db.Save(user).Error
}
