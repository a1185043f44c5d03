package dao

import (
	"forumhub/model"

	"gorm.io/gorm"
)

type AccessTokenDAO struct {
	db *gorm.DB
}

func NewAccessTokenDAO(db *gorm.DB) *AccessTokenDAO {
	return &AccessTokenDAO{db: db}
}

// Create records an issued token so it shows up in the user's session list.
func (dao *AccessTokenDAO) Create(token *model.AccessToken) error {
	return dao.db.Create(token).Error
}

// ListByUser 列出某用户的全部有效令牌
func (dao *AccessTokenDAO) ListByUser(userID uint64) ([]model.AccessToken, error) {
	var tokens []model.AccessToken
	err := dao.db.Where("user_id = ?", userID).Order("id desc").Find(&tokens).Error
	return tokens, err
}

// FindByID 根据主键查询令牌
func (dao *AccessTokenDAO) FindByID(id uint64) (*model.AccessToken, error) {
	var token model.AccessToken
	err := dao.db.First(&token, id).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// Delete removes a token record.
func (dao *AccessTokenDAO) Delete(id uint64) error {
	return dao.db.Delete(&model.AccessToken{}, id).Error
}
