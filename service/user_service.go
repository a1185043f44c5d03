package service

import (
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"forumhub/config"
	"forumhub/dao"
	"forumhub/internal/auth"
	"forumhub/internal/authz"
	"forumhub/model"
	"forumhub/utils"
)

// UserService bundles the DAOs, session storage and authentication helpers.
type UserService struct {
	dao     *dao.UserDAO
	tokens  *dao.AccessTokenDAO
	Session *auth.SessionManager
}

// NewUserService 创建一个新的 UserService 实例
func NewUserService(userDAO *dao.UserDAO, tokenDAO *dao.AccessTokenDAO, session *auth.SessionManager) *UserService {
	return &UserService{
		dao:     userDAO,
		tokens:  tokenDAO,
		Session: session,
	}
}

// Register persists a freshly created user after hashing the password.
func (s *UserService) Register(user *model.User) error {
	hashed, err := utils.HashPassword(user.Password)
	if err != nil {
		return err
	}
	user.PasswordHash = hashed
	if err := s.dao.CreateUser(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserExists
		}
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return ErrUserExists
		}
		return err
	}
	return nil
}

// Login handles username/password authentication and issues a token pair.
// Each successful login is also recorded as an AccessToken row so the user
// can review and revoke it later.
func (s *UserService) Login(username, password, device string) (string, string, error) {
	user, err := s.dao.GetByUsername(username)
	if err != nil || user.ID == 0 {
		return "", "", errors.New("invalid username or password")
	}
	if user.Banned() {
		return "", "", errors.New("account is banned")
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return "", "", errors.New("invalid username or password")
	}

	accessToken, refreshToken, err := auth.GenerateTokens(user.ID, device)
	if err != nil {
		return "", "", err
	}

	ttl := time.Duration(config.GlobalConfig.JWT.RefreshExpire) * time.Second
	if err := s.Session.SaveRefreshToken(user.ID, device, refreshToken, ttl); err != nil {
		return "", "", err
	}

	// 登录记录，供 access_tokens 列表与撤销使用
	_ = s.tokens.Create(&model.AccessToken{
		UserID: user.ID,
		Token:  accessToken,
		Device: device,
	})

	return accessToken, refreshToken, nil
}

// RotateRefreshToken validates the refresh token, blacklists the old one and
// issues a fresh pair.
func (s *UserService) RotateRefreshToken(refreshToken, headerDevice string) (string, string, error) {
	if refreshToken == "" {
		return "", "", errors.New("missing refresh token")
	}

	claims, err := auth.ParseToken(refreshToken)
	if err != nil {
		return "", "", errors.New("refresh token invalid")
	}
	if headerDevice != "" && headerDevice != claims.Device {
		return "", "", errors.New("device mismatch")
	}

	stored, err := s.Session.GetRefreshToken(claims.UserID, claims.Device)
	if err != nil || stored != refreshToken {
		return "", "", errors.New("refresh token expired or rotated")
	}

	accessToken, newRefresh, err := auth.GenerateTokens(claims.UserID, claims.Device)
	if err != nil {
		return "", "", err
	}

	ttl := time.Duration(config.GlobalConfig.JWT.RefreshExpire) * time.Second
	if err := s.Session.SaveRefreshToken(claims.UserID, claims.Device, newRefresh, ttl); err != nil {
		return "", "", err
	}
	_ = s.Session.AddBlackList(refreshToken, ttl)

	return accessToken, newRefresh, nil
}

// FindByID exposes the lookup used by handlers.
func (s *UserService) FindByID(id uint64) (*model.User, error) {
	return s.dao.FindByID(id)
}

// Recent returns the newest users for the index page.
func (s *UserService) Recent(limit int) ([]model.User, error) {
	return s.dao.Recent(limit)
}

// UpdateProfile applies the editable attribute set to the user's own record.
func (s *UserService) UpdateProfile(actor auth.Identity, userID uint64, fields map[string]interface{}) (*model.User, error) {
	user, err := s.dao.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if !authz.CanUpdate(actor, user) {
		return nil, ErrUnauthorized
	}
	if err := s.dao.UpdateFields(userID, fields); err != nil {
		return nil, err
	}
	return s.dao.FindByID(userID)
}

// ToggleBan flips the two-valued ban flag on the target user. Staff only.
func (s *UserService) ToggleBan(actor auth.Identity, targetID uint64) (*model.User, error) {
	actorUser, err := s.dao.FindByID(actor.UserID)
	if err != nil {
		return nil, err
	}
	if !authz.CanBan(actorUser) {
		return nil, ErrUnauthorized
	}
	target, err := s.dao.FindByID(targetID)
	if err != nil {
		return nil, err
	}
	if target.IsBanned == "yes" {
		target.IsBanned = "no"
	} else {
		target.IsBanned = "yes"
	}
	if err := s.dao.Save(target); err != nil {
		return nil, err
	}
	return target, nil
}

// RegenerateLoginToken replaces the caller's opaque login token.
func (s *UserService) RegenerateLoginToken(actor auth.Identity) (*model.User, error) {
	user, err := s.dao.FindByID(actor.UserID)
	if err != nil {
		return nil, err
	}
	user.LoginToken = uuid.NewString()
	if err := s.dao.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

// AccessTokens lists the caller's recorded credentials. Only the owner may
// see their own list.
func (s *UserService) AccessTokens(actor auth.Identity, userID uint64) ([]model.AccessToken, error) {
	if actor.UserID != userID {
		return nil, ErrUnauthorized
	}
	return s.tokens.ListByUser(userID)
}

// RevokeAccessToken deletes a recorded credential and blacklists the token
// string so in-flight requests with it are rejected.
func (s *UserService) RevokeAccessToken(actor auth.Identity, tokenID uint64) error {
	token, err := s.tokens.FindByID(tokenID)
	if err != nil {
		return err
	}
	if token.UserID != actor.UserID {
		return ErrUnauthorized
	}
	if err := s.tokens.Delete(token.ID); err != nil {
		return err
	}
	ttl := time.Duration(config.GlobalConfig.JWT.AccessExpire) * time.Second
	return s.Session.AddBlackList(token.Token, ttl)
}
