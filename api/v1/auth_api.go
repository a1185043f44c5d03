package v1

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"forumhub/api/v1/request"
	"forumhub/config"
	"forumhub/internal/auth"
	"forumhub/internal/metrics"
	"forumhub/model"
	"forumhub/service"
)

// AuthAPI exposes HTTP handlers for registration/login/logout flows.
type AuthAPI struct {
	service *service.UserService
}

// NewAuthAPI wires the service layer into the HTTP handlers.
func NewAuthAPI(s *service.UserService) *AuthAPI {
	return &AuthAPI{service: s}
}

// Register handles new account creation.
func (a *AuthAPI) Register(c *gin.Context) {
	var req request.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := a.service.Register(&model.User{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "register success"})
}

// Login validates user credentials and returns a new token pair.
func (a *AuthAPI) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.IncLogin("bad_request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	device := c.GetHeader("X-Device")
	access, refresh, err := a.service.Login(req.Username, req.Password, device)
	if err != nil {
		metrics.IncLogin("unauthorized")
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	metrics.IncLogin("success")
	c.JSON(http.StatusOK, gin.H{
		"access_token":  access,
		"refresh_token": refresh,
	})
}

// RefreshToken 验证 refresh token，执行 rotation 并返回新的 token 对。
func (a *AuthAPI) RefreshToken(c *gin.Context) {
	var req request.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	device := c.GetHeader("X-Device")
	access, refresh, err := a.service.RotateRefreshToken(req.RefreshToken, device)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token":  access,
		"refresh_token": refresh,
	})
}

// Logout blacklists the access token the auth middleware already validated
// and drops the stored session. A refresh token presented in the body is
// revoked alongside, provided it belongs to the same user, so the whole
// pair dies in one call.
func (a *AuthAPI) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing token"})
		return
	}
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := auth.ParseToken(tokenStr)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	if err := a.service.Session.AddBlackList(tokenStr,
		time.Duration(config.GlobalConfig.JWT.AccessExpire)*time.Second); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "blacklist failed"})
		return
	}
	_ = a.service.Session.DeleteRefreshToken(claims.UserID, claims.Device)

	var req request.LogoutRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.RefreshToken != "" {
		if revocableRefreshToken(claims.UserID, req.RefreshToken) {
			_ = a.service.Session.AddBlackList(req.RefreshToken,
				time.Duration(config.GlobalConfig.JWT.RefreshExpire)*time.Second)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "logout success"})
}

// revocableRefreshToken reports whether the presented refresh token may be
// revoked by the given user: the signature must verify and the token must
// belong to that user. Expiry is ignored since an expired token is still
// worth blacklisting.
func revocableRefreshToken(actorID uint64, refreshToken string) bool {
	claims, err := auth.ParseTokenAllowExpired(refreshToken)
	if err != nil {
		return false
	}
	return claims.UserID == actorID
}
