package v1

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"forumhub/api/v1/request"
	"forumhub/config"
	"forumhub/dao"
	"forumhub/internal/authz"
	"forumhub/internal/flash"
	"forumhub/internal/metrics"
	"forumhub/middleware"
	"forumhub/model"
	"forumhub/service"
)

const pageSize = 15

// UserAPI 聚合了用户资料、头像、关注与缓存代理相关的 HTTP Handler。
type UserAPI struct {
	users     *service.UserService
	avatars   *service.AvatarService
	github    *service.GithubService
	follows   *service.FollowService
	favorites *service.FavoriteService

	topicDAO  *dao.TopicDAO
	replyDAO  *dao.ReplyDAO
	followDAO *dao.FollowDAO
}

func NewUserAPI(
	users *service.UserService,
	avatars *service.AvatarService,
	github *service.GithubService,
	follows *service.FollowService,
	favorites *service.FavoriteService,
	topicDAO *dao.TopicDAO,
	replyDAO *dao.ReplyDAO,
	followDAO *dao.FollowDAO,
) *UserAPI {
	return &UserAPI{
		users:     users,
		avatars:   avatars,
		github:    github,
		follows:   follows,
		favorites: favorites,
		topicDAO:  topicDAO,
		replyDAO:  replyDAO,
		followDAO: followDAO,
	}
}

// Index lists the 48 most recent users.
func (u *UserAPI) Index(c *gin.Context) {
	users, err := u.users.Recent(48)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, flash.Attach(c, gin.H{"users": withAvatarLinks(users)}))
}

// Show returns one profile with its latest topics and replies.
func (u *UserAPI) Show(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user, err := u.users.FindByID(id)
	if err != nil {
		notFoundOr500(c, err)
		return
	}
	topics, err := u.topicDAO.RecentByUser(id, 10, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	replies, err := u.replyDAO.RecentByUser(id, 10, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, flash.Attach(c, gin.H{
		"user":        user,
		"avatar_link": user.AvatarLink(config.GlobalConfig.Avatar.PublicDir),
		"topics":      topics,
		"replies":     replies,
	}))
}

// Edit returns the caller's editable profile attributes.
func (u *UserAPI) Edit(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	actor, _ := middleware.IdentityFrom(c)
	user, err := u.users.FindByID(id)
	if err != nil {
		notFoundOr500(c, err)
		return
	}
	if !authz.CanUpdate(actor, user) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, flash.Attach(c, gin.H{
		"user":        user,
		"avatar_link": user.AvatarLink(config.GlobalConfig.Avatar.PublicDir),
	}))
}

// Update applies the editable attribute set and redirects back to the edit
// page with a flash message, mirroring the classic form flow.
func (u *UserAPI) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req request.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actor, _ := middleware.IdentityFrom(c)
	if _, err := u.users.UpdateProfile(actor, id, req.Fields()); err != nil {
		u.fail(c, err, fmt.Sprintf("/api/v1/users/%d", id))
		return
	}
	flash.Success(c, "Operation succeeded.")
	c.Redirect(http.StatusFound, fmt.Sprintf("/api/v1/users/%d/edit", id))
}

// EditAvatar returns the current avatar state for the edit form.
func (u *UserAPI) EditAvatar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	actor, _ := middleware.IdentityFrom(c)
	user, err := u.users.FindByID(id)
	if err != nil {
		notFoundOr500(c, err)
		return
	}
	if !authz.CanUpdate(actor, user) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, flash.Attach(c, gin.H{
		"avatar":      user.Avatar,
		"avatar_link": user.AvatarLink(config.GlobalConfig.Avatar.PublicDir),
	}))
}

// UpdateAvatar accepts a multipart upload on field "avatar", stores and
// resizes it, and redirects back to the avatar edit page.
func (u *UserAPI) UpdateAvatar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	actor, _ := middleware.IdentityFrom(c)

	upload, err := readUpload(c, "avatar")
	if err != nil {
		// Absent file is a normal failure path, not an exception.
		metrics.IncAvatarUpload("no_file")
		flash.Error(c, "Update Avatar Failed")
		c.Redirect(http.StatusFound, fmt.Sprintf("/api/v1/users/%d/avatar/edit", id))
		return
	}

	_, err = u.avatars.UpdateAvatar(actor, id, upload)
	switch {
	case err == nil:
		metrics.IncAvatarUpload("success")
		flash.Success(c, "Update Avatar Success")
		c.Redirect(http.StatusFound, fmt.Sprintf("/api/v1/users/%d/avatar/edit", id))
	case errors.Is(err, service.ErrBadExtension):
		// Disallowed extensions return the error inline; nothing was written.
		metrics.IncAvatarUpload("bad_extension")
		c.JSON(http.StatusBadRequest, gin.H{"error": "You may only upload png, jpg or gif."})
	case errors.Is(err, service.ErrUnauthorized):
		metrics.IncAvatarUpload("unauthorized")
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		metrics.IncAvatarUpload("not_found")
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	default:
		metrics.IncAvatarUpload("io_error")
		flash.Error(c, "Update Avatar Failed")
		c.Redirect(http.StatusFound, fmt.Sprintf("/api/v1/users/%d/avatar/edit", id))
	}
}

// Follow toggles the follow edge from the caller to :id.
func (u *UserAPI) Follow(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	actor, _ := middleware.IdentityFrom(c)
	if _, err := u.follows.Toggle(actor, id); err != nil {
		u.fail(c, err, fmt.Sprintf("/api/v1/users/%d", id))
		return
	}
	flash.Success(c, "Operation succeeded.")
	c.Redirect(http.StatusFound, fmt.Sprintf("/api/v1/users/%d", id))
}

// FavoriteTopic toggles the caller's favorite mark on topic :id.
func (u *UserAPI) FavoriteTopic(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	actor, _ := middleware.IdentityFrom(c)
	if _, err := u.favorites.Toggle(actor, id); err != nil {
		u.fail(c, err, fmt.Sprintf("/api/v1/users/%d/favorites", actor.UserID))
		return
	}
	flash.Success(c, "Operation succeeded.")
	c.Redirect(http.StatusFound, fmt.Sprintf("/api/v1/users/%d/favorites", actor.UserID))
}

// Topics lists a user's topics, 15 per page.
func (u *UserAPI) Topics(c *gin.Context) {
	u.pagedList(c, func(id uint64, limit, offset int) (interface{}, error) {
		return u.topicDAO.RecentByUser(id, limit, offset)
	}, "topics")
}

// Replies lists a user's replies, 15 per page.
func (u *UserAPI) Replies(c *gin.Context) {
	u.pagedList(c, func(id uint64, limit, offset int) (interface{}, error) {
		return u.replyDAO.RecentByUser(id, limit, offset)
	}, "replies")
}

// Favorites lists the topics a user favorited, 15 per page.
func (u *UserAPI) Favorites(c *gin.Context) {
	u.pagedList(c, func(id uint64, limit, offset int) (interface{}, error) {
		return u.topicDAO.FavoritesByUser(id, limit, offset)
	}, "topics")
}

// Following lists who a user follows, 15 per page.
func (u *UserAPI) Following(c *gin.Context) {
	u.pagedList(c, func(id uint64, limit, offset int) (interface{}, error) {
		users, err := u.followDAO.Following(id, limit, offset)
		if err != nil {
			return nil, err
		}
		return withAvatarLinks(users), nil
	}, "users")
}

// AccessTokens lists the caller's recorded credentials. Requests for other
// users' lists bounce back to the profile page, as the original flow did.
func (u *UserAPI) AccessTokens(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	actor, _ := middleware.IdentityFrom(c)
	tokens, err := u.users.AccessTokens(actor, id)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			c.Redirect(http.StatusFound, fmt.Sprintf("/api/v1/users/%d", id))
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, flash.Attach(c, gin.H{"tokens": tokens}))
}

// RevokeAccessToken deletes one credential and blacklists its token string.
func (u *UserAPI) RevokeAccessToken(c *gin.Context) {
	tokenID, ok := paramID(c, "token")
	if !ok {
		return
	}
	actor, _ := middleware.IdentityFrom(c)
	if err := u.users.RevokeAccessToken(actor, tokenID); err != nil {
		flash.Error(c, "Revoke Failed")
	} else {
		flash.Success(c, "Revoke success")
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/api/v1/users/%d/access_tokens", actor.UserID))
}

// Blocking flips the target's ban flag. Staff only.
func (u *UserAPI) Blocking(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	actor, _ := middleware.IdentityFrom(c)
	if _, err := u.users.ToggleBan(actor, id); err != nil {
		u.fail(c, err, fmt.Sprintf("/api/v1/users/%d", id))
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/api/v1/users/%d", id))
}

// RefreshCache force-refreshes the github proxy entry and pulls the fresh
// avatar for the user.
func (u *UserAPI) RefreshCache(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	actor, _ := middleware.IdentityFrom(c)
	if err := u.github.RefreshCache(actor, id); err != nil {
		u.fail(c, err, fmt.Sprintf("/api/v1/users/%d/edit", id))
		return
	}
	flash.Info(c, "Refresh cache success")
	c.Redirect(http.StatusFound, fmt.Sprintf("/api/v1/users/%d/edit", id))
}

// RegenerateLoginToken replaces the caller's opaque login token.
func (u *UserAPI) RegenerateLoginToken(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		flash.Error(c, "Regenerate failed.")
		c.Redirect(http.StatusFound, "/api/v1/users")
		return
	}
	if _, err := u.users.RegenerateLoginToken(actor); err != nil {
		flash.Error(c, "Regenerate failed.")
	} else {
		flash.Success(c, "Regenerate succeeded.")
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/api/v1/users/%d", actor.UserID))
}

// GithubProxy serves the cached external user-data blob.
func (u *UserAPI) GithubProxy(c *gin.Context) {
	username := c.Param("username")
	blob, err := u.github.UserData(username)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "user data unavailable"})
		return
	}
	c.Data(http.StatusOK, "application/json", blob)
}

// ---- helpers ----

// fail maps service errors to the flash + redirect flow used by the form
// endpoints; lookups that missed become plain 404s.
func (u *UserAPI) fail(c *gin.Context, err error, backTo string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	default:
		flash.Error(c, "Operation failed.")
		c.Redirect(http.StatusFound, backTo)
	}
}

func (u *UserAPI) pagedList(c *gin.Context, load func(id uint64, limit, offset int) (interface{}, error), key string) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	items, err := load(id, pageSize, (page-1)*pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{key: items, "page": page, "page_size": pageSize})
}

func paramID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func notFoundOr500(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func readUpload(c *gin.Context, field string) (*service.Upload, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, err
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &service.Upload{Name: fileHeader.Filename, Data: data}, nil
}

func withAvatarLinks(users []model.User) []gin.H {
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, gin.H{
			"user":        u,
			"avatar_link": u.AvatarLink(config.GlobalConfig.Avatar.PublicDir),
		})
	}
	return out
}
