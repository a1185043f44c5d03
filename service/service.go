package service

import (
	"errors"

	"forumhub/internal/github"
	"forumhub/model"
)

// Sentinel errors shared by the user-facing services. Handlers map these to
// HTTP statuses and flash messages.
var (
	ErrUserExists   = errors.New("user already exists")
	ErrUnauthorized = errors.New("not allowed to modify this user")
	ErrNoFile       = errors.New("no avatar file provided")
	ErrBadExtension = errors.New("you may only upload png, jpg or gif")
	ErrAvatarIO     = errors.New("avatar file operation failed")
)

// userStore is the slice of UserDAO the profile services need. Tests swap in
// an in-memory implementation.
type userStore interface {
	FindByID(id uint64) (*model.User, error)
	Save(user *model.User) error
}

// topicStore is the slice of TopicDAO the favorite service needs.
type topicStore interface {
	FindByID(id uint64) (*model.Topic, error)
}

// followRepo is the explicit join-row repository over the follow graph.
type followRepo interface {
	Add(followerID, followedID uint64) error
	Remove(followerID, followedID uint64) error
	Exists(followerID, followedID uint64) (bool, error)
}

// favoriteRepo is the explicit join-row repository over topic favorites.
type favoriteRepo interface {
	Add(userID, topicID uint64) error
	Remove(userID, topicID uint64) error
	Exists(userID, topicID uint64) (bool, error)
}

// notifier delivers in-app notifications to users.
type notifier interface {
	NewFollower(fromID, toID uint64) error
}

// githubReader fetches external user data and raw image bytes.
type githubReader interface {
	UserData(username string) (*github.UserData, error)
	FetchBytes(url string) ([]byte, error)
}
