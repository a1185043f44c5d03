package service

import (
	"forumhub/dao"
	"forumhub/internal/auth"
	"forumhub/internal/metrics"
	"forumhub/model"
)

// FollowService flips the follow edge between two users. Each call changes
// state exactly once; two calls in a row cancel out.
type FollowService struct {
	users   userStore
	follows followRepo
	notify  notifier
}

func NewFollowService(users userStore, follows followRepo, notify notifier) *FollowService {
	return &FollowService{users: users, follows: follows, notify: notify}
}

// Toggle follows target if the actor is not yet following, unfollows
// otherwise. Returns true when the call resulted in a follow.
func (s *FollowService) Toggle(actor auth.Identity, targetID uint64) (bool, error) {
	target, err := s.users.FindByID(targetID)
	if err != nil {
		return false, err
	}

	following, err := s.follows.Exists(actor.UserID, target.ID)
	if err != nil {
		return false, err
	}
	if following {
		if err := s.follows.Remove(actor.UserID, target.ID); err != nil {
			return false, err
		}
		metrics.IncFollowToggle("unfollow")
		return false, nil
	}

	if err := s.follows.Add(actor.UserID, target.ID); err != nil {
		return false, err
	}
	// 通知失败不影响关注本身
	_ = s.notify.NewFollower(actor.UserID, target.ID)
	metrics.IncFollowToggle("follow")
	return true, nil
}

// FollowerNotifier writes "new follower" notifications to the database.
type FollowerNotifier struct {
	notifications *dao.NotificationDAO
}

func NewFollowerNotifier(notifications *dao.NotificationDAO) *FollowerNotifier {
	return &FollowerNotifier{notifications: notifications}
}

func (n *FollowerNotifier) NewFollower(fromID, toID uint64) error {
	return n.notifications.Create(&model.Notification{
		UserID:     toID,
		FromUserID: fromID,
		Type:       "new_follower",
	})
}
