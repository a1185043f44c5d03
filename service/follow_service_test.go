package service

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	"forumhub/internal/auth"
	"forumhub/model"
)

type edge struct{ from, to uint64 }

type fakeFollows struct {
	edges map[edge]bool
}

func newFakeFollows() *fakeFollows {
	return &fakeFollows{edges: make(map[edge]bool)}
}

func (f *fakeFollows) Add(followerID, followedID uint64) error {
	f.edges[edge{followerID, followedID}] = true
	return nil
}

func (f *fakeFollows) Remove(followerID, followedID uint64) error {
	delete(f.edges, edge{followerID, followedID})
	return nil
}

func (f *fakeFollows) Exists(followerID, followedID uint64) (bool, error) {
	return f.edges[edge{followerID, followedID}], nil
}

type recordingNotifier struct {
	delivered []edge
}

func (n *recordingNotifier) NewFollower(fromID, toID uint64) error {
	n.delivered = append(n.delivered, edge{fromID, toID})
	return nil
}

func TestToggleFollowsThenUnfollows(t *testing.T) {
	users := newFakeUsers(&model.User{ID: 1}, &model.User{ID: 2})
	follows := newFakeFollows()
	notify := &recordingNotifier{}
	svc := NewFollowService(users, follows, notify)
	actor := auth.Identity{UserID: 1}

	followed, err := svc.Toggle(actor, 2)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !followed {
		t.Fatal("first toggle should follow")
	}
	if exists, _ := follows.Exists(1, 2); !exists {
		t.Fatal("edge missing after follow")
	}
	if len(notify.delivered) != 1 || notify.delivered[0] != (edge{1, 2}) {
		t.Fatalf("notifications = %v, want one to user 2", notify.delivered)
	}

	// Second toggle returns the actor to the original state.
	followed, err = svc.Toggle(actor, 2)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if followed {
		t.Fatal("second toggle should unfollow")
	}
	if exists, _ := follows.Exists(1, 2); exists {
		t.Fatal("edge still present after unfollow")
	}
	if len(notify.delivered) != 1 {
		t.Fatalf("unfollow must not notify, got %d notifications", len(notify.delivered))
	}
}

func TestToggleUnknownTarget(t *testing.T) {
	svc := NewFollowService(newFakeUsers(), newFakeFollows(), &recordingNotifier{})
	_, err := svc.Toggle(auth.Identity{UserID: 1}, 99)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v, want record not found", err)
	}
}

type failingNotifier struct{}

func (failingNotifier) NewFollower(fromID, toID uint64) error {
	return errors.New("notification sink down")
}

func TestToggleSurvivesNotifierFailure(t *testing.T) {
	users := newFakeUsers(&model.User{ID: 1}, &model.User{ID: 2})
	follows := newFakeFollows()
	svc := NewFollowService(users, follows, failingNotifier{})

	followed, err := svc.Toggle(auth.Identity{UserID: 1}, 2)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !followed {
		t.Fatal("follow should succeed even when the notifier fails")
	}
}
