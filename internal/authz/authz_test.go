package authz

import (
	"testing"

	"forumhub/internal/auth"
	"forumhub/model"
)

func TestCanUpdate(t *testing.T) {
	owner := auth.Identity{UserID: 42}
	other := auth.Identity{UserID: 7}
	subject := &model.User{ID: 42}

	if !CanUpdate(owner, subject) {
		t.Fatal("owner denied")
	}
	if CanUpdate(other, subject) {
		t.Fatal("non-owner allowed")
	}
	if CanUpdate(owner, nil) {
		t.Fatal("nil subject allowed")
	}
}

func TestCanBan(t *testing.T) {
	if !CanBan(&model.User{ID: 1, IsStaff: true}) {
		t.Fatal("staff denied")
	}
	if CanBan(&model.User{ID: 1}) {
		t.Fatal("non-staff allowed")
	}
	if CanBan(nil) {
		t.Fatal("nil actor allowed")
	}
}
