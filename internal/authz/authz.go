// Package authz holds the capability checks used by handlers before any
// profile mutation. Checks take the actor identity explicitly; there is no
// ambient current-user lookup.
package authz

import (
	"forumhub/internal/auth"
	"forumhub/model"
)

// CanUpdate reports whether the actor may modify the subject profile.
// 仅允许本人修改自己的资料。
func CanUpdate(actor auth.Identity, subject *model.User) bool {
	return subject != nil && actor.UserID == subject.ID
}

// CanBan reports whether the actor may flip another user's ban flag.
func CanBan(actor *model.User) bool {
	return actor != nil && actor.IsStaff
}
