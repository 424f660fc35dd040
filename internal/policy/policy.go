// Package policy holds the access decisions for every operation exposed by
// the stores. It is pure: no persisted state, no I/O.
package policy

import (
	"errors"

	"inkwell/internal/models"
)

var (
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("authentication required")
)

// Identity is the resolved caller of a request, or nil for anonymous
// visitors. The role is read once from the user record, never re-derived
// from the username.
type Identity struct {
	ID       uint
	Username string
	Role     string
}

// IdentityOf adapts a loaded user record to a caller identity.
func IdentityOf(u *models.User) *Identity {
	if u == nil {
		return nil
	}
	return &Identity{ID: u.ID, Username: u.Username, Role: u.Role}
}

type Action string

const (
	// Public
	ActionListPosts Action = "posts.list"
	ActionReadPost  Action = "posts.read"
	ActionRegister  Action = "auth.register"
	ActionLogin     Action = "auth.login"
	ActionSubscribe Action = "newsletter.subscribe"

	// Authenticated
	ActionLikePost      Action = "posts.like"
	ActionDislikePost   Action = "posts.dislike"
	ActionComment       Action = "comments.create"
	ActionUpdateProfile Action = "profile.update"
	ActionLogout        Action = "session.logout"

	// Admin
	ActionManagePosts Action = "posts.manage"
	ActionCreatePost  Action = "posts.create"
	ActionUpdatePost  Action = "posts.update"
	ActionDeletePost  Action = "posts.delete"
)

// Authorize decides whether the caller may perform the action. Admin-gated
// actions fail with ErrForbidden for any non-admin caller, including
// anonymous ones; actions that merely need a login fail with
// ErrUnauthenticated when no caller is present. Everything else is public.
func Authorize(caller *Identity, action Action) error {
	switch action {
	case ActionManagePosts, ActionCreatePost, ActionUpdatePost, ActionDeletePost:
		if caller == nil || caller.Role != models.RoleAdmin {
			return ErrForbidden
		}
		return nil
	case ActionLikePost, ActionDislikePost, ActionComment, ActionUpdateProfile, ActionLogout:
		if caller == nil {
			return ErrUnauthenticated
		}
		return nil
	default:
		return nil
	}
}
