package auth

import (
	"context"

	apperrors "activity-tracker.com/activity-tracker/internal/errors"
	model "activity-tracker.com/activity-tracker/pkg/models"
)

// Identity answers who is acting and what they may do.
type Identity interface {
	CurrentUser() *model.User

	HasPermission(permission string) bool
}

type UserIdentity struct {
	user *model.User
}

func NewUserIdentity(user *model.User) UserIdentity {
	return UserIdentity{user: user}
}

func (i UserIdentity) CurrentUser() *model.User {
	return i.user
}

func (i UserIdentity) HasPermission(permission string) bool {
	return i.user != nil && i.user.HasPermission(permission)
}

// Resolve looks userID up in the user directory. Unknown or empty ids yield
// an anonymous identity.
func Resolve(users []model.User, userID string) Identity {
	if userID == "" {
		return UserIdentity{}
	}
	u, ok := model.FindUser(users, userID)
	if !ok {
		return UserIdentity{}
	}
	return NewUserIdentity(&u)
}

// Require fails with ErrUnauthenticated when nobody is acting and with
// ErrForbidden when the actor lacks permission.
func Require(id Identity, permission string) error {
	if id == nil || id.CurrentUser() == nil {
		return apperrors.ErrUnauthenticated
	}
	if !id.HasPermission(permission) {
		return apperrors.MissingPermission(permission)
	}
	return nil
}

type contextKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func FromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(contextKey{}).(Identity); ok && id != nil {
		return id
	}
	return UserIdentity{}
}
