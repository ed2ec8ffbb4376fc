package user

import (
	"context"

	log "github.com/sirupsen/logrus"
)

type contextKey string

const UserKey contextKey = "user"

// CurrentId retrieves the authenticated user's id from the context. Returns ErrUserNotFound if no user is present.
func CurrentId(ctx context.Context) (int, error) {
	current, err := CurrentUser(ctx)
	if err != nil {
		return 0, err
	}
	return current.Id, nil
}

func CurrentUser(ctx context.Context) (User, error) {
	current, ok := ctx.Value(UserKey).(User)
	if !ok {
		log.Trace("user not found in context")
		return User{}, ErrUserNotFound
	}
	return current, nil
}

func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}
