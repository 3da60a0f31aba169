package cont

import (
	"SaborBot/entity"
	"context"
)

type contextKey string

const userKey contextKey = "auth-user"

// PutUser stores the authenticated dashboard user in the request context.
func PutUser(ctx context.Context, user *entity.UserAuth) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUser retrieves the authenticated dashboard user, if any.
func GetUser(ctx context.Context) *entity.UserAuth {
	if user, ok := ctx.Value(userKey).(*entity.UserAuth); ok {
		return user
	}
	return nil
}
