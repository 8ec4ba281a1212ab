package api

import (
	"context"

	"github.com/chikhali-gp/portal/backend/auth"
)

type keyType string

const (
	userKey  keyType = "user"
	tokenKey keyType = "token"
)

// ctxWithUser adds the signed-in user and their session token to the context
func ctxWithUser(ctx context.Context, user *auth.User, token string) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, tokenKey, token)
}

// ctxGetUser retrieves the signed-in user, nil when the request is anonymous
func ctxGetUser(ctx context.Context) *auth.User {
	user, _ := ctx.Value(userKey).(*auth.User)
	return user
}
