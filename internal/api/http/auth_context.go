package httpapi

import (
	"context"

	"github.com/google/uuid"

	"github.com/edgeup/marketplace/internal/domain/user"
)

type authContextKey string

const (
	authUserKey authContextKey = "authUser"
)

// AuthUser represents the authenticated user in context.
type AuthUser struct {
	UserID    uuid.UUID
	Email     string
	Role      user.Role
	SessionID uuid.UUID
}

func (u AuthUser) Actor() user.Actor {
	return user.Actor{UserID: u.UserID, Role: u.Role}
}

func withAuthUser(ctx context.Context, u *AuthUser) context.Context {
	if u == nil {
		return ctx
	}
	return context.WithValue(ctx, authUserKey, u)
}

func authUserFromContext(ctx context.Context) *AuthUser {
	val := ctx.Value(authUserKey)
	if v, ok := val.(*AuthUser); ok {
		return v
	}
	return nil
}

// actorFromContext returns the caller, or the zero Actor for anonymous
// requests on public routes.
func actorFromContext(ctx context.Context) user.Actor {
	if u := authUserFromContext(ctx); u != nil {
		return u.Actor()
	}
	return user.Actor{}
}
