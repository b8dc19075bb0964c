package authz

import (
	"context"
	"errors"
)

var ErrUnauthenticated = errors.New("unauthenticated")

// AuthUser is the console operator bound to the current request.
type AuthUser struct {
	ID        string
	Name      string
	Username  string
	SessionID string

	// expire ends the session after the upstream API rejected its token.
	expire func()
}

type userContextKey struct{}

// NewAuthUser builds the request user. expire may be nil.
func NewAuthUser(id, name, username, sessionID string, expire func()) *AuthUser {
	return &AuthUser{ID: id, Name: name, Username: username, SessionID: sessionID, expire: expire}
}

func ContextWithUser(ctx context.Context, user *AuthUser) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

func UserFromContext(ctx context.Context) *AuthUser {
	if ctx == nil {
		return nil
	}
	user, ok := ctx.Value(userContextKey{}).(*AuthUser)
	if !ok {
		return nil
	}
	return user
}

// SessionID returns the session of the request user, or "" when anonymous.
func SessionID(ctx context.Context) string {
	if user := UserFromContext(ctx); user != nil {
		return user.SessionID
	}
	return ""
}

func RequireUser(ctx context.Context) (*AuthUser, error) {
	user := UserFromContext(ctx)
	if user == nil || user.SessionID == "" {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// Expire ends the session of the request user, if any.
func Expire(ctx context.Context) {
	if user := UserFromContext(ctx); user != nil && user.expire != nil {
		user.expire()
	}
}

// DisplayName is the name shown in the console header.
func (u *AuthUser) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}
