package authz

import (
	"context"
	"errors"
	"testing"
)

func TestRequireUserUnauthenticated(t *testing.T) {
	if _, err := RequireUser(context.Background()); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	ctx := ContextWithUser(context.Background(), NewAuthUser("u1", "", "admin", "", nil))
	if _, err := RequireUser(ctx); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("user without session should be unauthenticated, got %v", err)
	}
}

func TestRequireUserAllowed(t *testing.T) {
	ctx := ContextWithUser(context.Background(), NewAuthUser("u1", "Ada", "admin", "s1", nil))
	user, err := RequireUser(ctx)
	if err != nil {
		t.Fatalf("RequireUser: %v", err)
	}
	if user.DisplayName() != "Ada" {
		t.Fatalf("display name = %q", user.DisplayName())
	}
	if SessionID(ctx) != "s1" {
		t.Fatalf("session id = %q", SessionID(ctx))
	}
}

func TestExpireCallsHook(t *testing.T) {
	called := 0
	ctx := ContextWithUser(context.Background(), NewAuthUser("u1", "", "admin", "s1", func() { called++ }))
	Expire(ctx)
	Expire(context.Background())
	if called != 1 {
		t.Fatalf("expire called %d times, want 1", called)
	}
}

func TestDisplayNameFallsBackToUsername(t *testing.T) {
	var nilUser *AuthUser
	if nilUser.DisplayName() != "" {
		t.Fatal("nil user should have an empty display name")
	}
	if got := NewAuthUser("u1", "", "admin", "s1", nil).DisplayName(); got != "admin" {
		t.Fatalf("display name = %q", got)
	}
}
