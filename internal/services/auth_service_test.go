package services

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	apperrors "github.com/taskhive/taskhive/internal/errors"
	"github.com/taskhive/taskhive/internal/models"
)

// memKV mirrors the key-value collaborator for auth tests.
type memKV struct {
	data map[string]string
}

func newMemKV() *memKV {
	return &memKV{data: map[string]string{}}
}

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.data[key] = value
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func TestSignUpAndSignIn(t *testing.T) {
	auth := NewAuthService(newMemKV())
	ctx := context.Background()

	user, err := auth.SignUp(ctx, "Anna@Example.com", "anna", "")
	if err != nil {
		t.Fatalf("sign up failed: %v", err)
	}
	if user.Email != "anna@example.com" {
		t.Errorf("emails are stored lowercased, got %q", user.Email)
	}

	signedIn, err := auth.SignIn(ctx, "anna@example.com")
	if err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	if signedIn.ID != user.ID {
		t.Errorf("signed in as %s, expected %s", signedIn.ID, user.ID)
	}

	current := auth.CurrentUser()
	if current == nil || current.ID != user.ID {
		t.Errorf("current user not tracked after sign in")
	}
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	auth := NewAuthService(newMemKV())
	ctx := context.Background()

	if _, err := auth.SignUp(ctx, "a@example.com", "first", ""); err != nil {
		t.Fatalf("sign up failed: %v", err)
	}

	_, err := auth.SignUp(ctx, "a@example.com", "second", "")
	if !errors.Is(err, apperrors.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestSessionChangeNotifications(t *testing.T) {
	auth := NewAuthService(newMemKV())
	ctx := context.Background()

	var events []*models.User
	unsubscribe := auth.OnSessionChange(func(u *models.User) {
		events = append(events, u)
	})

	user, err := auth.SignUp(ctx, "a@example.com", "a", "")
	if err != nil {
		t.Fatalf("sign up failed: %v", err)
	}
	if _, err := auth.SignIn(ctx, user.Email); err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	auth.SignOut()

	if len(events) != 2 {
		t.Fatalf("expected 2 session events, got %d", len(events))
	}
	if events[0] == nil || events[0].ID != user.ID {
		t.Errorf("first event should carry the signed-in user")
	}
	if events[1] != nil {
		t.Errorf("sign out event should carry nil")
	}

	unsubscribe()
	if _, err := auth.SignIn(ctx, user.Email); err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("unsubscribed listener must not fire, got %d events", len(events))
	}
}

func TestMalformedUsersBlobIsLoggedBeforeDiscard(t *testing.T) {
	store := newMemKV()
	store.data["users"] = "{not json"
	auth := NewAuthService(store)
	ctx := context.Background()

	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(prev)

	if _, err := auth.SignIn(ctx, "a@example.com"); !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Fatalf("malformed blob should read as empty, got %v", err)
	}
	if !strings.Contains(buf.String(), "malformed users blob") {
		t.Errorf("discarding a malformed users blob must be logged, got %q", buf.String())
	}
}

func TestDeleteUserEndsActiveSession(t *testing.T) {
	auth := NewAuthService(newMemKV())
	ctx := context.Background()

	user, err := auth.SignUp(ctx, "a@example.com", "a", "")
	if err != nil {
		t.Fatalf("sign up failed: %v", err)
	}
	if _, err := auth.SignIn(ctx, user.Email); err != nil {
		t.Fatalf("sign in failed: %v", err)
	}

	if err := auth.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if auth.CurrentUser() != nil {
		t.Errorf("deleting the signed-in user must end the session")
	}

	if _, err := auth.SignIn(ctx, user.Email); !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound after deletion, got %v", err)
	}
}
