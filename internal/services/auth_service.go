package services

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/taskhive/taskhive/internal/errors"
	"github.com/taskhive/taskhive/internal/kv"
	"github.com/taskhive/taskhive/internal/models"
)

const usersBlobKey = "users"

// SessionListener is notified when the active session changes: the new
// user on sign-in, nil on sign-out.
type SessionListener func(user *models.User)

// AuthService keeps the registered users as one blob in the key-value
// store and tracks the single active session per process. Session
// changes fan out to subscribed listeners.
type AuthService struct {
	store kv.Store

	mu      sync.RWMutex
	current *models.User
	subs    map[int]SessionListener
	nextSub int
}

func NewAuthService(store kv.Store) *AuthService {
	return &AuthService{
		store: store,
		subs:  map[int]SessionListener{},
	}
}

// SignUp registers a new user. Emails are unique across the store.
func (a *AuthService) SignUp(ctx context.Context, email, username, avatar string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return models.User{}, apperrors.NewValidation("email must not be empty")
	}
	if strings.TrimSpace(username) == "" {
		return models.User{}, apperrors.NewValidation("username must not be empty")
	}

	users, err := a.loadUsers(ctx)
	if err != nil {
		return models.User{}, err
	}
	for _, u := range users {
		if u.Email == email {
			return models.User{}, apperrors.ErrEmailTaken
		}
	}

	user := models.User{
		ID:       uuid.NewString(),
		Email:    email,
		Username: strings.TrimSpace(username),
		Avatar:   avatar,
	}
	users = append(users, user)

	if err := a.saveUsers(ctx, users); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// SignIn makes the user with the given email the active session and
// notifies session listeners.
func (a *AuthService) SignIn(ctx context.Context, email string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	users, err := a.loadUsers(ctx)
	if err != nil {
		return models.User{}, err
	}
	for _, u := range users {
		if u.Email == email {
			a.setCurrent(&u)
			return u, nil
		}
	}

	return models.User{}, apperrors.ErrUserNotFound
}

// SignOut ends the active session and notifies listeners.
func (a *AuthService) SignOut() {
	a.setCurrent(nil)
}

func (a *AuthService) CurrentUser() *models.User {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.current == nil {
		return nil
	}
	u := *a.current
	return &u
}

// DeleteUser removes a registered user, ending the session if that user
// is signed in. Cascade deletion of the user's tasks is the caller's
// responsibility (SyncService.PurgeUser).
func (a *AuthService) DeleteUser(ctx context.Context, id string) error {
	users, err := a.loadUsers(ctx)
	if err != nil {
		return err
	}

	kept := make([]models.User, 0, len(users))
	found := false
	for _, u := range users {
		if u.ID == id {
			found = true
			continue
		}
		kept = append(kept, u)
	}
	if !found {
		return apperrors.ErrUserNotFound
	}

	if err := a.saveUsers(ctx, kept); err != nil {
		return err
	}

	a.mu.RLock()
	active := a.current != nil && a.current.ID == id
	a.mu.RUnlock()
	if active {
		a.setCurrent(nil)
	}
	return nil
}

// OnSessionChange subscribes to session transitions. The returned
// function unsubscribes.
func (a *AuthService) OnSessionChange(listener SessionListener) (unsubscribe func()) {
	a.mu.Lock()
	id := a.nextSub
	a.nextSub++
	a.subs[id] = listener
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.subs, id)
		a.mu.Unlock()
	}
}

func (a *AuthService) setCurrent(user *models.User) {
	a.mu.Lock()
	a.current = user
	listeners := make([]SessionListener, 0, len(a.subs))
	for _, l := range a.subs {
		listeners = append(listeners, l)
	}
	a.mu.Unlock()

	for _, l := range listeners {
		l(user)
	}
}

func (a *AuthService) loadUsers(ctx context.Context) ([]models.User, error) {
	raw, ok, err := a.store.Get(ctx, usersBlobKey)
	if err != nil {
		return nil, apperrors.NewPersistence("fetch users", err)
	}
	if !ok {
		return []models.User{}, nil
	}

	var users []models.User
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		log.Printf("auth: discarding malformed users blob: %v", err)
		return []models.User{}, nil
	}
	return users, nil
}

func (a *AuthService) saveUsers(ctx context.Context, users []models.User) error {
	b, err := json.Marshal(users)
	if err != nil {
		return apperrors.NewPersistence("encode users", err)
	}
	if err := a.store.Set(ctx, usersBlobKey, string(b)); err != nil {
		return apperrors.NewPersistence("save users", err)
	}
	return nil
}
