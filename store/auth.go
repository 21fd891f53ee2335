package store

import (
	"context"
	"errors"
	"sync"

	"github.com/dooddles07/cyaadnu-frontend/models"
)

// ErrNoSession rejects LoadUser when there is no token to restore from.
var ErrNoSession = errors.New("no session token")

const sliceAuth = "auth"

type AuthState struct {
	User          Resource[*models.User]
	Token         string
	Authenticated bool
	// Initialized is set once the startup restore attempt has finished.
	Initialized bool
	// Restoring is set while a load_user request is in flight.
	Restoring bool
}

// Confirming reports whether the session is still being established:
// before Init has finished, or while the token is checked against the
// server. Other pending user requests, such as a profile save, do not count.
func (a AuthState) Confirming() bool {
	return !a.Initialized || a.Restoring
}

func (a AuthState) IsAdmin() bool {
	return a.Authenticated && a.User.Data.IsAdmin()
}

type AuthSlice struct {
	s  *Store
	mu sync.Mutex

	user          region[*models.User]
	token         string
	authenticated bool
	initialized   bool
	restoring     int
}

func (a *AuthSlice) State() AuthState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return AuthState{
		User:          a.user.snapshot((*models.User).Clone),
		Token:         a.token,
		Authenticated: a.authenticated,
		Initialized:   a.initialized,
		Restoring:     a.restoring > 0,
	}
}

func (a *AuthSlice) Register(ctx context.Context, form models.RegisterForm) error {
	if err := models.Validate(form); err != nil {
		return err
	}
	return a.authenticate(ctx, "register", func(ctx context.Context) (models.AuthResponse, error) {
		return a.s.backend.Register(ctx, form)
	})
}

func (a *AuthSlice) Login(ctx context.Context, form models.LoginForm) error {
	if err := models.Validate(form); err != nil {
		return err
	}
	return a.authenticate(ctx, "login", func(ctx context.Context) (models.AuthResponse, error) {
		return a.s.backend.Login(ctx, form)
	})
}

func (a *AuthSlice) authenticate(ctx context.Context, op string, call func(context.Context) (models.AuthResponse, error)) error {
	resp, err := run(ctx, a.s, &a.mu, &a.user, step[*models.User, models.AuthResponse]{
		slice:   sliceAuth,
		op:      op,
		replace: true,
		call:    call,
		fold: func(data **models.User, resp models.AuthResponse) {
			*data = resp.Identity()
			a.token = resp.Token
			a.authenticated = true
		},
	})
	if err != nil {
		return err
	}
	a.s.persistToken(ctx, resp.Token)
	return nil
}

// LoadUser confirms the cached token against the server. Any rejection
// ends the session: user, token and the persisted copy are all cleared.
func (a *AuthSlice) LoadUser(ctx context.Context) error {
	token := a.currentToken()
	if token == "" {
		a.mu.Lock()
		a.user.res = Resource[*models.User]{Status: Failed, Err: ErrNoSession}
		a.authenticated = false
		a.mu.Unlock()
		a.s.eraseToken(ctx)
		a.s.emit(Change{Slice: sliceAuth, Operation: "load_user", Status: Failed})
		return ErrNoSession
	}

	a.mu.Lock()
	a.restoring++
	a.mu.Unlock()

	_, err := run(ctx, a.s, &a.mu, &a.user, step[*models.User, *models.User]{
		slice:   sliceAuth,
		op:      "load_user",
		replace: true,
		call: func(ctx context.Context) (*models.User, error) {
			return a.s.backend.Me(ctx, token)
		},
		fold: func(data **models.User, u *models.User) {
			*data = u
			a.authenticated = true
		},
		reject: func(data **models.User, _ error) {
			*data = nil
			a.token = ""
			a.authenticated = false
		},
		done: func() { a.restoring-- },
	})
	if err != nil && !errors.Is(err, ErrSuperseded) {
		a.s.eraseToken(ctx)
	}
	return err
}

func (a *AuthSlice) UpdateProfile(ctx context.Context, form models.ProfileForm) error {
	if err := models.Validate(form); err != nil {
		return err
	}
	token, err := a.s.token()
	if err != nil {
		return err
	}
	_, err = run(ctx, a.s, &a.mu, &a.user, step[*models.User, *models.User]{
		slice:   sliceAuth,
		op:      "update_profile",
		replace: true,
		call: func(ctx context.Context) (*models.User, error) {
			return a.s.backend.UpdateProfile(ctx, token, form)
		},
		fold: func(data **models.User, u *models.User) {
			*data = u
		},
	})
	return err
}

// Logout ends the session locally. Responses still in flight for the old
// session are dropped, and the cart and orders of the previous user are
// discarded with it.
func (a *AuthSlice) Logout(ctx context.Context) {
	a.mu.Lock()
	a.user.reset()
	a.token = ""
	a.authenticated = false
	status := a.user.res.Status
	a.mu.Unlock()
	a.s.eraseToken(ctx)

	a.s.Cart.reset()
	a.s.Orders.reset()
	a.s.emit(Change{Slice: sliceAuth, Operation: "logout", Status: status})
}

func (a *AuthSlice) ClearError() {
	a.mu.Lock()
	a.user.clearError()
	status := a.user.res.Status
	a.mu.Unlock()
	a.s.emit(Change{Slice: sliceAuth, Operation: "clear_error", Status: status})
}

func (a *AuthSlice) currentToken() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.token
}

// adopt caches a persisted token ahead of LoadUser.
func (a *AuthSlice) adopt(token string) {
	a.mu.Lock()
	a.token = token
	a.mu.Unlock()
}

func (a *AuthSlice) markInitialized() {
	a.mu.Lock()
	a.initialized = true
	status := a.user.res.Status
	a.mu.Unlock()
	a.s.emit(Change{Slice: sliceAuth, Operation: "init", Status: status})
}
