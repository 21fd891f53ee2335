package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dooddles07/cyaadnu-frontend/models"
	"github.com/dooddles07/cyaadnu-frontend/utils"
)

func TestInit_WithoutTokenIsAnonymous(t *testing.T) {
	s := New(&fakeBackend{}, newMemTokens())
	assert.True(t, s.Auth.State().Confirming())

	require.NoError(t, s.Init(context.Background()))

	st := s.Auth.State()
	assert.True(t, st.Initialized)
	assert.False(t, st.Confirming())
	assert.False(t, st.Authenticated)
	assert.Equal(t, Idle, st.User.Status)
}

func TestInit_ExpiredTokenIsDiscardedWithoutRequest(t *testing.T) {
	expired, err := utils.SignToken([]byte("secret"), "u1", "member", -time.Hour)
	require.NoError(t, err)
	tokens := newMemTokens()
	tokens.m["token"] = expired

	// me is nil: any request would panic
	s := New(&fakeBackend{}, tokens)
	require.NoError(t, s.Init(context.Background()))

	_, ok, _ := tokens.Get(context.Background(), "token")
	assert.False(t, ok)
	assert.False(t, s.Auth.State().Authenticated)
	assert.True(t, s.Auth.State().Initialized)
}

func TestInit_RestoresSession(t *testing.T) {
	s, _ := signedIn(&fakeBackend{}, member)

	st := s.Auth.State()
	assert.True(t, st.Authenticated)
	assert.Equal(t, Ok, st.User.Status)
	assert.Equal(t, "juan@example.com", st.User.Data.Email)
	assert.Equal(t, "opaque-u1", st.Token)
	assert.False(t, st.IsAdmin())
}

func TestLoadUser_RejectionClearsSession(t *testing.T) {
	b := &fakeBackend{}
	s, tokens := signedIn(b, admin)
	require.True(t, s.Auth.State().Authenticated)

	b.me = func(context.Context, string) (*models.User, error) {
		return nil, unauthorized("/auth/me")
	}
	err := s.Auth.LoadUser(context.Background())
	require.Error(t, err)

	st := s.Auth.State()
	assert.False(t, st.Authenticated)
	assert.Nil(t, st.User.Data)
	assert.Empty(t, st.Token)
	assert.Equal(t, Failed, st.User.Status)
	assert.Equal(t, "Not authorized, token failed", st.User.Message())
	_, ok, _ := tokens.Get(context.Background(), "token")
	assert.False(t, ok)
}

func TestLoadUser_WithoutTokenRejects(t *testing.T) {
	tokens := newMemTokens()
	s := New(&fakeBackend{}, tokens)

	err := s.Auth.LoadUser(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Equal(t, Failed, s.Auth.State().User.Status)
	assert.False(t, s.Auth.State().Authenticated)
}

func TestLogin_PersistsToken(t *testing.T) {
	tokens := newMemTokens()
	b := &fakeBackend{
		login: func(_ context.Context, f models.LoginForm) (models.AuthResponse, error) {
			assert.Equal(t, "admin@example.com", f.Email)
			return models.AuthResponse{Token: "tok", User: admin}, nil
		},
	}
	s := New(b, tokens)

	require.NoError(t, s.Auth.Login(context.Background(), models.LoginForm{Email: "admin@example.com", Password: "admin123"}))

	st := s.Auth.State()
	assert.True(t, st.Authenticated)
	assert.True(t, st.IsAdmin())
	assert.Equal(t, "tok", tokens.m["token"])
}

func TestLogin_ValidationSendsNothing(t *testing.T) {
	s := New(&fakeBackend{}, newMemTokens())

	err := s.Auth.Login(context.Background(), models.LoginForm{Email: "admin@example.com"})

	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "password", verr.Field)
	assert.Equal(t, Idle, s.Auth.State().User.Status)
}

func TestLogin_RejectionKeepsPriorState(t *testing.T) {
	b := &fakeBackend{}
	s, _ := signedIn(b, member)
	b.login = func(context.Context, models.LoginForm) (models.AuthResponse, error) {
		return models.AuthResponse{}, unauthorized("/auth/login")
	}

	err := s.Auth.Login(context.Background(), models.LoginForm{Email: "x@example.com", Password: "wrong"})
	require.Error(t, err)

	st := s.Auth.State()
	assert.Equal(t, Failed, st.User.Status)
	assert.True(t, st.Authenticated)
	assert.Equal(t, "u1", st.User.Data.ID)

	s.Auth.ClearError()
	assert.Equal(t, Ok, s.Auth.State().User.Status)
	assert.Nil(t, s.Auth.State().User.Err)
}

func TestLogout_DropsInFlightLogin(t *testing.T) {
	tokens := newMemTokens()
	started := make(chan struct{})
	release := make(chan struct{})
	b := &fakeBackend{
		login: func(context.Context, models.LoginForm) (models.AuthResponse, error) {
			close(started)
			<-release
			return models.AuthResponse{Token: "late", User: member}, nil
		},
	}
	s := New(b, tokens)

	done := make(chan error, 1)
	go func() {
		done <- s.Auth.Login(context.Background(), models.LoginForm{Email: "juan@example.com", Password: "secret1"})
	}()
	<-started
	assert.True(t, s.Auth.State().User.Loading())

	s.Auth.Logout(context.Background())
	close(release)

	assert.ErrorIs(t, <-done, ErrSuperseded)
	st := s.Auth.State()
	assert.False(t, st.Authenticated)
	assert.Nil(t, st.User.Data)
	assert.Equal(t, Idle, st.User.Status)
	assert.Empty(t, tokens.m)
}

func TestLogout_ResetsCartAndOrders(t *testing.T) {
	b := &fakeBackend{
		getCart: func(context.Context, string) (*models.Cart, error) {
			return &models.Cart{ID: "c1", Items: []models.CartItem{{ID: "i1", Product: models.Product{ID: "p1", Price: price("10"), Stock: 5}, Quantity: 1}}}, nil
		},
		myOrders: func(context.Context, string) ([]models.Order, error) {
			return []models.Order{{ID: "o1"}}, nil
		},
	}
	s, tokens := signedIn(b, member)
	require.NoError(t, s.Cart.Fetch(context.Background()))
	require.NoError(t, s.RefreshOrders(context.Background()))

	s.Auth.Logout(context.Background())

	snap := s.Snapshot()
	assert.Nil(t, snap.Cart.Cart.Data)
	assert.Nil(t, snap.Orders.List.Data)
	assert.False(t, snap.Auth.Authenticated)
	assert.Empty(t, tokens.m)
}

func TestLogout_DropsInFlightOrderCreate(t *testing.T) {
	notifier := &recordingNotifier{}
	started := make(chan struct{})
	release := make(chan struct{})
	b := &fakeBackend{
		createOrder: func(context.Context, string, models.CreateOrderRequest) (models.Order, error) {
			close(started)
			<-release
			return models.Order{ID: "o9", User: models.UserRef{ID: "u1"}, OrderStatus: models.StatusProcessing}, nil
		},
	}
	s, _ := signedIn(b, member, WithNotifier(notifier))

	form := models.NewCheckoutForm()
	form.Street, form.City, form.State, form.ZipCode = "1 Rizal St", "Cebu City", "Cebu", "6000"
	done := make(chan error, 1)
	go func() {
		_, err := s.Orders.Create(context.Background(), form)
		done <- err
	}()
	<-started

	s.Auth.Logout(context.Background())
	close(release)

	assert.ErrorIs(t, <-done, ErrSuperseded)
	list := s.Orders.State().List
	assert.Empty(t, list.Data)
	assert.Equal(t, Idle, list.Status)
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.Empty(t, notifier.events)
}

func TestUpdateProfile_DoesNotReopenConfirmation(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	b := &fakeBackend{
		updateProfile: func(_ context.Context, _ string, form models.ProfileForm) (*models.User, error) {
			close(started)
			<-release
			u := *member
			u.Name = form.Name
			return &u, nil
		},
	}
	s, _ := signedIn(b, member)

	done := make(chan error, 1)
	go func() {
		done <- s.Auth.UpdateProfile(context.Background(), models.ProfileForm{Name: "Juan D.", Email: "juan@example.com"})
	}()
	<-started

	st := s.Auth.State()
	assert.True(t, st.User.Loading())
	assert.False(t, st.Restoring)
	assert.False(t, st.Confirming())

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, "Juan D.", s.Auth.State().User.Data.Name)
}

func TestLoadUser_ConfirmingUntilAnswered(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	b := &fakeBackend{}
	s, _ := signedIn(b, member)
	b.me = func(context.Context, string) (*models.User, error) {
		close(started)
		<-release
		u := *member
		return &u, nil
	}

	var confirmingAtOk bool
	s.Subscribe(func(c Change) {
		if c.Operation == "load_user" && c.Status == Ok {
			confirmingAtOk = s.Auth.State().Confirming()
		}
	})

	done := make(chan error, 1)
	go func() { done <- s.Auth.LoadUser(context.Background()) }()
	<-started
	assert.True(t, s.Auth.State().Confirming())

	close(release)
	require.NoError(t, <-done)
	assert.False(t, s.Auth.State().Confirming())
	assert.False(t, confirmingAtOk)
}

func TestSubscribe_SeesEveryPhase(t *testing.T) {
	b := &fakeBackend{}
	s, _ := signedIn(b, member)

	var seen []Change
	unsubscribe := s.Subscribe(func(c Change) { seen = append(seen, c) })
	require.NoError(t, s.Auth.LoadUser(context.Background()))
	unsubscribe()
	require.NoError(t, s.Auth.LoadUser(context.Background()))

	assert.Equal(t, []Change{
		{Slice: "auth", Operation: "load_user", Status: Pending},
		{Slice: "auth", Operation: "load_user", Status: Ok},
	}, seen)
}
