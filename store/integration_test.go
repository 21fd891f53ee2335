package store_test

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dooddles07/cyaadnu-frontend/api"
	"github.com/dooddles07/cyaadnu-frontend/mockapi"
	"github.com/dooddles07/cyaadnu-frontend/models"
	"github.com/dooddles07/cyaadnu-frontend/store"
)

type tokenMap struct {
	mu sync.Mutex
	m  map[string]string
}

func (t *tokenMap) Get(_ context.Context, key string) (string, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.m[key]
	return v, ok, nil
}

func (t *tokenMap) Set(_ context.Context, key, value string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.m[key] = value
	return nil
}

func (t *tokenMap) Delete(_ context.Context, key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.m, key)
	return nil
}

type stack struct {
	backend *mockapi.Server
	client  *api.Client
	tokens  *tokenMap
	seeded  []models.Product
}

func newStack(t *testing.T) *stack {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := mockapi.New([]byte("test-secret"))
	_, err := backend.SeedAdmin("Admin", "admin@cyaadnu.test", "admin123")
	require.NoError(t, err)
	seeded := backend.SeedProducts(
		models.Product{Name: "CYA Tee", Description: "Cotton tee", Price: decimal.RequireFromString("150.00"), Category: models.CategoryApparel, Stock: 10, Featured: true},
		models.Product{Name: "CYA Mug", Description: "Ceramic mug", Price: decimal.RequireFromString("299.99"), Category: models.CategoryMerchandise, Stock: 4},
	)

	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL + "/api")
	require.NoError(t, err)
	return &stack{backend: backend, client: client, tokens: &tokenMap{m: map[string]string{}}, seeded: seeded}
}

func (st *stack) store(t *testing.T) *store.Store {
	t.Helper()
	s := store.New(st.client, st.tokens)
	require.NoError(t, s.Init(context.Background()))
	return s
}

func TestAdminProductRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)
	s := st.store(t)
	require.NoError(t, s.Auth.Login(ctx, models.LoginForm{Email: "admin@cyaadnu.test", Password: "admin123"}))
	require.True(t, s.Auth.State().IsAdmin())
	require.NoError(t, s.Products.List(ctx, models.ProductQuery{}))

	_, err := s.Products.Create(ctx, models.ProductForm{
		Name:        "CYA Hoodie",
		Description: "Fleece-lined hoodie",
		Price:       decimal.RequireFromString("450.00"),
		Category:    models.CategoryApparel,
		Stock:       20,
	})
	require.NoError(t, err)

	for _, list := range [][]models.Product{
		s.Products.State().List.Data,
		func() []models.Product {
			require.NoError(t, s.Products.List(ctx, models.ProductQuery{}))
			return s.Products.State().List.Data
		}(),
	} {
		require.Len(t, list, 3)
		first := list[0]
		assert.Equal(t, "CYA Hoodie", first.Name)
		assert.Equal(t, "450.00", first.Price.StringFixed(2))
		assert.Equal(t, models.CategoryApparel, first.Category)
		assert.Equal(t, 20, first.Stock)
	}

	require.NoError(t, s.Products.Delete(ctx, st.seeded[1].ID))
	var names []string
	for _, p := range s.Products.State().List.Data {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"CYA Hoodie", "CYA Tee"}, names)
}

func TestMemberCannotCreateProducts(t *testing.T) {
	ctx := context.Background()
	s := newStack(t).store(t)
	require.NoError(t, s.Auth.Register(ctx, models.RegisterForm{Name: "Juan", Email: "juan@cyaadnu.test", Password: "secret1"}))

	_, err := s.Products.Create(ctx, models.ProductForm{
		Name: "Bootleg", Description: "x", Price: decimal.NewFromInt(1), Category: models.CategoryOthers,
	})
	require.Error(t, err)
	assert.Equal(t, api.KindAuthorization, api.KindOf(err))
	assert.Equal(t, "Not authorized as an admin", s.Products.State().List.Message())
}

func TestCheckoutFlow(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)
	s := st.store(t)
	require.NoError(t, s.Auth.Register(ctx, models.RegisterForm{Name: "Juan", Email: "juan@cyaadnu.test", Password: "secret1"}))

	tee, mug := st.seeded[0], st.seeded[1]
	require.NoError(t, s.Cart.Add(ctx, tee, models.AddToCartForm{Quantity: 2}))
	require.NoError(t, s.Cart.Add(ctx, mug, models.AddToCartForm{Quantity: 1}))

	cart := s.Cart.State().Cart.Data
	require.Len(t, cart.Items, 2)
	assert.Equal(t, "599.99", cart.TotalPrice.StringFixed(2))

	form := models.NewCheckoutForm()
	form.Street, form.City, form.State, form.ZipCode = "1 Rizal St", "Cebu City", "Cebu", "6000"
	order, err := s.Orders.Create(ctx, form)
	require.NoError(t, err)
	assert.Equal(t, "599.99", order.TotalPrice.StringFixed(2))
	assert.Equal(t, models.StatusProcessing, order.OrderStatus)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "150.00", order.Items[0].Price.StringFixed(2))

	require.NoError(t, s.Cart.Fetch(ctx))
	assert.True(t, s.Cart.State().Cart.Data.Empty())

	require.NoError(t, s.RefreshOrders(ctx))
	require.Len(t, s.Orders.State().List.Data, 1)
	assert.Equal(t, order.ID, s.Orders.State().List.Data[0].ID)
}

func TestSessionSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)

	first := st.store(t)
	require.NoError(t, first.Auth.Login(ctx, models.LoginForm{Email: "admin@cyaadnu.test", Password: "admin123"}))

	second := st.store(t)
	auth := second.Auth.State()
	assert.True(t, auth.Authenticated)
	assert.Equal(t, "admin@cyaadnu.test", auth.User.Data.Email)

	second.Auth.Logout(ctx)
	third := st.store(t)
	assert.False(t, third.Auth.State().Authenticated)
}

func TestForgedTokenIsDropped(t *testing.T) {
	st := newStack(t)
	st.tokens.m["token"] = "not-a-real-token"

	s := st.store(t)
	auth := s.Auth.State()
	assert.False(t, auth.Authenticated)
	assert.Equal(t, store.Failed, auth.User.Status)
	assert.Empty(t, st.tokens.m)
}
