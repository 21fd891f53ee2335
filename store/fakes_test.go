package store

import (
	"context"
	"net/http"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/dooddles07/cyaadnu-frontend/api"
	"github.com/dooddles07/cyaadnu-frontend/models"
)

// fakeBackend answers only the calls a test wires up; any other call
// panics through the nil embedded interface.
type fakeBackend struct {
	Backend

	login          func(context.Context, models.LoginForm) (models.AuthResponse, error)
	me             func(context.Context, string) (*models.User, error)
	updateProfile  func(context.Context, string, models.ProfileForm) (*models.User, error)
	listProducts   func(context.Context, models.ProductQuery) ([]models.Product, error)
	createProduct  func(context.Context, string, models.ProductForm) (models.Product, error)
	updateProduct  func(context.Context, string, string, models.ProductForm) (models.Product, error)
	deleteProduct  func(context.Context, string, string) error
	getCart        func(context.Context, string) (*models.Cart, error)
	updateCartItem func(context.Context, string, string, int) (*models.Cart, error)
	createOrder    func(context.Context, string, models.CreateOrderRequest) (models.Order, error)
	allOrders      func(context.Context, string) ([]models.Order, error)
	myOrders       func(context.Context, string) ([]models.Order, error)
	updateStatus   func(context.Context, string, string, models.StatusUpdate) (models.Order, error)
}

func (f *fakeBackend) Login(ctx context.Context, form models.LoginForm) (models.AuthResponse, error) {
	return f.login(ctx, form)
}

func (f *fakeBackend) Me(ctx context.Context, token string) (*models.User, error) {
	return f.me(ctx, token)
}

func (f *fakeBackend) UpdateProfile(ctx context.Context, token string, form models.ProfileForm) (*models.User, error) {
	return f.updateProfile(ctx, token, form)
}

func (f *fakeBackend) ListProducts(ctx context.Context, q models.ProductQuery) ([]models.Product, error) {
	return f.listProducts(ctx, q)
}

func (f *fakeBackend) CreateProduct(ctx context.Context, token string, form models.ProductForm) (models.Product, error) {
	return f.createProduct(ctx, token, form)
}

func (f *fakeBackend) UpdateProduct(ctx context.Context, token, id string, form models.ProductForm) (models.Product, error) {
	return f.updateProduct(ctx, token, id, form)
}

func (f *fakeBackend) DeleteProduct(ctx context.Context, token, id string) error {
	return f.deleteProduct(ctx, token, id)
}

func (f *fakeBackend) GetCart(ctx context.Context, token string) (*models.Cart, error) {
	return f.getCart(ctx, token)
}

func (f *fakeBackend) UpdateCartItem(ctx context.Context, token, itemID string, quantity int) (*models.Cart, error) {
	return f.updateCartItem(ctx, token, itemID, quantity)
}

func (f *fakeBackend) CreateOrder(ctx context.Context, token string, req models.CreateOrderRequest) (models.Order, error) {
	return f.createOrder(ctx, token, req)
}

func (f *fakeBackend) AllOrders(ctx context.Context, token string) ([]models.Order, error) {
	return f.allOrders(ctx, token)
}

func (f *fakeBackend) MyOrders(ctx context.Context, token string) ([]models.Order, error) {
	return f.myOrders(ctx, token)
}

func (f *fakeBackend) UpdateOrderStatus(ctx context.Context, token, id string, update models.StatusUpdate) (models.Order, error) {
	return f.updateStatus(ctx, token, id, update)
}

type memTokens struct {
	mu sync.Mutex
	m  map[string]string
}

func newMemTokens() *memTokens {
	return &memTokens{m: make(map[string]string)}
}

func (t *memTokens) Get(_ context.Context, key string) (string, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.m[key]
	return v, ok, nil
}

func (t *memTokens) Set(_ context.Context, key, value string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.m[key] = value
	return nil
}

func (t *memTokens) Delete(_ context.Context, key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.m, key)
	return nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []models.OrderEvent
}

func (n *recordingNotifier) PublishOrderEvent(_ context.Context, e models.OrderEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
	return nil
}

func unauthorized(path string) error {
	return &api.StatusError{Method: http.MethodGet, Path: path, StatusCode: http.StatusUnauthorized, Message: "Not authorized, token failed"}
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var (
	member = &models.User{ID: "u1", Name: "Juan Dela Cruz", Email: "juan@example.com", Role: models.RoleMember}
	admin  = &models.User{ID: "a1", Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin}
)

// signedIn returns a store whose session is already confirmed as u.
func signedIn(b *fakeBackend, u *models.User, opts ...Option) (*Store, *memTokens) {
	tokens := newMemTokens()
	tokens.m["token"] = "opaque-" + u.ID
	b.me = func(context.Context, string) (*models.User, error) {
		cp := *u
		return &cp, nil
	}
	s := New(b, tokens, opts...)
	if err := s.Init(context.Background()); err != nil {
		panic(err)
	}
	return s, tokens
}
