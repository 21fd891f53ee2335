// Package store is the application-state container of the storefront
// client. It holds the last-known server view of four resource families
// (auth, cart, products, orders) and mediates every read and write against
// them through the requested/fulfilled/rejected contract.
//
// A Store is created explicitly with New and initialised with Init, which
// attempts to restore the persisted session. There is no package-level
// state; pass the *Store to whatever renders it.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dooddles07/cyaadnu-frontend/models"
	"github.com/dooddles07/cyaadnu-frontend/utils"
)

var (
	// ErrNotAuthenticated is returned by operations that need a session
	// when there is none. No request is sent.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNotInCart is returned when a cart item id is not in the cached cart.
	ErrNotInCart = errors.New("item is not in the cart")
)

// Backend is the REST API as the store consumes it. *api.Client
// implements it.
type Backend interface {
	Register(ctx context.Context, form models.RegisterForm) (models.AuthResponse, error)
	Login(ctx context.Context, form models.LoginForm) (models.AuthResponse, error)
	Me(ctx context.Context, token string) (*models.User, error)
	UpdateProfile(ctx context.Context, token string, form models.ProfileForm) (*models.User, error)

	ListProducts(ctx context.Context, q models.ProductQuery) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, token string, form models.ProductForm) (models.Product, error)
	UpdateProduct(ctx context.Context, token, id string, form models.ProductForm) (models.Product, error)
	DeleteProduct(ctx context.Context, token, id string) error

	GetCart(ctx context.Context, token string) (*models.Cart, error)
	AddCartItem(ctx context.Context, token string, form models.AddToCartForm) (*models.Cart, error)
	UpdateCartItem(ctx context.Context, token, itemID string, quantity int) (*models.Cart, error)
	RemoveCartItem(ctx context.Context, token, itemID string) (*models.Cart, error)
	ClearCart(ctx context.Context, token string) (*models.Cart, error)

	CreateOrder(ctx context.Context, token string, req models.CreateOrderRequest) (models.Order, error)
	MyOrders(ctx context.Context, token string) ([]models.Order, error)
	AllOrders(ctx context.Context, token string) ([]models.Order, error)
	GetOrder(ctx context.Context, token, id string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, token, id string, update models.StatusUpdate) (models.Order, error)
}

// TokenStorage is the durable client-side storage the session token lives
// in between runs. *database.KV implements it.
type TokenStorage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Notifier announces successful order mutations to other clients.
type Notifier interface {
	PublishOrderEvent(ctx context.Context, event models.OrderEvent) error
}

// Change describes one state transition.
type Change struct {
	Slice     string
	Operation string
	Status    Status
}

type Store struct {
	Auth     *AuthSlice
	Cart     *CartSlice
	Products *ProductSlice
	Orders   *OrderSlice

	backend  Backend
	tokens   TokenStorage
	tokenKey string
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time

	subMu   sync.Mutex
	subs    map[uint64]func(Change)
	nextSub uint64
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithTokenKey sets the storage key of the session token. Default "token".
func WithTokenKey(key string) Option {
	return func(s *Store) { s.tokenKey = key }
}

func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(backend Backend, tokens TokenStorage, opts ...Option) *Store {
	s := &Store{
		backend:  backend,
		tokens:   tokens,
		tokenKey: "token",
		logger:   zap.NewNop(),
		now:      time.Now,
		subs:     make(map[uint64]func(Change)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Auth = &AuthSlice{s: s}
	s.Cart = &CartSlice{s: s, want: make(map[string]intent)}
	s.Products = &ProductSlice{s: s}
	s.Orders = &OrderSlice{s: s}
	return s
}

// Init restores the session from the persisted token. A missing token, an
// expired JWT or a rejected restore all leave the store initialised and
// unauthenticated; only a storage read failure is returned.
func (s *Store) Init(ctx context.Context) error {
	defer s.Auth.markInitialized()

	token, ok, err := s.tokens.Get(ctx, s.tokenKey)
	if err != nil {
		return fmt.Errorf("read session token: %w", err)
	}
	if !ok || token == "" {
		return nil
	}
	if utils.TokenExpired(token, s.now()) {
		s.logger.Info("persisted session expired, discarding")
		s.eraseToken(ctx)
		return nil
	}

	s.Auth.adopt(token)
	if err := s.Auth.LoadUser(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
		s.logger.Info("session restore rejected", zap.Error(err))
	}
	return nil
}

// Snapshot is a deep copy of every slice.
type Snapshot struct {
	Auth     AuthState
	Cart     CartState
	Products ProductState
	Orders   OrderState
}

func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Auth:     s.Auth.State(),
		Cart:     s.Cart.State(),
		Products: s.Products.State(),
		Orders:   s.Orders.State(),
	}
}

// Subscribe registers fn for every transition. fn runs synchronously on the
// goroutine that caused the transition, outside any store lock, and must
// not block. The returned func unsubscribes.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) emit(c Change) {
	s.subMu.Lock()
	fns := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(c)
	}
}

// RefreshOrders is Orders.Refresh. The order event consumer calls it.
func (s *Store) RefreshOrders(ctx context.Context) error {
	return s.Orders.Refresh(ctx)
}

func (s *Store) token() (string, error) {
	t := s.Auth.currentToken()
	if t == "" {
		return "", ErrNotAuthenticated
	}
	return t, nil
}

func (s *Store) persistToken(ctx context.Context, token string) {
	if err := s.tokens.Set(ctx, s.tokenKey, token); err != nil {
		s.logger.Warn("persist session token failed", zap.Error(err))
	}
}

func (s *Store) eraseToken(ctx context.Context) {
	if err := s.tokens.Delete(ctx, s.tokenKey); err != nil {
		s.logger.Warn("erase session token failed", zap.Error(err))
	}
}

func (s *Store) notify(ctx context.Context, eventType string, o models.Order) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishOrderEvent(ctx, models.NewOrderEvent(eventType, o)); err != nil {
		s.logger.Warn("publish order event failed",
			zap.String("type", eventType),
			zap.String("order", o.ID),
			zap.Error(err))
	}
}
