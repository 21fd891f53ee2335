// Package mockapi is an in-memory storefront backend speaking the REST
// contract the client consumes. It backs the tests and the mock-server
// command; nothing here is persisted.
package mockapi

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/dooddles07/cyaadnu-frontend/middlewares"
	"github.com/dooddles07/cyaadnu-frontend/models"
	"github.com/dooddles07/cyaadnu-frontend/utils"
)

const tokenTTL = 30 * 24 * time.Hour

type account struct {
	user models.User
	hash []byte
}

type Server struct {
	secret []byte
	logger *zap.Logger
	now    func() time.Time

	mu       sync.Mutex
	seq      int
	accounts map[string]*account
	byEmail  map[string]string
	products []models.Product // newest first
	carts    map[string]*models.Cart
	orders   []models.Order // newest first
}

type Option func(*Server)

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func New(secret []byte, opts ...Option) *Server {
	s := &Server{
		secret:   secret,
		logger:   zap.NewNop(),
		now:      time.Now,
		accounts: make(map[string]*account),
		byEmail:  make(map[string]string),
		carts:    make(map[string]*models.Cart),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the gin engine. Every API route lives under /api.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.PrometheusMiddleware())
	r.Use(s.accessLog())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := r.Group("/api")
	apiGroup.POST("/auth/register", s.register)
	apiGroup.POST("/auth/login", s.login)
	apiGroup.GET("/products", s.listProducts)
	apiGroup.GET("/products/:id", s.getProduct)

	authGroup := apiGroup.Group("")
	authGroup.Use(middlewares.AuthMiddleware(s.secret))
	{
		authGroup.GET("/auth/me", s.me)
		authGroup.PUT("/users/profile", s.updateProfile)

		authGroup.GET("/cart", s.getCart)
		authGroup.POST("/cart", s.addCartItem)
		authGroup.PUT("/cart/:itemId", s.updateCartItem)
		authGroup.DELETE("/cart/:itemId", s.removeCartItem)
		authGroup.DELETE("/cart", s.clearCart)

		authGroup.POST("/orders", s.createOrder)
		authGroup.GET("/orders/myorders", s.myOrders)
		authGroup.GET("/orders/:id", s.getOrder)
	}

	adminGroup := authGroup.Group("")
	adminGroup.Use(middlewares.AdminOnly())
	{
		adminGroup.POST("/products", s.createProduct)
		adminGroup.PUT("/products/:id", s.updateProduct)
		adminGroup.DELETE("/products/:id", s.deleteProduct)

		adminGroup.GET("/orders", s.allOrders)
		adminGroup.PUT("/orders/:id", s.updateOrderStatus)
	}
	return r
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.String("request_id", c.GetHeader(middlewares.RequestIDHeader)),
			zap.Duration("took", time.Since(start)))
	}
}

// SeedAdmin adds an administrator account.
func (s *Server) SeedAdmin(name, email, password string) (models.User, error) {
	return s.addAccount(models.User{Name: name, Email: email, Role: models.RoleAdmin}, password)
}

// SeedProducts adds products in the given order, ahead of any already
// present, and returns them with their assigned ids.
func (s *Server) SeedProducts(products ...models.Product) []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, len(products))
	for i, p := range products {
		p.ID = s.nextID()
		out[i] = p
	}
	s.products = append(append([]models.Product(nil), out...), s.products...)
	return out
}

// Token signs a bearer token for an existing user, bypassing login.
func (s *Server) Token(userID string) (string, error) {
	s.mu.Lock()
	acct, ok := s.accounts[userID]
	s.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("unknown user %s", userID)
	}
	return utils.SignToken(s.secret, acct.user.ID, string(acct.user.Role), tokenTTL)
}

func (s *Server) addAccount(u models.User, password string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[u.Email]; taken {
		return models.User{}, errEmailTaken
	}
	u.ID = s.nextID()
	s.accounts[u.ID] = &account{user: u, hash: hash}
	s.byEmail[u.Email] = u.ID
	return u, nil
}

// nextID mimics a 24-hex-digit document id. Callers hold mu.
func (s *Server) nextID() string {
	s.seq++
	return fmt.Sprintf("65f0%020x", s.seq)
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

func reply(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}
