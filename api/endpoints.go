package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dooddles07/cyaadnu-frontend/models"
)

// Auth

func (c *Client) Register(ctx context.Context, form models.RegisterForm) (models.AuthResponse, error) {
	var out models.AuthResponse
	err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/auth/register", Body: form}, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, form models.LoginForm) (models.AuthResponse, error) {
	var out models.AuthResponse
	err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/auth/login", Body: form}, &out)
	return out, err
}

func (c *Client) Me(ctx context.Context, token string) (*models.User, error) {
	return getData[*models.User](ctx, c, Request{Method: http.MethodGet, Path: "/auth/me", Token: token})
}

func (c *Client) UpdateProfile(ctx context.Context, token string, form models.ProfileForm) (*models.User, error) {
	return getData[*models.User](ctx, c, Request{Method: http.MethodPut, Path: "/users/profile", Body: form, Token: token})
}

// Products

func (c *Client) ListProducts(ctx context.Context, q models.ProductQuery) ([]models.Product, error) {
	params := url.Values{}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Category != "" {
		params.Set("category", string(q.Category))
	}
	if q.Featured {
		params.Set("featured", strconv.FormatBool(true))
	}
	return getData[[]models.Product](ctx, c, Request{Method: http.MethodGet, Path: "/products", Query: params})
}

func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return getData[*models.Product](ctx, c, Request{Method: http.MethodGet, Path: "/products/" + url.PathEscape(id)})
}

func (c *Client) CreateProduct(ctx context.Context, token string, form models.ProductForm) (models.Product, error) {
	return getData[models.Product](ctx, c, Request{Method: http.MethodPost, Path: "/products", Body: form, Token: token})
}

func (c *Client) UpdateProduct(ctx context.Context, token, id string, form models.ProductForm) (models.Product, error) {
	return getData[models.Product](ctx, c, Request{Method: http.MethodPut, Path: "/products/" + url.PathEscape(id), Body: form, Token: token})
}

func (c *Client) DeleteProduct(ctx context.Context, token, id string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: "/products/" + url.PathEscape(id), Token: token}, nil)
}

// Cart. Every mutation answers with the whole cart.

func (c *Client) GetCart(ctx context.Context, token string) (*models.Cart, error) {
	return getData[*models.Cart](ctx, c, Request{Method: http.MethodGet, Path: "/cart", Token: token})
}

func (c *Client) AddCartItem(ctx context.Context, token string, form models.AddToCartForm) (*models.Cart, error) {
	return getData[*models.Cart](ctx, c, Request{Method: http.MethodPost, Path: "/cart", Body: form, Token: token})
}

func (c *Client) UpdateCartItem(ctx context.Context, token, itemID string, quantity int) (*models.Cart, error) {
	body := map[string]int{"quantity": quantity}
	return getData[*models.Cart](ctx, c, Request{Method: http.MethodPut, Path: "/cart/" + url.PathEscape(itemID), Body: body, Token: token})
}

func (c *Client) RemoveCartItem(ctx context.Context, token, itemID string) (*models.Cart, error) {
	return getData[*models.Cart](ctx, c, Request{Method: http.MethodDelete, Path: "/cart/" + url.PathEscape(itemID), Token: token})
}

func (c *Client) ClearCart(ctx context.Context, token string) (*models.Cart, error) {
	return getData[*models.Cart](ctx, c, Request{Method: http.MethodDelete, Path: "/cart", Token: token})
}

// Orders

func (c *Client) CreateOrder(ctx context.Context, token string, req models.CreateOrderRequest) (models.Order, error) {
	return getData[models.Order](ctx, c, Request{Method: http.MethodPost, Path: "/orders", Body: req, Token: token})
}

func (c *Client) MyOrders(ctx context.Context, token string) ([]models.Order, error) {
	return getData[[]models.Order](ctx, c, Request{Method: http.MethodGet, Path: "/orders/myorders", Token: token})
}

func (c *Client) AllOrders(ctx context.Context, token string) ([]models.Order, error) {
	return getData[[]models.Order](ctx, c, Request{Method: http.MethodGet, Path: "/orders", Token: token})
}

func (c *Client) GetOrder(ctx context.Context, token, id string) (*models.Order, error) {
	return getData[*models.Order](ctx, c, Request{Method: http.MethodGet, Path: "/orders/" + url.PathEscape(id), Token: token})
}

func (c *Client) UpdateOrderStatus(ctx context.Context, token, id string, update models.StatusUpdate) (models.Order, error) {
	return getData[models.Order](ctx, c, Request{Method: http.MethodPut, Path: "/orders/" + url.PathEscape(id), Body: update, Token: token})
}
