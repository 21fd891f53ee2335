package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dooddles07/cyaadnu-frontend/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL + "/api")
	require.NoError(t, err)
	return c
}

func TestNew_RejectsBadScheme(t *testing.T) {
	_, err := New("ftp://example.com")
	require.Error(t, err)
}

func TestPathSegmentsEscapedOnce(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/a%20b", r.URL.EscapedPath())
		assert.Equal(t, "/api/products/a b", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"_id":"a b","name":"Tee"}}`))
	})

	product, err := c.GetProduct(context.Background(), "a b")
	require.NoError(t, err)
	assert.Equal(t, "a b", product.ID)
}

func TestPathKeepsEscapedSlash(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/o%2F1", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"data":{"_id":"o/1"}}`))
	})

	order, err := c.GetOrder(context.Background(), "tok", "o/1")
	require.NoError(t, err)
	assert.Equal(t, "o/1", order.ID)
}

type countingTransport struct {
	calls atomic.Int32
}

func (t *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	t.calls.Add(1)
	return http.DefaultTransport.RoundTrip(r)
}

func TestOptionsAreOrderIndependent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	t.Cleanup(srv.Close)

	rt := &countingTransport{}
	custom := &http.Client{Transport: rt}
	c, err := New(srv.URL+"/api", WithTimeout(5*time.Second), WithHTTPClient(custom))
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, c.http.Timeout)
	assert.NotSame(t, custom, c.http)
	assert.Zero(t, custom.Timeout)

	_, err = c.ListProducts(context.Background(), models.ProductQuery{})
	require.NoError(t, err)
	assert.Equal(t, int32(1), rt.calls.Load())
}

func TestListProducts_QueryAndEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.Equal(t, "hood", r.URL.Query().Get("search"))
		assert.Equal(t, "Apparel", r.URL.Query().Get("category"))
		assert.Equal(t, "true", r.URL.Query().Get("featured"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"success":true,"data":[{"_id":"p1","name":"CYA Hoodie","price":450,"stock":20}]}`))
	})

	products, err := c.ListProducts(context.Background(), models.ProductQuery{
		Search: "hood", Category: models.CategoryApparel, Featured: true,
	})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "CYA Hoodie", products[0].Name)
	assert.Equal(t, "450.00", products[0].Price.StringFixed(2))
}

func TestListProducts_OmitsEmptyFilters(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"data":[]}`))
	})
	products, err := c.ListProducts(context.Background(), models.ProductQuery{})
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestAuthenticatedRequestCarriesBearer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/cart/item-1", r.URL.Path)

		var body map[string]int
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 3, body["quantity"])
		_, _ = w.Write([]byte(`{"data":{"_id":"c1","items":[{"_id":"item-1","quantity":3,"product":{"_id":"p1","price":10,"stock":5}}],"totalPrice":30}}`))
	})

	cart, err := c.UpdateCartItem(context.Background(), "tok-1", "item-1", 3)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestLogin_TopLevelTokenAndUser(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		_, _ = w.Write([]byte(`{"token":"jwt","user":{"_id":"u1","name":"Ana","role":"admin"}}`))
	})

	res, err := c.Login(context.Background(), models.LoginForm{Email: "ana@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "jwt", res.Token)
	assert.True(t, res.Identity().IsAdmin())
}

func TestStatusErrorCarriesServerMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"Product not found"}`))
	})

	_, err := c.GetProduct(context.Background(), "missing")
	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusNotFound, serr.StatusCode)
	assert.Equal(t, "Product not found", Message(err, "fallback"))
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestStatusErrorWithoutMessageFallsBack(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.MyOrders(context.Background(), "tok")
	require.Error(t, err)
	assert.Equal(t, "Failed to load orders", Message(err, "Failed to load orders"))
	assert.Equal(t, KindServer, KindOf(err))
}

func TestUnauthorizedIsClassified(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Not authorized, token failed"}`))
	})

	_, err := c.Me(context.Background(), "expired")
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, KindAuthorization, KindOf(err))
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url + "/api")
	require.NoError(t, err)

	_, err = c.GetCart(context.Background(), "tok")
	var nerr *NetworkError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, KindNetwork, KindOf(err))
	assert.Equal(t, "Something went wrong", Message(err, "Something went wrong"))
}

func TestCanceledContextStaysVisible(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListProducts(ctx, models.ProductQuery{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDeleteProductIgnoresBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":{}}`))
	})
	require.NoError(t, c.DeleteProduct(context.Background(), "tok", "p1"))
}

func TestKindOfValidation(t *testing.T) {
	err := models.NewValidationError("street", "required")
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, "street is required", Message(err, "x"))
	assert.Equal(t, "", Message(nil, "x"))
}
