package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dooddles07/cyaadnu-frontend/mockapi"
	"github.com/dooddles07/cyaadnu-frontend/models"
)

func backend(t *testing.T) []models.Product {
	t.Helper()
	gin.SetMode(gin.TestMode)
	b := mockapi.New([]byte("test-secret"))
	_, err := b.SeedAdmin("Admin", "admin@cyaadnu.test", "admin123")
	require.NoError(t, err)
	products := b.SeedProducts(
		models.Product{Name: "CYA Tee", Description: "Cotton tee", Price: decimal.RequireFromString("150.00"), Category: models.CategoryApparel, Stock: 10},
		models.Product{Name: "CYA Mug", Description: "Ceramic mug", Price: decimal.RequireFromString("299.99"), Category: models.CategoryMerchandise, Stock: 4},
	)
	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)

	t.Setenv("API_BASE_URL", srv.URL+"/api")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("STORAGE_DSN", filepath.Join(t.TempDir(), "storage.db"))
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("METRICS_ADDR", "")
	t.Setenv("LOG_LEVEL", "error")
	return products
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestShoppingSession(t *testing.T) {
	products := backend(t)

	_, err := run(t, "cart")
	assert.ErrorIs(t, err, errSignInRequired)

	out, err := run(t, "register", "--name", "Juan", "--email", "juan@cyaadnu.test", "--password", "secret1")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Juan")

	out, err = run(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "juan@cyaadnu.test", "session restored from storage")

	out, err = run(t, "cart", "add", products[0].ID, "--qty", "2")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Added to cart successfully!")
	assert.Contains(t, out, "₱300.00")

	out, err = run(t, "checkout", "--street", "1 Rizal St", "--city", "Cebu City", "--state", "Cebu", "--zip", "6000")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Order placed successfully!")
	assert.Contains(t, out, "Processing")

	_, err = run(t, "checkout")
	assert.EqualError(t, err, "your cart is empty")

	_, err = run(t, "admin", "dashboard")
	assert.ErrorIs(t, err, errAdminRequired)

	_, err = run(t, "logout")
	require.NoError(t, err)
	_, err = run(t, "orders")
	assert.ErrorIs(t, err, errSignInRequired)
}

func TestAdminDashboard(t *testing.T) {
	backend(t)
	out, err := run(t, "login", "--email", "admin@cyaadnu.test", "--password", "admin123")
	require.NoError(t, err, out)

	out, err = run(t, "admin", "dashboard")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Total Products")
	assert.Contains(t, out, "Pending Orders")
}

func TestProductsList(t *testing.T) {
	backend(t)
	out, err := run(t, "products", "list", "--search", "mug", "--category", "all")
	require.NoError(t, err, out)
	assert.Contains(t, out, "CYA Mug")
	assert.NotContains(t, out, "CYA Tee")

	_, err = run(t, "products", "list", "--search", "", "--category", "shoes")
	assert.EqualError(t, err, `unknown category "shoes"`)
}

func TestLoginFailure(t *testing.T) {
	backend(t)
	_, err := run(t, "login", "--email", "admin@cyaadnu.test", "--password", "nope")
	assert.EqualError(t, err, "Invalid credentials")
}

func TestMatchFold(t *testing.T) {
	st, ok := matchFold(" shipped ", models.OrderStatuses)
	assert.True(t, ok)
	assert.Equal(t, models.StatusShipped, st)
	_, ok = matchFold("lost", models.OrderStatuses)
	assert.False(t, ok)
	pm, ok := matchFold("gcash", models.PaymentMethods)
	assert.True(t, ok)
	assert.Equal(t, models.PaymentGCash, pm)
}
