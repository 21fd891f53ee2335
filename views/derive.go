// Package views holds the computations pages derive from slice state and
// the terminal renderings of that state.
package views

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dooddles07/cyaadnu-frontend/models"
)

// HomeFeaturedCount is how many featured products the home page shows.
const HomeFeaturedCount = 4

// FilterProducts keeps the products whose name contains search, ignoring
// case, and whose category is category. Empty inputs match everything.
// It is cheap enough to rerun on every keystroke.
func FilterProducts(products []models.Product, search string, category models.Category) []models.Product {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if needle != "" && !strings.Contains(strings.ToLower(p.Name), needle) {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Featured returns at most n featured products in list order.
func Featured(products []models.Product, n int) []models.Product {
	out := make([]models.Product, 0, n)
	for _, p := range products {
		if len(out) == n {
			break
		}
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// FormatPrice renders an amount in pesos with exactly two decimals.
// Negative amounts render as zero.
func FormatPrice(d decimal.Decimal) string {
	if d.IsNegative() {
		d = decimal.Zero
	}
	return "₱" + d.StringFixed(2)
}

func StockLabel(p models.Product) string {
	if p.Stock <= 0 {
		return "Out of stock"
	}
	return fmt.Sprintf("%d in stock", p.Stock)
}

func CanAddToCart(p models.Product) bool {
	return p.Stock > 0
}

// AddToCartLabel is the caption of the add button; out-of-stock products
// show it disabled.
func AddToCartLabel(p models.Product) string {
	if !CanAddToCart(p) {
		return "Out of Stock"
	}
	return "Add to Cart"
}

// Stepper is a quantity picker bounded by 1 and the available stock.
type Stepper struct {
	Quantity int
	Stock    int
}

func (s Stepper) CanIncrement() bool { return s.Quantity < s.Stock }
func (s Stepper) CanDecrement() bool { return s.Quantity > 1 }

func (s Stepper) Increment() Stepper {
	if s.CanIncrement() {
		s.Quantity++
	}
	return s
}

func (s Stepper) Decrement() Stepper {
	if s.CanDecrement() {
		s.Quantity--
	}
	return s
}

// CartStepper is the stepper of one cart line.
func CartStepper(item models.CartItem) Stepper {
	return Stepper{Quantity: item.Quantity, Stock: item.Product.Stock}
}

// CheckoutRedirect is where the checkout page sends the visitor instead of
// rendering, or "" when checkout may proceed.
func CheckoutRedirect(cart *models.Cart) string {
	if cart.Empty() {
		return "/cart"
	}
	return ""
}

type Stats struct {
	TotalProducts int
	TotalOrders   int
	PendingOrders int
}

// DashboardStats counts what the admin overview shows. Pending means
// still Processing.
func DashboardStats(products []models.Product, orders []models.Order) Stats {
	st := Stats{TotalProducts: len(products), TotalOrders: len(orders)}
	for _, o := range orders {
		if o.OrderStatus == models.StatusProcessing {
			st.PendingOrders++
		}
	}
	return st
}

// NextStatuses lists the statuses an order may be moved to from its
// current one, in display order.
func NextStatuses(current models.OrderStatus) []models.OrderStatus {
	var out []models.OrderStatus
	for _, s := range models.OrderStatuses {
		if models.CanTransition(current, s) {
			out = append(out, s)
		}
	}
	return out
}
