package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/dooddles07/cyaadnu-frontend/models"
)

const sliceCart = "cart"

type CartState struct {
	Cart Resource[*models.Cart]
}

// intent is the newest quantity requested for a cart item that has not
// been answered yet.
type intent struct {
	quantity int
	pending  int
}

type CartSlice struct {
	s  *Store
	mu sync.Mutex

	cart region[*models.Cart]
	want map[string]intent
}

func (c *CartSlice) State() CartState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CartState{Cart: c.cart.snapshot((*models.Cart).Clone)}
}

func (c *CartSlice) Fetch(ctx context.Context) error {
	return c.mutate(ctx, "fetch", func(ctx context.Context, token string) (*models.Cart, error) {
		return c.s.backend.GetCart(ctx, token)
	})
}

// Add puts quantity units of product into the cart. The request is refused
// locally when the product is out of stock or the cart would hold more
// units than the product has.
func (c *CartSlice) Add(ctx context.Context, product models.Product, form models.AddToCartForm) error {
	form.ProductID = product.ID
	if err := models.Validate(form); err != nil {
		return err
	}
	if !product.InStock() {
		return models.NewValidationError("product", "out_of_stock")
	}
	if c.heldUnits(product.ID)+form.Quantity > product.Stock {
		return models.NewValidationError("quantity", "stock")
	}
	return c.mutate(ctx, "add", func(ctx context.Context, token string) (*models.Cart, error) {
		return c.s.backend.AddCartItem(ctx, token, form)
	})
}

// SetQuantity sets an item's quantity, bounded by 1 and the product's stock.
func (c *CartSlice) SetQuantity(ctx context.Context, itemID string, quantity int) error {
	c.mu.Lock()
	item, ok := c.cart.res.Data.Find(itemID)
	c.mu.Unlock()
	if !ok {
		return ErrNotInCart
	}
	if err := checkQuantity(item, quantity); err != nil {
		return err
	}
	return c.setQuantity(ctx, itemID, quantity)
}

// Step moves an item's quantity by delta relative to the newest quantity
// requested for it, so rapid repeated steps accumulate instead of being
// computed from the same cached value.
func (c *CartSlice) Step(ctx context.Context, itemID string, delta int) error {
	c.mu.Lock()
	item, ok := c.cart.res.Data.Find(itemID)
	base := item.Quantity
	if w, pending := c.want[itemID]; pending {
		base = w.quantity
	}
	c.mu.Unlock()
	if !ok {
		return ErrNotInCart
	}
	next := base + delta
	if err := checkQuantity(item, next); err != nil {
		return err
	}
	return c.setQuantity(ctx, itemID, next)
}

func (c *CartSlice) setQuantity(ctx context.Context, itemID string, quantity int) error {
	token, err := c.s.token()
	if err != nil {
		return err
	}

	c.mu.Lock()
	w := c.want[itemID]
	w.quantity = quantity
	w.pending++
	c.want[itemID] = w
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if w, ok := c.want[itemID]; ok {
			w.pending--
			if w.pending <= 0 {
				delete(c.want, itemID)
			} else {
				c.want[itemID] = w
			}
		}
		c.mu.Unlock()
	}()

	return c.mutateWith(ctx, token, "update", func(ctx context.Context, token string) (*models.Cart, error) {
		return c.s.backend.UpdateCartItem(ctx, token, itemID, quantity)
	})
}

func (c *CartSlice) Remove(ctx context.Context, itemID string) error {
	return c.mutate(ctx, "remove", func(ctx context.Context, token string) (*models.Cart, error) {
		return c.s.backend.RemoveCartItem(ctx, token, itemID)
	})
}

func (c *CartSlice) Clear(ctx context.Context) error {
	return c.mutate(ctx, "clear", func(ctx context.Context, token string) (*models.Cart, error) {
		return c.s.backend.ClearCart(ctx, token)
	})
}

func (c *CartSlice) mutate(ctx context.Context, op string, call func(context.Context, string) (*models.Cart, error)) error {
	token, err := c.s.token()
	if err != nil {
		return err
	}
	return c.mutateWith(ctx, token, op, call)
}

// mutateWith runs a cart request. Every cart endpoint answers with the
// whole cart, so every response replaces the cached one.
func (c *CartSlice) mutateWith(ctx context.Context, token, op string, call func(context.Context, string) (*models.Cart, error)) error {
	_, err := run(ctx, c.s, &c.mu, &c.cart, step[*models.Cart, *models.Cart]{
		slice:   sliceCart,
		op:      op,
		replace: true,
		call: func(ctx context.Context) (*models.Cart, error) {
			return call(ctx, token)
		},
		fold: func(data **models.Cart, cart *models.Cart) {
			if cart != nil {
				total := cart.ComputeTotal()
				if !total.Equal(cart.TotalPrice) {
					c.s.logger.Warn("cart total disagrees with items",
						zap.String("cart", cart.ID),
						zap.String("server", cart.TotalPrice.StringFixed(2)),
						zap.String("computed", total.StringFixed(2)))
				}
				cart.TotalPrice = total
			}
			*data = cart
		},
	})
	return err
}

func (c *CartSlice) heldUnits(productID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cart.res.Data == nil {
		return 0
	}
	n := 0
	for _, it := range c.cart.res.Data.Items {
		if it.Product.ID == productID {
			n += it.Quantity
		}
	}
	return n
}

func (c *CartSlice) reset() {
	c.mu.Lock()
	c.cart.reset()
	c.want = make(map[string]intent)
	status := c.cart.res.Status
	c.mu.Unlock()
	c.s.emit(Change{Slice: sliceCart, Operation: "reset", Status: status})
}

func checkQuantity(item models.CartItem, quantity int) error {
	if quantity < 1 {
		return models.NewValidationError("quantity", "gte")
	}
	if quantity > item.Product.Stock {
		return models.NewValidationError("quantity", "stock")
	}
	return nil
}
