package mockapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dooddles07/cyaadnu-frontend/middlewares"
	"github.com/dooddles07/cyaadnu-frontend/models"
)

type quantityBody struct {
	Quantity int `json:"quantity"`
}

func (s *Server) getCart(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reply(c, http.StatusOK, s.populatedCart(c.GetString(middlewares.ContextUserID)))
}

func (s *Server) addCartItem(c *gin.Context) {
	var form models.AddToCartForm
	if !bindForm(c, &form) {
		return
	}
	userID := c.GetString(middlewares.ContextUserID)

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.productIndex(form.ProductID)
	if i < 0 {
		fail(c, http.StatusNotFound, "Product not found")
		return
	}
	product := s.products[i]
	cart := s.cartFor(userID)

	for j, it := range cart.Items {
		if it.Product.ID == product.ID && it.Size == form.Size && it.Color == form.Color {
			if it.Quantity+form.Quantity > product.Stock {
				fail(c, http.StatusBadRequest, "Insufficient stock")
				return
			}
			cart.Items[j].Quantity += form.Quantity
			reply(c, http.StatusOK, s.populatedCart(userID))
			return
		}
	}
	if form.Quantity > product.Stock {
		fail(c, http.StatusBadRequest, "Insufficient stock")
		return
	}
	cart.Items = append(cart.Items, models.CartItem{
		ID:       s.nextID(),
		Product:  models.Product{ID: product.ID},
		Quantity: form.Quantity,
		Size:     form.Size,
		Color:    form.Color,
	})
	reply(c, http.StatusOK, s.populatedCart(userID))
}

func (s *Server) updateCartItem(c *gin.Context) {
	var body quantityBody
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Quantity < 1 {
		fail(c, http.StatusBadRequest, "Quantity must be at least 1")
		return
	}
	userID := c.GetString(middlewares.ContextUserID)

	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cartFor(userID)
	j := itemIndex(cart, c.Param("itemId"))
	if j < 0 {
		fail(c, http.StatusNotFound, "Item not found in cart")
		return
	}
	if p := s.productIndex(cart.Items[j].Product.ID); p >= 0 && body.Quantity > s.products[p].Stock {
		fail(c, http.StatusBadRequest, "Insufficient stock")
		return
	}
	cart.Items[j].Quantity = body.Quantity
	reply(c, http.StatusOK, s.populatedCart(userID))
}

func (s *Server) removeCartItem(c *gin.Context) {
	userID := c.GetString(middlewares.ContextUserID)

	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cartFor(userID)
	j := itemIndex(cart, c.Param("itemId"))
	if j < 0 {
		fail(c, http.StatusNotFound, "Item not found in cart")
		return
	}
	cart.Items = append(cart.Items[:j:j], cart.Items[j+1:]...)
	reply(c, http.StatusOK, s.populatedCart(userID))
}

func (s *Server) clearCart(c *gin.Context) {
	userID := c.GetString(middlewares.ContextUserID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartFor(userID).Items = nil
	reply(c, http.StatusOK, s.populatedCart(userID))
}

// cartFor returns the user's cart, creating an empty one. Callers hold mu.
func (s *Server) cartFor(userID string) *models.Cart {
	cart, found := s.carts[userID]
	if !found {
		cart = &models.Cart{ID: s.nextID(), User: userID}
		s.carts[userID] = cart
	}
	return cart
}

// populatedCart joins current product data into the stored items, drops
// items whose product is gone and recomputes the total. Callers hold mu.
func (s *Server) populatedCart(userID string) *models.Cart {
	cart := s.cartFor(userID)
	kept := cart.Items[:0]
	for _, it := range cart.Items {
		if i := s.productIndex(it.Product.ID); i >= 0 {
			kept = append(kept, it)
		}
	}
	cart.Items = kept

	out := &models.Cart{ID: cart.ID, User: cart.User, Items: make([]models.CartItem, len(cart.Items))}
	for i, it := range cart.Items {
		it.Product = s.products[s.productIndex(it.Product.ID)]
		out.Items[i] = it
	}
	out.TotalPrice = out.ComputeTotal()
	return out
}

func itemIndex(cart *models.Cart, itemID string) int {
	for i, it := range cart.Items {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}
