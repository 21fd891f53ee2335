package mockapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/dooddles07/cyaadnu-frontend/middlewares"
	"github.com/dooddles07/cyaadnu-frontend/models"
)

// createOrder turns the caller's cart into an order. Unit prices are
// captured now, stock is taken and the cart is emptied.
func (s *Server) createOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.PaymentMethod.Valid() {
		fail(c, http.StatusBadRequest, "Invalid payment method")
		return
	}
	userID := c.GetString(middlewares.ContextUserID)

	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.populatedCart(userID)
	if cart.Empty() {
		fail(c, http.StatusBadRequest, "Cart is empty")
		return
	}
	for _, it := range cart.Items {
		if it.Quantity > it.Product.Stock {
			fail(c, http.StatusBadRequest, fmt.Sprintf("Insufficient stock for %s", it.Product.Name))
			return
		}
	}

	order := models.Order{
		ID:              s.nextID(),
		User:            models.UserRef{ID: userID},
		Items:           make([]models.OrderItem, len(cart.Items)),
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   models.PaymentPending,
		OrderStatus:     models.StatusProcessing,
		TotalPrice:      decimal.Zero,
		CreatedAt:       s.now().UTC(),
	}
	for i, it := range cart.Items {
		order.Items[i] = models.OrderItem{
			Product:  it.Product.ID,
			Name:     it.Product.Name,
			Image:    it.Product.Image,
			Quantity: it.Quantity,
			Price:    it.Product.Price,
			Size:     it.Size,
			Color:    it.Color,
		}
		order.TotalPrice = order.TotalPrice.Add(order.Items[i].Subtotal())
		s.products[s.productIndex(it.Product.ID)].Stock -= it.Quantity
	}
	s.orders = append([]models.Order{order}, s.orders...)
	s.cartFor(userID).Items = nil
	reply(c, http.StatusCreated, order)
}

func (s *Server) myOrders(c *gin.Context) {
	userID := c.GetString(middlewares.ContextUserID)

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Order, 0)
	for _, o := range s.orders {
		if o.User.ID == userID {
			out = append(out, o)
		}
	}
	reply(c, http.StatusOK, out)
}

// allOrders joins the owner's name and email in, as the admin listing does.
func (s *Server) allOrders(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Order, len(s.orders))
	for i, o := range s.orders {
		out[i] = s.joinUser(o)
	}
	reply(c, http.StatusOK, out)
}

func (s *Server) getOrder(c *gin.Context) {
	userID := c.GetString(middlewares.ContextUserID)
	admin := c.GetString(middlewares.ContextRole) == string(models.RoleAdmin)

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.orderIndex(c.Param("id"))
	if i < 0 {
		fail(c, http.StatusNotFound, "Order not found")
		return
	}
	if !admin && s.orders[i].User.ID != userID {
		fail(c, http.StatusForbidden, "Not authorized to view this order")
		return
	}
	reply(c, http.StatusOK, s.orders[i])
}

func (s *Server) updateOrderStatus(c *gin.Context) {
	var update models.StatusUpdate
	if !bindForm(c, &update) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.orderIndex(c.Param("id"))
	if i < 0 {
		fail(c, http.StatusNotFound, "Order not found")
		return
	}
	from := s.orders[i].OrderStatus
	if !models.CanTransition(from, update.OrderStatus) {
		fail(c, http.StatusBadRequest, fmt.Sprintf("Cannot change order status from %s to %s", from, update.OrderStatus))
		return
	}
	s.orders[i].OrderStatus = update.OrderStatus
	if update.OrderStatus == models.StatusDelivered && s.orders[i].PaymentMethod == models.PaymentCOD {
		s.orders[i].PaymentStatus = models.PaymentPaid
	}
	reply(c, http.StatusOK, s.joinUser(s.orders[i]))
}

// orderIndex is -1 when id is unknown. Callers hold mu.
func (s *Server) orderIndex(id string) int {
	for i, o := range s.orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) joinUser(o models.Order) models.Order {
	if acct, found := s.accounts[o.User.ID]; found {
		o.User = models.UserRef{ID: acct.user.ID, Name: acct.user.Name, Email: acct.user.Email}
	}
	return o
}
