package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCOD        PaymentMethod = "Cash on Delivery"
	PaymentGCash      PaymentMethod = "GCash"
	PaymentCreditCard PaymentMethod = "Credit Card"
)

var PaymentMethods = []PaymentMethod{PaymentCOD, PaymentGCash, PaymentCreditCard}

func (m PaymentMethod) Valid() bool {
	for _, known := range PaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
	PaymentFailed  PaymentStatus = "Failed"
)

type OrderStatus string

const (
	StatusProcessing OrderStatus = "Processing"
	StatusConfirmed  OrderStatus = "Confirmed"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

var OrderStatuses = []OrderStatus{
	StatusProcessing,
	StatusConfirmed,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

var transitions = map[OrderStatus][]OrderStatus{
	StatusProcessing: {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether an order may move from one status to the
// other. Unknown statuses never transition.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// UserRef is the order owner. Customer endpoints send a bare id, the admin
// listing joins the user record in.
type UserRef struct {
	ID    string
	Name  string
	Email string
}

type userRefObject struct {
	ID    string `json:"_id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func (u *UserRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*u = UserRef{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var id string
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		*u = UserRef{ID: id}
		return nil
	}
	var obj userRefObject
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	*u = UserRef(obj)
	return nil
}

func (u UserRef) MarshalJSON() ([]byte, error) {
	if u.Name == "" && u.Email == "" {
		return json.Marshal(u.ID)
	}
	return json.Marshal(userRefObject(u))
}

type OrderItem struct {
	Product  string          `json:"product"`
	Name     string          `json:"name"`
	Image    string          `json:"image,omitempty"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Size     string          `json:"size,omitempty"`
	Color    string          `json:"color,omitempty"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	ID              string          `json:"_id"`
	User            UserRef         `json:"user"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress Address         `json:"shippingAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	OrderStatus     OrderStatus     `json:"orderStatus"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ShortID is the last eight characters of the id, as shown in listings.
func (o Order) ShortID() string {
	if len(o.ID) <= 8 {
		return o.ID
	}
	return o.ID[len(o.ID)-8:]
}

// OrderEvent travels over the order event exchange.
type OrderEvent struct {
	OrderID  string      `json:"order_id"`
	UserID   string      `json:"user_id"`
	Type     string      `json:"type"` // created, status_updated
	Status   OrderStatus `json:"status"`
	Total    string      `json:"total"`
	Occurred time.Time   `json:"occurred"`
}

const (
	EventOrderCreated       = "created"
	EventOrderStatusUpdated = "status_updated"
)

func NewOrderEvent(eventType string, o Order) OrderEvent {
	return OrderEvent{
		OrderID:  o.ID,
		UserID:   o.User.ID,
		Type:     eventType,
		Status:   o.OrderStatus,
		Total:    o.TotalPrice.StringFixed(2),
		Occurred: time.Now().UTC(),
	}
}

func (o Order) Clone() Order {
	o.Items = append([]OrderItem(nil), o.Items...)
	return o
}
