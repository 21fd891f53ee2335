package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterForm struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password" validate:"required,min=6"`
}

type ProfileForm struct {
	Name    string   `json:"name" validate:"required"`
	Email   string   `json:"email" validate:"required,email"`
	Phone   string   `json:"phone"`
	Address *Address `json:"address,omitempty"`
}

// ProfileFormFor stages the editable copy of a user. Country defaults to
// the storefront's home market.
func ProfileFormFor(u *User) ProfileForm {
	f := ProfileForm{Address: &Address{Country: DefaultCountry}}
	if u == nil {
		return f
	}
	f.Name, f.Email, f.Phone = u.Name, u.Email, u.Phone
	if u.Address != nil {
		addr := *u.Address
		if addr.Country == "" {
			addr.Country = DefaultCountry
		}
		f.Address = &addr
	}
	return f
}

const DefaultCountry = "Philippines"

type ProductForm struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Category    Category        `json:"category" validate:"required,category"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Featured    bool            `json:"featured"`
	Image       string          `json:"image"`
	Images      []string        `json:"images,omitempty"`
	Sizes       []string        `json:"sizes,omitempty"`
	Colors      []string        `json:"colors,omitempty"`
}

// ProductFormFor stages an existing product for editing.
func ProductFormFor(p Product) ProductForm {
	return ProductForm{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Stock:       p.Stock,
		Featured:    p.Featured,
		Image:       p.Image,
		Images:      append([]string(nil), p.Images...),
		Sizes:       append([]string(nil), p.Sizes...),
		Colors:      append([]string(nil), p.Colors...),
	}
}

type AddToCartForm struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

// CheckoutForm is the staged shipping address and payment choice.
type CheckoutForm struct {
	Street        string        `json:"-" validate:"required"`
	City          string        `json:"-" validate:"required"`
	State         string        `json:"-" validate:"required"`
	ZipCode       string        `json:"-" validate:"required"`
	Country       string        `json:"-" validate:"required"`
	PaymentMethod PaymentMethod `json:"-" validate:"required,payment_method"`
}

func NewCheckoutForm() CheckoutForm {
	return CheckoutForm{Country: DefaultCountry, PaymentMethod: PaymentCOD}
}

type CreateOrderRequest struct {
	ShippingAddress Address       `json:"shippingAddress"`
	PaymentMethod   PaymentMethod `json:"paymentMethod"`
}

func (f CheckoutForm) Request() CreateOrderRequest {
	return CreateOrderRequest{
		ShippingAddress: Address{
			Street:  strings.TrimSpace(f.Street),
			City:    strings.TrimSpace(f.City),
			State:   strings.TrimSpace(f.State),
			ZipCode: strings.TrimSpace(f.ZipCode),
			Country: strings.TrimSpace(f.Country),
		},
		PaymentMethod: f.PaymentMethod,
	}
}

type StatusUpdate struct {
	OrderStatus OrderStatus `json:"orderStatus" validate:"required,order_status"`
}
