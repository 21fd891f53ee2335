package controllers

import (
	"context"

	"github.com/dooddles07/cyaadnu-frontend/models"
	"github.com/dooddles07/cyaadnu-frontend/views"
)

// AddToCart sends visitors without a session to the login page first.
func (p *Pages) AddToCart(ctx context.Context, product models.Product, form models.AddToCartForm) Result {
	if !p.store.Auth.State().Authenticated {
		return Result{
			Toast:    &views.Toast{Kind: views.ToastError, Text: "Please login to add items to cart"},
			Redirect: "/login",
		}
	}
	err := p.store.Cart.Add(ctx, product, form)
	return p.finish("add_to_cart", err, views.Success("Added to cart successfully!"), "", "Failed to add to cart")
}

// StepCartQuantity is the +/- control of a cart line.
func (p *Pages) StepCartQuantity(ctx context.Context, itemID string, delta int) Result {
	err := p.store.Cart.Step(ctx, itemID, delta)
	return p.finish("update_cart_quantity", err, nil, "", "Failed to update quantity")
}

func (p *Pages) SetCartQuantity(ctx context.Context, itemID string, quantity int) Result {
	err := p.store.Cart.SetQuantity(ctx, itemID, quantity)
	return p.finish("update_cart_quantity", err, nil, "", "Failed to update quantity")
}

func (p *Pages) RemoveCartItem(ctx context.Context, itemID string) Result {
	err := p.store.Cart.Remove(ctx, itemID)
	return p.finish("remove_cart_item", err, views.Success("Item removed from cart"), "", "Failed to remove item")
}

func (p *Pages) ClearCart(ctx context.Context) Result {
	err := p.store.Cart.Clear(ctx)
	return p.finish("clear_cart", err, views.Success("Cart cleared"), "", "Failed to clear cart")
}
