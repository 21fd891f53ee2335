package controllers

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dooddles07/cyaadnu-frontend/models"
	"github.com/dooddles07/cyaadnu-frontend/views"
)

// Checkout places the order and then pulls the cart again, since the
// server empties it once the order exists.
func (p *Pages) Checkout(ctx context.Context, form models.CheckoutForm) Result {
	if to := views.CheckoutRedirect(p.store.Cart.State().Cart.Data); to != "" {
		return Result{Redirect: to}
	}
	order, err := p.store.Orders.Create(ctx, form)
	res := p.finish("checkout", err, views.Success("Order placed successfully!"), "/orders", "Failed to create order")
	if err != nil {
		return res
	}
	if err := p.store.Cart.Fetch(ctx); err != nil {
		p.logger.Warn("refresh cart after checkout", zap.String("order", order.ID), zap.Error(err))
	}
	return res
}

// LoadOrders fills the orders page: everything for admins, the caller's
// own orders otherwise.
func (p *Pages) LoadOrders(ctx context.Context) Result {
	err := p.store.Orders.Refresh(ctx)
	return p.finish("load_orders", err, nil, "", "Failed to load orders")
}

func (p *Pages) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) Result {
	_, err := p.store.Orders.UpdateStatus(ctx, id, status)
	return p.finish("update_order_status", err, views.Success("Order status updated!"), "", "Failed to update status")
}

// LoadDashboard fetches products and all orders side by side and counts
// them for the admin overview.
func (p *Pages) LoadDashboard(ctx context.Context) (views.Stats, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := p.store.Products.List(gctx, models.ProductQuery{}); err != nil {
			return fmt.Errorf("products: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := p.store.Orders.All(gctx); err != nil {
			return fmt.Errorf("orders: %w", err)
		}
		return nil
	})
	err := g.Wait()
	p.finish("load_dashboard", err, nil, "", "")
	if err != nil {
		return views.Stats{}, err
	}
	return views.DashboardStats(p.store.Products.State().List.Data, p.store.Orders.State().List.Data), nil
}
