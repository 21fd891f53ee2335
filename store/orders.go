package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/dooddles07/cyaadnu-frontend/middlewares"
	"github.com/dooddles07/cyaadnu-frontend/models"
)

const sliceOrders = "orders"

type OrderState struct {
	List    Resource[[]models.Order]
	Current Resource[*models.Order]
}

func (o OrderState) Loading() bool {
	return o.List.Loading() || o.Current.Loading()
}

// Find looks an order up in the cached list.
func (o OrderState) Find(id string) (models.Order, bool) {
	for _, order := range o.List.Data {
		if order.ID == id {
			return order, true
		}
	}
	return models.Order{}, false
}

type OrderSlice struct {
	s  *Store
	mu sync.Mutex

	list    region[[]models.Order]
	current region[*models.Order]
}

func (o *OrderSlice) State() OrderState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return OrderState{
		List:    o.list.snapshot(cloneOrders),
		Current: o.current.snapshot(cloneOrder),
	}
}

// Create places an order from the server-side cart and puts it at the
// front of the cached list.
func (o *OrderSlice) Create(ctx context.Context, form models.CheckoutForm) (models.Order, error) {
	if err := models.Validate(form); err != nil {
		return models.Order{}, err
	}
	token, err := o.s.token()
	if err != nil {
		return models.Order{}, err
	}
	order, err := run(ctx, o.s, &o.mu, &o.list, step[[]models.Order, models.Order]{
		slice: sliceOrders,
		op:    "create",
		call: func(ctx context.Context) (models.Order, error) {
			return o.s.backend.CreateOrder(ctx, token, form.Request())
		},
		fold: func(data *[]models.Order, order models.Order) {
			*data = append([]models.Order{order}, *data...)
		},
	})
	if err != nil {
		return order, err
	}
	o.s.notify(ctx, models.EventOrderCreated, order)
	return order, nil
}

// Mine loads the caller's own orders.
func (o *OrderSlice) Mine(ctx context.Context) error {
	return o.load(ctx, "mine", o.s.backend.MyOrders)
}

// All loads every order. Admin only on the server side.
func (o *OrderSlice) All(ctx context.Context) error {
	return o.load(ctx, "all", o.s.backend.AllOrders)
}

func (o *OrderSlice) load(ctx context.Context, op string, call func(context.Context, string) ([]models.Order, error)) error {
	token, err := o.s.token()
	if err != nil {
		return err
	}
	_, err = run(ctx, o.s, &o.mu, &o.list, step[[]models.Order, []models.Order]{
		slice:   sliceOrders,
		op:      op,
		replace: true,
		call: func(ctx context.Context) ([]models.Order, error) {
			return call(ctx, token)
		},
		fold: func(data *[]models.Order, orders []models.Order) {
			*data = orders
		},
	})
	return err
}

func (o *OrderSlice) Get(ctx context.Context, id string) error {
	token, err := o.s.token()
	if err != nil {
		return err
	}
	_, err = run(ctx, o.s, &o.mu, &o.current, step[*models.Order, *models.Order]{
		slice:   sliceOrders,
		op:      "get",
		replace: true,
		call: func(ctx context.Context) (*models.Order, error) {
			return o.s.backend.GetOrder(ctx, token, id)
		},
		fold: func(data **models.Order, order *models.Order) {
			*data = order
		},
	})
	return err
}

// UpdateStatus moves one order to status and replaces it in place in the
// cached list; every other cached order is left untouched. A transition
// the state machine forbids is refused locally when the order is cached.
func (o *OrderSlice) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error) {
	update := models.StatusUpdate{OrderStatus: status}
	if err := models.Validate(update); err != nil {
		return models.Order{}, err
	}
	if cached, ok := o.State().Find(id); ok && !models.CanTransition(cached.OrderStatus, status) {
		return models.Order{}, models.NewValidationError("orderStatus", "transition")
	}
	token, err := o.s.token()
	if err != nil {
		return models.Order{}, err
	}
	order, err := run(ctx, o.s, &o.mu, &o.list, step[[]models.Order, models.Order]{
		slice: sliceOrders,
		op:    "update_status",
		call: func(ctx context.Context) (models.Order, error) {
			return o.s.backend.UpdateOrderStatus(ctx, token, id, update)
		},
		fold: func(data *[]models.Order, order models.Order) {
			if cur := o.current.res.Data; cur != nil && cur.ID == order.ID {
				updated := order
				o.current.res.Data = &updated
			}
			for i := range *data {
				if (*data)[i].ID == order.ID {
					(*data)[i] = order
					return
				}
			}
			o.s.logger.Warn("updated order is not in the cached list",
				zap.String("order", order.ID))
			middlewares.RecordSliceOperation(sliceOrders, "update_status", middlewares.OutcomeMiss)
		},
	})
	if err != nil {
		return order, err
	}
	o.s.notify(ctx, models.EventOrderStatusUpdated, order)
	return order, nil
}

// Refresh reloads the orders the current session may see: every order for
// an admin, the caller's own otherwise. Without a session it does nothing.
func (o *OrderSlice) Refresh(ctx context.Context) error {
	auth := o.s.Auth.State()
	switch {
	case !auth.Authenticated:
		return nil
	case auth.IsAdmin():
		return o.All(ctx)
	default:
		return o.Mine(ctx)
	}
}

func (o *OrderSlice) reset() {
	o.mu.Lock()
	o.list.reset()
	o.current.reset()
	status := o.list.res.Status
	o.mu.Unlock()
	o.s.emit(Change{Slice: sliceOrders, Operation: "reset", Status: status})
}

func cloneOrders(in []models.Order) []models.Order {
	if in == nil {
		return nil
	}
	out := make([]models.Order, len(in))
	for i, order := range in {
		out[i] = order.Clone()
	}
	return out
}

func cloneOrder(in *models.Order) *models.Order {
	if in == nil {
		return nil
	}
	out := in.Clone()
	return &out
}
