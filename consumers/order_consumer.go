package consumers

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/dooddles07/cyaadnu-frontend/models"
)

// Refresher reloads the cached orders. *store.Store satisfies it.
type Refresher interface {
	RefreshOrders(ctx context.Context) error
}

type OrderConsumer struct {
	refresher Refresher
	logger    *zap.Logger
	onEvent   func(models.OrderEvent)
}

type Option func(*OrderConsumer)

// OnEvent is called for every valid event after the orders were refreshed.
func OnEvent(fn func(models.OrderEvent)) Option {
	return func(c *OrderConsumer) { c.onEvent = fn }
}

func NewOrderConsumer(r Refresher, logger *zap.Logger, opts ...Option) *OrderConsumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &OrderConsumer{refresher: r, logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run handles deliveries until ctx is done or msgs is closed.
func (c *OrderConsumer) Run(ctx context.Context, msgs <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			c.processOrderMessage(ctx, msg)
		}
	}
}

func (c *OrderConsumer) processOrderMessage(ctx context.Context, msg amqp.Delivery) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("recovered from panic in message processing", zap.Any("panic", r))
			c.nack(msg)
		}
	}()

	event, err := decode(msg.Body)
	if err != nil {
		c.logger.Warn("invalid order event", zap.ByteString("body", msg.Body), zap.Error(err))
		c.nack(msg)
		return
	}

	c.logger.Info("processing order event",
		zap.String("order", event.OrderID),
		zap.String("type", event.Type),
		zap.String("status", string(event.Status)))

	if err := c.refresher.RefreshOrders(ctx); err != nil {
		c.logger.Warn("refresh orders", zap.String("order", event.OrderID), zap.Error(err))
	}
	if c.onEvent != nil {
		c.onEvent(event)
	}

	if err := msg.Ack(false); err != nil {
		c.logger.Warn("ack order event", zap.Error(err))
	}
}

// nack rejects a message for good; a bad payload will not get better.
func (c *OrderConsumer) nack(msg amqp.Delivery) {
	if err := msg.Nack(false, false); err != nil {
		c.logger.Warn("nack order event", zap.Error(err))
	}
}

func decode(body []byte) (models.OrderEvent, error) {
	var e models.OrderEvent
	if err := json.Unmarshal(body, &e); err != nil {
		return e, fmt.Errorf("decode: %w", err)
	}
	if e.OrderID == "" {
		return e, fmt.Errorf("missing order id")
	}
	switch e.Type {
	case models.EventOrderCreated, models.EventOrderStatusUpdated:
	default:
		return e, fmt.Errorf("unknown event type %q", e.Type)
	}
	return e, nil
}
