package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/dooddles07/cyaadnu-frontend/config"
	"github.com/dooddles07/cyaadnu-frontend/models"
)

// BindingKey matches every order event routing key.
const BindingKey = "order.#"

// Channel is the part of *amqp.Channel the bus uses.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

type RabbitMQ struct {
	Conn    *amqp.Connection
	Channel Channel
	Cfg     *config.Config
	Queue   string

	logger *zap.Logger
	now    func() time.Time
}

func NewRabbitMQ(cfg *config.Config, logger *zap.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("dial event bus: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	r := NewWithChannel(ch, cfg, logger)
	r.Conn = conn
	return r, nil
}

// NewWithChannel wraps an already open channel.
func NewWithChannel(ch Channel, cfg *config.Config, logger *zap.Logger) *RabbitMQ {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RabbitMQ{Channel: ch, Cfg: cfg, logger: logger, now: time.Now}
}

// SetupQueues declares the order event exchange and the queue this client
// listens on. Without a configured queue name the broker picks one and the
// queue goes away with the connection.
func (r *RabbitMQ) SetupQueues() error {
	if err := r.Channel.ExchangeDeclare(
		r.Cfg.OrderExchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("declare exchange %s: %w", r.Cfg.OrderExchange, err)
	}

	named := r.Cfg.OrderQueue != ""
	q, err := r.Channel.QueueDeclare(
		r.Cfg.OrderQueue,
		named,  // durable
		!named, // auto-delete
		!named, // exclusive
		false,  // no-wait
		amqp.Table{"x-max-priority": r.Cfg.MaxPriority},
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	r.Queue = q.Name

	if err := r.Channel.QueueBind(q.Name, BindingKey, r.Cfg.OrderExchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", q.Name, err)
	}
	return nil
}

// Priority ranks cancellations above every other order event.
func Priority(e models.OrderEvent) uint8 {
	if e.Status == models.StatusCancelled {
		return 8
	}
	return 5
}

func RoutingKey(e models.OrderEvent) string {
	return "order." + e.Type
}

func (r *RabbitMQ) PublishOrderEvent(ctx context.Context, e models.OrderEvent) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}

	msg := amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    r.now(),
		ContentType:  "application/json",
		Body:         body,
		Priority:     Priority(e),
	}

	if err := r.Channel.PublishWithContext(ctx,
		r.Cfg.OrderExchange,
		RoutingKey(e),
		false, // mandatory
		false, // immediate
		msg,
	); err != nil {
		return fmt.Errorf("publish %s: %w", RoutingKey(e), err)
	}
	r.logger.Debug("order event published", zap.String("order", e.OrderID), zap.String("type", e.Type))
	return nil
}

// Deliveries starts consuming the bound queue.
func (r *RabbitMQ) Deliveries(tag string) (<-chan amqp.Delivery, error) {
	msgs, err := r.Channel.Consume(
		r.Queue,
		tag,
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("consume %s: %w", r.Queue, err)
	}
	return msgs, nil
}

func (r *RabbitMQ) Close() {
	if r.Channel != nil {
		if err := r.Channel.Close(); err != nil {
			r.logger.Debug("close channel", zap.Error(err))
		}
	}
	if r.Conn != nil {
		if err := r.Conn.Close(); err != nil {
			r.logger.Debug("close connection", zap.Error(err))
		}
	}
}
