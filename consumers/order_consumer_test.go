package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dooddles07/cyaadnu-frontend/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type acks struct {
	mu     sync.Mutex
	acked  []uint64
	nacked []uint64
}

func (a *acks) Ack(tag uint64, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acked = append(a.acked, tag)
	return nil
}

func (a *acks) Nack(tag uint64, _ bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if requeue {
		return errors.New("unexpected requeue")
	}
	a.nacked = append(a.nacked, tag)
	return nil
}

func (a *acks) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

type refresher struct {
	calls int
	err   error
	panic bool
}

func (r *refresher) RefreshOrders(context.Context) error {
	r.calls++
	if r.panic {
		panic("boom")
	}
	return r.err
}

func event(t *testing.T, e models.OrderEvent) []byte {
	t.Helper()
	b, err := json.Marshal(e)
	require.NoError(t, err)
	return b
}

func deliver(a *acks, bodies ...[]byte) <-chan amqp.Delivery {
	ch := make(chan amqp.Delivery, len(bodies))
	for i, b := range bodies {
		ch <- amqp.Delivery{Acknowledger: a, DeliveryTag: uint64(i + 1), Body: b}
	}
	close(ch)
	return ch
}

func TestRunAcksValidEventsAndDropsBadOnes(t *testing.T) {
	a := &acks{}
	r := &refresher{}
	var seen []string
	c := NewOrderConsumer(r, nil, OnEvent(func(e models.OrderEvent) { seen = append(seen, e.OrderID) }))

	msgs := deliver(a,
		event(t, models.OrderEvent{OrderID: "o1", Type: models.EventOrderCreated, Status: models.StatusProcessing}),
		[]byte("not json"),
		event(t, models.OrderEvent{OrderID: "o1", Type: "payment_check"}),
		event(t, models.OrderEvent{Type: models.EventOrderCreated}),
		event(t, models.OrderEvent{OrderID: "o2", Type: models.EventOrderStatusUpdated, Status: models.StatusCancelled}),
	)
	require.NoError(t, c.Run(context.Background(), msgs))

	assert.Equal(t, []uint64{1, 5}, a.acked)
	assert.Equal(t, []uint64{2, 3, 4}, a.nacked)
	assert.Equal(t, 2, r.calls)
	assert.Equal(t, []string{"o1", "o2"}, seen)
}

func TestRefreshFailureStillAcks(t *testing.T) {
	a := &acks{}
	c := NewOrderConsumer(&refresher{err: errors.New("offline")}, nil)
	msgs := deliver(a, event(t, models.OrderEvent{OrderID: "o1", Type: models.EventOrderCreated}))
	require.NoError(t, c.Run(context.Background(), msgs))
	assert.Equal(t, []uint64{1}, a.acked)
}

func TestPanicIsRecovered(t *testing.T) {
	a := &acks{}
	c := NewOrderConsumer(&refresher{panic: true}, nil)
	msgs := deliver(a,
		event(t, models.OrderEvent{OrderID: "o1", Type: models.EventOrderCreated}),
		event(t, models.OrderEvent{OrderID: "o2", Type: models.EventOrderCreated}),
	)
	require.NoError(t, c.Run(context.Background(), msgs))
	assert.Empty(t, a.acked)
	assert.Equal(t, []uint64{1, 2}, a.nacked)
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	msgs := make(chan amqp.Delivery)
	done := make(chan error, 1)
	go func() { done <- NewOrderConsumer(&refresher{}, nil).Run(ctx, msgs) }()
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
