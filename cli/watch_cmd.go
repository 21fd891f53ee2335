package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dooddles07/cyaadnu-frontend/consumers"
	"github.com/dooddles07/cyaadnu-frontend/models"
	"github.com/dooddles07/cyaadnu-frontend/views"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow order events and keep the order list current",
	Long: `Subscribes to the order event exchange (RABBITMQ_URL must be set) and
reloads your orders, or every order for administrators, whenever another
client places or updates one.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	if !cfg.EventsEnabled() {
		return errors.New("order events are not configured; set RABBITMQ_URL")
	}
	return withSession(cmd.Context(), "/orders", func(s *session) error {
		if s.bus == nil {
			return errors.New("order event bus unavailable")
		}
		if err := s.bus.SetupQueues(); err != nil {
			return err
		}
		msgs, err := s.bus.Deliveries("storefront-watch")
		if err != nil {
			return err
		}

		if err := s.store.RefreshOrders(cmd.Context()); err != nil {
			logger.Warn("initial order load", zap.Error(err))
		}
		cmd.Println(views.OrdersView(s.store.Orders.State().List.Data))

		consumer := consumers.NewOrderConsumer(s.store, logger, consumers.OnEvent(func(e models.OrderEvent) {
			cmd.Println(fmt.Sprintf("order #%s %s: %s", shortID(e.OrderID), e.Type, e.Status))
			cmd.Println(views.OrdersView(s.store.Orders.State().List.Data))
		}))
		logger.Info("watching order events", zap.String("queue", s.bus.Queue))
		if err := consumer.Run(cmd.Context(), msgs); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
}

func shortID(id string) string {
	return models.Order{ID: id}.ShortID()
}
