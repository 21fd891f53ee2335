package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dooddles07/cyaadnu-frontend/models"
	"github.com/dooddles07/cyaadnu-frontend/views"
)

var payment string

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Place an order for everything in the cart",
	Long: `Places an order for the current cart. The shipping address defaults to the
one on your profile; flags override it field by field.`,
	Args: cobra.NoArgs,
	RunE: runCheckout,
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Show your orders",
	Args:  cobra.NoArgs,
	RunE:  runOrders,
}

func init() {
	addressFlags(checkoutCmd)
	checkoutCmd.Flags().StringVar(&payment, "payment", string(models.PaymentCOD), "Cash on Delivery, GCash or Credit Card")
}

// matchFold finds s among known ignoring case.
func matchFold[T ~string](s string, known []T) (T, bool) {
	for _, k := range known {
		if strings.EqualFold(string(k), strings.TrimSpace(s)) {
			return k, true
		}
	}
	var zero T
	return zero, false
}

func checkoutForm(cmd *cobra.Command, u *models.User) (models.CheckoutForm, error) {
	form := models.NewCheckoutForm()
	if u != nil && u.Address != nil {
		a := u.Address
		form.Street, form.City, form.State, form.ZipCode = a.Street, a.City, a.State, a.ZipCode
		if a.Country != "" {
			form.Country = a.Country
		}
	}
	for flag, dst := range map[string]*string{
		"street": &form.Street, "city": &form.City, "state": &form.State,
		"zip": &form.ZipCode, "country": &form.Country,
	} {
		if cmd.Flags().Changed(flag) {
			*dst, _ = cmd.Flags().GetString(flag)
		}
	}
	method, ok := matchFold(payment, models.PaymentMethods)
	if !ok {
		return form, fmt.Errorf("unknown payment method %q", payment)
	}
	form.PaymentMethod = method
	return form, nil
}

func runCheckout(cmd *cobra.Command, args []string) error {
	return withSession(cmd.Context(), "/checkout", func(s *session) error {
		form, err := checkoutForm(cmd, s.store.Auth.State().User.Data)
		if err != nil {
			return err
		}
		if err := s.store.Cart.Fetch(cmd.Context()); err != nil {
			return fmt.Errorf("%s", views.Failure(err, "Failed to load cart").Text)
		}
		if views.CheckoutRedirect(s.store.Cart.State().Cart.Data) != "" {
			return errors.New("your cart is empty")
		}
		if err := models.Validate(form); err != nil {
			return fmt.Errorf("shipping address incomplete: %w", err)
		}

		res := s.pages.Checkout(cmd.Context(), form)
		if err := report(cmd, res); err != nil {
			return err
		}
		if orders := s.store.Orders.State().List.Data; len(orders) > 0 {
			cmd.Println(views.OrdersView(orders[:1]))
		}
		return nil
	})
}

func runOrders(cmd *cobra.Command, args []string) error {
	return withSession(cmd.Context(), "/orders", func(s *session) error {
		if err := report(cmd, s.pages.LoadOrders(cmd.Context())); err != nil {
			return err
		}
		cmd.Println(views.OrdersView(s.store.Orders.State().List.Data))
		return nil
	})
}
