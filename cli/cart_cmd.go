package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dooddles07/cyaadnu-frontend/controllers"
	"github.com/dooddles07/cyaadnu-frontend/models"
	"github.com/dooddles07/cyaadnu-frontend/views"
)

var (
	quantity int
	size     string
	color    string
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show and edit your cart",
	Args:  cobra.NoArgs,
	RunE:  runCartShow,
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cart",
	Args:  cobra.NoArgs,
	RunE:  runCartShow,
}

var cartAddCmd = &cobra.Command{
	Use:   "add [product-id]",
	Short: "Add a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartAdd,
}

var cartQtyCmd = &cobra.Command{
	Use:   "qty [item-id] [quantity|+N|-N]",
	Short: "Set or step an item's quantity",
	Long: `Sets an item's quantity, bounded by 1 and the product's stock. A signed
value such as +1 or -2 steps from the current quantity instead.`,
	Args: cobra.ExactArgs(2),
	RunE: runCartQty,
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove [item-id]",
	Short: "Remove an item",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartRemove,
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	Args:  cobra.NoArgs,
	RunE:  runCartClear,
}

func init() {
	cartAddCmd.Flags().IntVarP(&quantity, "qty", "q", 1, "Quantity")
	cartAddCmd.Flags().StringVar(&size, "size", "", "Size")
	cartAddCmd.Flags().StringVar(&color, "color", "", "Color")
	cartCmd.AddCommand(cartShowCmd, cartAddCmd, cartQtyCmd, cartRemoveCmd, cartClearCmd)
}

// withCart opens a guarded cart session with the cart already fetched.
func withCart(cmd *cobra.Command, fn func(*session) error) error {
	return withSession(cmd.Context(), "/cart", func(s *session) error {
		if err := s.store.Cart.Fetch(cmd.Context()); err != nil {
			return fmt.Errorf("%s", views.Failure(err, "Failed to load cart").Text)
		}
		return fn(s)
	})
}

func printCart(cmd *cobra.Command, s *session) {
	cmd.Println(views.CartView(s.store.Cart.State().Cart.Data))
}

func runCartShow(cmd *cobra.Command, args []string) error {
	return withCart(cmd, func(s *session) error {
		printCart(cmd, s)
		return nil
	})
}

func runCartAdd(cmd *cobra.Command, args []string) error {
	return withCart(cmd, func(s *session) error {
		if err := s.store.Products.Get(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("%s", views.Failure(err, "Product not found").Text)
		}
		product := *s.store.Products.State().Current.Data
		form := models.AddToCartForm{Quantity: quantity, Size: size, Color: color}
		if err := report(cmd, s.pages.AddToCart(cmd.Context(), product, form)); err != nil {
			return err
		}
		printCart(cmd, s)
		return nil
	})
}

func runCartQty(cmd *cobra.Command, args []string) error {
	itemID, raw := args[0], args[1]
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid quantity %q", raw)
	}
	stepped := raw[0] == '+' || raw[0] == '-'

	return withCart(cmd, func(s *session) error {
		var res controllers.Result
		if stepped {
			res = s.pages.StepCartQuantity(cmd.Context(), itemID, n)
		} else {
			res = s.pages.SetCartQuantity(cmd.Context(), itemID, n)
		}
		if err := report(cmd, res); err != nil {
			return err
		}
		printCart(cmd, s)
		return nil
	})
}

func runCartRemove(cmd *cobra.Command, args []string) error {
	return withCart(cmd, func(s *session) error {
		if err := report(cmd, s.pages.RemoveCartItem(cmd.Context(), args[0])); err != nil {
			return err
		}
		printCart(cmd, s)
		return nil
	})
}

func runCartClear(cmd *cobra.Command, args []string) error {
	return withCart(cmd, func(s *session) error {
		return report(cmd, s.pages.ClearCart(cmd.Context()))
	})
}
