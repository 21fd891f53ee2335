package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/dooddles07/cyaadnu-frontend/models"
	"github.com/dooddles07/cyaadnu-frontend/views"
)

var (
	productName  string
	description  string
	price        string
	stock        int
	featured     bool
	image        string
	extraImages  []string
	sizes        []string
	colors       []string
	statusFilter string
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrator dashboards",
}

var adminDashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Product and order counts",
	Args:  cobra.NoArgs,
	RunE:  runAdminDashboard,
}

var adminProductsCmd = &cobra.Command{
	Use:   "products",
	Short: "Manage the catalogue",
	Args:  cobra.NoArgs,
	RunE:  runAdminProductsList,
}

var adminProductsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a product",
	Args:  cobra.NoArgs,
	RunE:  runAdminProductsSave,
}

var adminProductsUpdateCmd = &cobra.Command{
	Use:   "update [product-id]",
	Short: "Update a product; unset flags keep their current value",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminProductsSave,
}

var adminProductsDeleteCmd = &cobra.Command{
	Use:   "delete [product-id]",
	Short: "Delete a product",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminProductsDelete,
}

var adminOrdersCmd = &cobra.Command{
	Use:   "orders",
	Short: "All customer orders",
	Args:  cobra.NoArgs,
	RunE:  runAdminOrders,
}

var adminStatusCmd = &cobra.Command{
	Use:   "status [order-id] [status]",
	Short: "Move an order to a new status",
	Long: `Moves an order along Processing -> Confirmed -> Shipped -> Delivered.
Processing and Confirmed orders may also be Cancelled.`,
	Args: cobra.ExactArgs(2),
	RunE: runAdminStatus,
}

func init() {
	for _, c := range []*cobra.Command{adminProductsCreateCmd, adminProductsUpdateCmd} {
		f := c.Flags()
		f.StringVar(&productName, "name", "", "Product name")
		f.StringVar(&description, "description", "", "Description (markdown)")
		f.StringVar(&price, "price", "", "Price in pesos, e.g. 450.00")
		f.StringVar(&categoryName, "category", "", "Category")
		f.IntVar(&stock, "stock", 0, "Units in stock")
		f.BoolVar(&featured, "featured", false, "Show on the home page")
		f.StringVar(&image, "image", "", "Primary image URL")
		f.StringSliceVar(&extraImages, "images", nil, "Additional image URLs")
		f.StringSliceVar(&sizes, "sizes", nil, "Available sizes")
		f.StringSliceVar(&colors, "colors", nil, "Available colors")
	}
	for _, flag := range []string{"name", "description", "price", "category"} {
		_ = adminProductsCreateCmd.MarkFlagRequired(flag)
	}
	adminOrdersCmd.Flags().StringVar(&statusFilter, "status", "", "Only orders in this status")

	adminProductsCmd.AddCommand(adminProductsCreateCmd, adminProductsUpdateCmd, adminProductsDeleteCmd)
	adminCmd.AddCommand(adminDashboardCmd, adminProductsCmd, adminOrdersCmd, adminStatusCmd)
}

func runAdminDashboard(cmd *cobra.Command, args []string) error {
	return withSession(cmd.Context(), "/admin", func(s *session) error {
		st, err := s.pages.LoadDashboard(cmd.Context())
		if err != nil {
			return fmt.Errorf("%s", views.Failure(err, "Failed to load dashboard").Text)
		}
		cmd.Println(views.DashboardView(st))
		return nil
	})
}

func runAdminProductsList(cmd *cobra.Command, args []string) error {
	return withSession(cmd.Context(), "/admin/products", func(s *session) error {
		products, err := s.pages.LoadProducts(cmd.Context(), models.ProductQuery{})
		if err != nil {
			return fmt.Errorf("%s", views.Failure(err, "Failed to load products").Text)
		}
		cmd.Println(views.ProductList(products))
		return nil
	})
}

// productForm stages the form the way the product modal does: an update
// starts from the current product, a create from blank.
func productForm(cmd *cobra.Command, current *models.Product) (models.ProductForm, error) {
	var form models.ProductForm
	if current != nil {
		form = models.ProductFormFor(*current)
	}
	f := cmd.Flags()
	if f.Changed("name") {
		form.Name = productName
	}
	if f.Changed("description") {
		form.Description = description
	}
	if f.Changed("price") {
		d, err := decimal.NewFromString(price)
		if err != nil {
			return form, fmt.Errorf("invalid price %q", price)
		}
		form.Price = d
	}
	if f.Changed("category") {
		c, err := parseCategory(categoryName)
		if err != nil {
			return form, err
		}
		form.Category = c
	}
	if f.Changed("stock") {
		form.Stock = stock
	}
	if f.Changed("featured") {
		form.Featured = featured
	}
	if f.Changed("image") {
		form.Image = image
	}
	if f.Changed("images") {
		form.Images = extraImages
	}
	if f.Changed("sizes") {
		form.Sizes = sizes
	}
	if f.Changed("colors") {
		form.Colors = colors
	}
	return form, nil
}

func runAdminProductsSave(cmd *cobra.Command, args []string) error {
	return withSession(cmd.Context(), "/admin/products", func(s *session) error {
		var id string
		var current *models.Product
		if len(args) == 1 {
			id = args[0]
			if err := s.store.Products.Get(cmd.Context(), id); err != nil {
				return fmt.Errorf("%s", views.Failure(err, "Product not found").Text)
			}
			current = s.store.Products.State().Current.Data
		}
		form, err := productForm(cmd, current)
		if err != nil {
			return err
		}
		return report(cmd, s.pages.SaveProduct(cmd.Context(), id, form))
	})
}

func runAdminProductsDelete(cmd *cobra.Command, args []string) error {
	return withSession(cmd.Context(), "/admin/products", func(s *session) error {
		return report(cmd, s.pages.DeleteProduct(cmd.Context(), args[0]))
	})
}

func runAdminOrders(cmd *cobra.Command, args []string) error {
	var only models.OrderStatus
	if statusFilter != "" {
		st, ok := matchFold(statusFilter, models.OrderStatuses)
		if !ok {
			return fmt.Errorf("unknown order status %q", statusFilter)
		}
		only = st
	}
	return withSession(cmd.Context(), "/admin/orders", func(s *session) error {
		if err := s.store.Orders.All(cmd.Context()); err != nil {
			return fmt.Errorf("%s", views.Failure(err, "Failed to load orders").Text)
		}
		orders := s.store.Orders.State().List.Data
		if only != "" {
			kept := orders[:0]
			for _, o := range orders {
				if o.OrderStatus == only {
					kept = append(kept, o)
				}
			}
			orders = kept
		}
		cmd.Println(views.OrdersView(orders))
		return nil
	})
}

func runAdminStatus(cmd *cobra.Command, args []string) error {
	status, ok := matchFold(args[1], models.OrderStatuses)
	if !ok {
		return fmt.Errorf("unknown order status %q", args[1])
	}
	return withSession(cmd.Context(), "/admin/orders", func(s *session) error {
		if err := s.store.Orders.All(cmd.Context()); err != nil {
			return fmt.Errorf("%s", views.Failure(err, "Failed to load orders").Text)
		}
		if o, found := s.store.Orders.State().Find(args[0]); found && !models.CanTransition(o.OrderStatus, status) {
			return fmt.Errorf("cannot move order from %s to %s; allowed: %v", o.OrderStatus, status, views.NextStatuses(o.OrderStatus))
		}
		if err := report(cmd, s.pages.UpdateOrderStatus(cmd.Context(), args[0], status)); err != nil {
			return err
		}
		if o, found := s.store.Orders.State().Find(args[0]); found {
			cmd.Println(views.OrdersView([]models.Order{o}))
		}
		return nil
	})
}
