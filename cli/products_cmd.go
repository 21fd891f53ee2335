package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dooddles07/cyaadnu-frontend/models"
	"github.com/dooddles07/cyaadnu-frontend/views"
)

var (
	search       string
	categoryName string
	featuredOnly bool
	width        int
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Browse the catalogue",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products, optionally filtered by name and category",
	Long: `Lists the catalogue. --search matches product names case-insensitively and
--category limits the list to one category (Apparel, Accessories,
Merchandise, Books, Others, or All).`,
	Args: cobra.NoArgs,
	RunE: runProductsList,
}

var productsShowCmd = &cobra.Command{
	Use:   "show [product-id]",
	Short: "Show one product",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductsShow,
}

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "Show every product image",
	Args:  cobra.NoArgs,
	RunE:  runGallery,
}

func init() {
	productsListCmd.Flags().StringVarP(&search, "search", "s", "", "Name contains (case-insensitive)")
	productsListCmd.Flags().StringVar(&categoryName, "category", "", "Category")
	productsListCmd.Flags().BoolVar(&featuredOnly, "featured", false, "Only the home page's featured products")
	productsShowCmd.Flags().IntVar(&width, "width", 80, "Wrap the description at this width")
	productsCmd.AddCommand(productsListCmd, productsShowCmd)
}

func parseCategory(s string) (models.Category, error) {
	c, ok := models.ParseCategory(s)
	if !ok {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

func runProductsList(cmd *cobra.Command, args []string) error {
	category, err := parseCategory(categoryName)
	if err != nil {
		return err
	}
	return withSession(cmd.Context(), "/products", func(s *session) error {
		products, err := s.pages.LoadProducts(cmd.Context(), models.ProductQuery{})
		if err != nil {
			return fmt.Errorf("%s", views.Failure(err, "Failed to load products").Text)
		}
		products = views.FilterProducts(products, search, category)
		if featuredOnly {
			products = views.Featured(products, views.HomeFeaturedCount)
		}
		cmd.Println(views.ProductList(products))
		return nil
	})
}

func runProductsShow(cmd *cobra.Command, args []string) error {
	return withSession(cmd.Context(), "/products/"+args[0], func(s *session) error {
		if err := s.store.Products.Get(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("%s", views.Failure(err, "Product not found").Text)
		}
		out, err := views.ProductDetail(*s.store.Products.State().Current.Data, width)
		if err != nil {
			return err
		}
		cmd.Println(out)
		return nil
	})
}

func runGallery(cmd *cobra.Command, args []string) error {
	return withSession(cmd.Context(), "/gallery", func(s *session) error {
		products, err := s.pages.LoadProducts(cmd.Context(), models.ProductQuery{})
		if err != nil {
			return fmt.Errorf("%s", views.Failure(err, "Failed to load products").Text)
		}
		cmd.Println(views.GalleryView(products))
		return nil
	})
}
