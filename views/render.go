package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/dooddles07/cyaadnu-frontend/models"
)

var (
	primary = lipgloss.Color("#7C3AED")
	muted   = lipgloss.Color("#6B7280")
	green   = lipgloss.Color("#10B981")
	red     = lipgloss.Color("#EF4444")
	amber   = lipgloss.Color("#F59E0B")

	titleStyle   = lipgloss.NewStyle().Foreground(primary).Bold(true)
	headerStyle  = lipgloss.NewStyle().Background(primary).Foreground(lipgloss.Color("#FFFFFF")).Bold(true).Padding(0, 1)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	priceStyle   = lipgloss.NewStyle().Bold(true)
	inStock      = lipgloss.NewStyle().Foreground(green)
	outOfStock   = lipgloss.NewStyle().Foreground(red)
	badgeStyle   = lipgloss.NewStyle().Foreground(amber).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(green).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(red).Bold(true)
	cardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1)
)

var statusColors = map[models.OrderStatus]lipgloss.Color{
	models.StatusProcessing: amber,
	models.StatusConfirmed:  primary,
	models.StatusShipped:    lipgloss.Color("#3B82F6"),
	models.StatusDelivered:  green,
	models.StatusCancelled:  red,
}

func stockLabel(p models.Product) string {
	if CanAddToCart(p) {
		return inStock.Render(StockLabel(p))
	}
	return outOfStock.Render(StockLabel(p))
}

func rating(p models.Product) string {
	return fmt.Sprintf("★ %.1f (%d reviews)", p.Rating, p.NumReviews)
}

// ProductLine is one row of a product listing.
func ProductLine(p models.Product) string {
	parts := []string{
		titleStyle.Render(p.Name),
		priceStyle.Render(FormatPrice(p.Price)),
		mutedStyle.Render(string(p.Category)),
		stockLabel(p),
	}
	if p.Featured {
		parts = append(parts, badgeStyle.Render("Featured"))
	}
	if !CanAddToCart(p) {
		parts = append(parts, outOfStock.Render("Sold Out"))
	}
	return strings.Join(parts, "  ")
}

func ProductList(products []models.Product) string {
	if len(products) == 0 {
		return mutedStyle.Render("No products found. Try adjusting your search or filter criteria.")
	}
	lines := make([]string, len(products))
	for i, p := range products {
		lines[i] = fmt.Sprintf("%s  %s", mutedStyle.Render(p.ID), ProductLine(p))
	}
	return strings.Join(lines, "\n")
}

// ProductDetail renders the product page. The description is markdown.
func ProductDetail(p models.Product, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	description, err := renderer.Render(p.Description)
	if err != nil {
		return "", fmt.Errorf("render description: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(p.Name) + "\n")
	sb.WriteString(mutedStyle.Render(string(p.Category)+"  "+rating(p)) + "\n\n")
	sb.WriteString(priceStyle.Render(FormatPrice(p.Price)) + "  " + stockLabel(p) + "\n")
	sb.WriteString(description)
	if len(p.Sizes) > 0 {
		sb.WriteString("Sizes:  " + strings.Join(p.Sizes, ", ") + "\n")
	}
	if len(p.Colors) > 0 {
		sb.WriteString("Colors: " + strings.Join(p.Colors, ", ") + "\n")
	}
	if images := p.Gallery(); len(images) > 0 {
		sb.WriteString(mutedStyle.Render(fmt.Sprintf("Images (%d): %s", len(images), strings.Join(images, " "))) + "\n")
	}
	sb.WriteString("[" + AddToCartLabel(p) + "]\n")
	return sb.String(), nil
}

// GalleryView lists every image of every product with its price.
func GalleryView(products []models.Product) string {
	var sb strings.Builder
	for _, p := range products {
		for _, img := range p.Gallery() {
			fmt.Fprintf(&sb, "%s  %s  %s\n", titleStyle.Render(p.Name), priceStyle.Render(FormatPrice(p.Price)), mutedStyle.Render(img))
		}
	}
	if sb.Len() == 0 {
		return mutedStyle.Render("No images found.")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func CartView(cart *models.Cart) string {
	if cart.Empty() {
		return mutedStyle.Render("Your cart is empty.")
	}
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Shopping Cart") + "\n\n")
	for _, it := range cart.Items {
		st := CartStepper(it)
		minus, plus := "-", "+"
		if !st.CanDecrement() {
			minus = mutedStyle.Render("-")
		}
		if !st.CanIncrement() {
			plus = mutedStyle.Render("+")
		}
		options := strings.TrimSpace(strings.Join([]string{it.Size, it.Color}, " "))
		fmt.Fprintf(&sb, "%s  %s  %s  [%s %d %s]  %s",
			mutedStyle.Render(it.ID),
			titleStyle.Render(it.Product.Name),
			FormatPrice(it.Product.Price),
			minus, it.Quantity, plus,
			priceStyle.Render(FormatPrice(it.Subtotal())))
		if options != "" {
			sb.WriteString("  " + mutedStyle.Render(options))
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "\nItems: %d\nTotal: %s", cart.ItemCount(), priceStyle.Render(FormatPrice(cart.TotalPrice)))
	return sb.String()
}

func statusBadge(s models.OrderStatus) string {
	return lipgloss.NewStyle().Foreground(statusColors[s]).Bold(true).Render(string(s))
}

func OrdersView(orders []models.Order) string {
	if len(orders) == 0 {
		return mutedStyle.Render("You haven't placed any orders yet.")
	}
	cards := make([]string, len(orders))
	for i, o := range orders {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s  %s  %s\n",
			titleStyle.Render("Order #"+o.ShortID()),
			mutedStyle.Render(o.CreatedAt.Format("Jan 2, 2006")),
			statusBadge(o.OrderStatus))
		if o.User.Name != "" {
			sb.WriteString(mutedStyle.Render(o.User.Name+" <"+o.User.Email+">") + "\n")
		}
		for _, it := range o.Items {
			fmt.Fprintf(&sb, "  %s x%d  %s\n", it.Name, it.Quantity, FormatPrice(it.Price))
		}
		addr := o.ShippingAddress
		fmt.Fprintf(&sb, "Ship to: %s, %s, %s %s, %s\n", addr.Street, addr.City, addr.State, addr.ZipCode, addr.Country)
		fmt.Fprintf(&sb, "Payment: %s - %s\n", o.PaymentMethod, o.PaymentStatus)
		fmt.Fprintf(&sb, "Total: %s", priceStyle.Render(FormatPrice(o.TotalPrice)))
		cards[i] = cardStyle.Render(sb.String())
	}
	return strings.Join(cards, "\n")
}

func DashboardView(st Stats) string {
	stat := func(label string, n int) string {
		return cardStyle.Render(fmt.Sprintf("%s\n%s", titleStyle.Render(fmt.Sprint(n)), mutedStyle.Render(label)))
	}
	return headerStyle.Render("Dashboard Overview") + "\n\n" + lipgloss.JoinHorizontal(lipgloss.Top,
		stat("Total Products", st.TotalProducts),
		stat("Total Orders", st.TotalOrders),
		stat("Pending Orders", st.PendingOrders),
	)
}

func ProfileView(u *models.User) string {
	if u == nil {
		return mutedStyle.Render("Not signed in.")
	}
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(u.Name) + "  " + badgeStyle.Render(u.RoleLabel()) + "\n")
	sb.WriteString("Email: " + u.Email + "\n")
	if u.Phone != "" {
		sb.WriteString("Phone: " + u.Phone + "\n")
	}
	if a := u.Address; a != nil && a.Street != "" {
		fmt.Fprintf(&sb, "Address: %s, %s, %s %s, %s\n", a.Street, a.City, a.State, a.ZipCode, a.Country)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func ToastView(t *Toast) string {
	if t == nil {
		return ""
	}
	if t.Kind == ToastError {
		return errorStyle.Render("✗ " + t.Text)
	}
	return successStyle.Render("✓ " + t.Text)
}
