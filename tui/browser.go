// Package tui is the interactive product browser.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dooddles07/cyaadnu-frontend/controllers"
	"github.com/dooddles07/cyaadnu-frontend/models"
	"github.com/dooddles07/cyaadnu-frontend/views"
)

// Shop is what the browser needs from the page controllers.
type Shop interface {
	LoadProducts(ctx context.Context, q models.ProductQuery) ([]models.Product, error)
	AddToCart(ctx context.Context, product models.Product, form models.AddToCartForm) controllers.Result
}

type productsLoadedMsg struct {
	products []models.Product
	err      error
}

type addedMsg struct {
	result controllers.Result
}

var (
	headerStyle = lipgloss.NewStyle().Background(lipgloss.Color("#7C3AED")).Foreground(lipgloss.Color("#FFFFFF")).Bold(true).Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED")).Bold(true).Underline(true)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#6B7280")).Padding(0, 1)
)

// categoryTabs is "All" followed by every category.
var categoryTabs = append([]models.Category{""}, models.Categories...)

type Browser struct {
	ctx    context.Context
	shop   Shop
	width  int
	height int
	table  table.Model

	products []models.Product
	filtered []models.Product
	loading  bool
	loadErr  error

	search        textinput.Model
	searchFocused bool
	category      int

	detail *models.Product
	toast  *views.Toast
	// Redirect is set when an action asks to leave the browser, e.g. to log in.
	Redirect string
}

func NewBrowser(ctx context.Context, shop Shop) Browser {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Name", Width: 28},
			{Title: "Price", Width: 12},
			{Title: "Category", Width: 13},
			{Title: "Stock", Width: 14},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	si := textinput.New()
	si.Placeholder = "Search products..."
	si.CharLimit = 50
	si.Width = 30

	return Browser{
		ctx:     ctx,
		shop:    shop,
		table:   t,
		search:  si,
		loading: true,
		width:   80,
	}
}

func (m Browser) Init() tea.Cmd {
	return m.load
}

func (m Browser) load() tea.Msg {
	products, err := m.shop.LoadProducts(m.ctx, models.ProductQuery{})
	return productsLoadedMsg{products: products, err: err}
}

func (m Browser) add(p models.Product) tea.Cmd {
	return func() tea.Msg {
		return addedMsg{result: m.shop.AddToCart(m.ctx, p, models.AddToCartForm{Quantity: 1})}
	}
}

func (m Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetWidth(msg.Width - 4)
		if msg.Height > 10 {
			m.table.SetHeight(msg.Height - 10)
		}
		return m, nil

	case productsLoadedMsg:
		m.loading = false
		m.loadErr = msg.err
		if msg.err == nil {
			m.products = msg.products
		}
		m.applyFilter()
		return m, nil

	case addedMsg:
		m.toast = msg.result.Toast
		if msg.result.Redirect != "" {
			m.Redirect = msg.result.Redirect
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyMsg:
		if m.searchFocused {
			switch msg.String() {
			case "esc", "enter":
				m.searchFocused = false
				m.search.Blur()
				return m, nil
			case "ctrl+c":
				return m, tea.Quit
			}
			m.search, cmd = m.search.Update(msg)
			// filter on every keystroke
			m.applyFilter()
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "/":
			m.detail = nil
			m.searchFocused = true
			cmd = m.search.Focus()
			return m, cmd
		case "tab":
			m.category = (m.category + 1) % len(categoryTabs)
			m.applyFilter()
			return m, nil
		case "shift+tab":
			m.category = (m.category + len(categoryTabs) - 1) % len(categoryTabs)
			m.applyFilter()
			return m, nil
		case "esc":
			m.detail = nil
			m.toast = nil
			return m, nil
		case "enter":
			if p, ok := m.Selected(); ok {
				m.detail = &p
			}
			return m, nil
		case "a":
			p, ok := m.Selected()
			if m.detail != nil {
				p, ok = *m.detail, true
			}
			if !ok {
				return m, nil
			}
			if !views.CanAddToCart(p) {
				m.toast = &views.Toast{Kind: views.ToastError, Text: "Out of stock"}
				return m, nil
			}
			return m, m.add(p)
		}
	}

	if m.detail == nil {
		m.table, cmd = m.table.Update(msg)
	}
	return m, cmd
}

func (m *Browser) applyFilter() {
	m.filtered = views.FilterProducts(m.products, m.search.Value(), categoryTabs[m.category])
	rows := make([]table.Row, len(m.filtered))
	for i, p := range m.filtered {
		rows[i] = table.Row{p.Name, views.FormatPrice(p.Price), string(p.Category), views.StockLabel(p)}
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

// Selected is the product under the table cursor.
func (m Browser) Selected() (models.Product, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.filtered) {
		return models.Product{}, false
	}
	return m.filtered[i], true
}

// Visible is the filtered product list the table shows.
func (m Browser) Visible() []models.Product {
	return m.filtered
}

func (m Browser) View() string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(" CYA Storefront ") + "\n\n")

	switch {
	case m.loading:
		sb.WriteString(mutedStyle.Render("Loading products..."))
		return sb.String()
	case m.loadErr != nil:
		sb.WriteString(views.ToastView(views.Failure(m.loadErr, "Failed to load products")))
		return sb.String()
	}

	if m.detail != nil {
		out, err := views.ProductDetail(*m.detail, m.width-4)
		if err != nil {
			out = views.ProductLine(*m.detail)
		}
		sb.WriteString(out)
		sb.WriteString("\n" + mutedStyle.Render("[a] Add to cart  [esc] Back  [q] Quit"))
	} else {
		sb.WriteString(m.renderFilterBar() + "\n\n")
		if len(m.filtered) == 0 {
			sb.WriteString(mutedStyle.Render("No products found. Try adjusting your search or filter criteria."))
		} else {
			sb.WriteString(m.table.View())
		}
		if len(m.filtered) != len(m.products) {
			sb.WriteString(mutedStyle.Render(fmt.Sprintf("\nShowing %d of %d products", len(m.filtered), len(m.products))))
		}
	}

	if m.toast != nil {
		sb.WriteString("\n\n" + views.ToastView(m.toast))
	}
	return sb.String()
}

func (m Browser) renderFilterBar() string {
	var sb strings.Builder
	box := boxStyle
	if m.searchFocused {
		box = box.BorderForeground(lipgloss.Color("#7C3AED"))
	}
	sb.WriteString(box.Render(m.search.View()) + "  ")

	for i, c := range categoryTabs {
		label := string(c)
		if c == "" {
			label = "All"
		}
		style := mutedStyle
		if i == m.category {
			style = activeStyle
		}
		sb.WriteString(style.Render(label) + "  ")
	}
	sb.WriteString("  " + mutedStyle.Render("[/] Search  [Tab] Category  [Enter] Details  [a] Add"))
	return sb.String()
}
