package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dooddles07/cyaadnu-frontend/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactive product browser",
	Long: `Opens the product browser.

Keys:
  /        search by name (filters as you type)
  tab      cycle category
  enter    product details
  a        add the selected product to the cart
  esc      back
  q        quit`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	return withSession(cmd.Context(), "/products", func(s *session) error {
		p := tea.NewProgram(tui.NewBrowser(cmd.Context(), s.pages), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		final, err := p.Run()
		if err != nil {
			return fmt.Errorf("browser: %w", err)
		}
		if b, ok := final.(tui.Browser); ok && b.Redirect == "/login" {
			cmd.Println("Please login to add items to cart: storefront login --email ... --password ...")
		}
		return nil
	})
}
