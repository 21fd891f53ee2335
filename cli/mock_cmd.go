package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dooddles07/cyaadnu-frontend/mockapi"
	"github.com/dooddles07/cyaadnu-frontend/models"
)

var (
	mockAddr   string
	adminEmail string
	noSeed     bool
)

var mockServerCmd = &cobra.Command{
	Use:   "mock-server",
	Short: "Run an in-memory storefront backend for local use",
	Long: `Serves the storefront REST API from memory on --addr (MOCK_ADDR), seeded with
an administrator account and a demo catalogue. Data is lost on exit.

The admin password comes from MOCK_ADMIN_PASSWORD and the token signing
secret from MOCK_JWT_SECRET or MOCK_JWT_SECRET_FILE.`,
	Args: cobra.NoArgs,
	RunE: runMockServer,
}

func init() {
	mockServerCmd.Flags().StringVar(&mockAddr, "addr", "", "Listen address (default from config)")
	mockServerCmd.Flags().StringVar(&adminEmail, "admin-email", "admin@cyaadnu.edu.ph", "Seeded administrator email")
	mockServerCmd.Flags().BoolVar(&noSeed, "no-seed", false, "Start with an empty catalogue")
}

func demoCatalogue() []models.Product {
	peso := decimal.RequireFromString
	return []models.Product{
		{Name: "CYA Classic Tee", Description: "Soft **cotton** tee with the CYA crest.", Price: peso("350.00"), Category: models.CategoryApparel, Stock: 40, Featured: true, Sizes: []string{"S", "M", "L", "XL"}, Colors: []string{"Navy", "White"}},
		{Name: "CYA Hoodie", Description: "Fleece-lined hoodie for chilly mornings.", Price: peso("899.00"), Category: models.CategoryApparel, Stock: 15, Featured: true, Sizes: []string{"M", "L"}},
		{Name: "Campus Lanyard", Description: "Woven lanyard with a detachable clip.", Price: peso("120.00"), Category: models.CategoryAccessories, Stock: 100, Featured: true},
		{Name: "Enamel Pin Set", Description: "Three pins: crest, mascot, and tower.", Price: peso("199.50"), Category: models.CategoryAccessories, Stock: 0},
		{Name: "Ceramic Mug", Description: "12 oz mug, dishwasher safe.", Price: peso("299.99"), Category: models.CategoryMerchandise, Stock: 25, Featured: true},
		{Name: "Student Planner", Description: "Academic year planner with campus map.", Price: peso("250.00"), Category: models.CategoryBooks, Stock: 30},
	}
}

func runMockServer(cmd *cobra.Command, args []string) error {
	if mockAddr == "" {
		mockAddr = cfg.MockAddr
	}
	gin.SetMode(gin.ReleaseMode)

	backend := mockapi.New([]byte(cfg.MockJWTSecret), mockapi.WithLogger(logger))
	if _, err := backend.SeedAdmin("Administrator", adminEmail, cfg.MockAdminPass); err != nil {
		return err
	}
	if !noSeed {
		backend.SeedProducts(demoCatalogue()...)
	}

	srv := &http.Server{Addr: mockAddr, Handler: backend.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("mock storefront backend starting", zap.String("addr", mockAddr), zap.String("admin", adminEmail))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-cmd.Context().Done():
	}

	logger.Info("shutting down mock backend")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
