// Package cli is the storefront command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dooddles07/cyaadnu-frontend/config"
)

var (
	verbose    bool
	configPath string
	apiURL     string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "CYA campus merchandise storefront client",
	Long: `storefront browses the campus merchandise catalogue, manages your cart and
orders, and gives administrators the product and order dashboards.

The session token is kept in local storage and restored on the next run.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if apiURL != "" {
			cfg.APIBaseURL = apiURL
		}
		if !verbose {
			if lvl, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
				zc.Level.SetLevel(lvl)
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "API base URL (or set API_BASE_URL env)")

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd, profileCmd)
	rootCmd.AddCommand(productsCmd, galleryCmd)
	rootCmd.AddCommand(cartCmd, checkoutCmd, ordersCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(browseCmd, watchCmd, mockServerCmd)
}

// Execute runs the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
