// Package cli implements cartctl, the command-line front end of the cart ledger.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-storefront-proxy/internal/cart"
	"go-storefront-proxy/internal/catalog"
	"go-storefront-proxy/internal/config"
	"go-storefront-proxy/internal/interfaces"
	"go-storefront-proxy/internal/kvstore/factory"
	"go-storefront-proxy/internal/order"
)

// app holds what every subcommand needs; it is opened before each run
type app struct {
	configPath string
	verbose    bool

	cfg       *config.Config
	logger    *zap.Logger
	kv        interfaces.KVStore
	ledger    *cart.Ledger
	orders    *order.Service
	catalog   *catalog.Client
	formatter *order.Formatter
}

// newRootCommand builds the cartctl command tree; the returned app is opened
// before any subcommand runs
func newRootCommand() (*cobra.Command, *app) {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "cartctl",
		Short:         "cartctl – manage the storefront cart",
		Long:          `A command-line utility for the storefront cart: add parts, review the cart, check out and print receipts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", envOr("STOREFRONT_CONFIG_FILE", "storefront.yaml"), "Configuration file")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Verbose debug output to stderr")

	rootCmd.AddCommand(
		a.addCmd(),
		a.showCmd(),
		a.removeCmd(),
		a.clearCmd(),
		a.checkoutCmd(),
		a.receiptCmd(),
		a.productsCmd(),
		a.scanCmd(),
	)
	return rootCmd, a
}

// Run executes cartctl with args, writing to out, and closes the store afterwards
func Run(ctx context.Context, args []string, out io.Writer) error {
	cmd, a := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(out)

	err := cmd.ExecuteContext(ctx)
	if closeErr := a.close(); closeErr != nil && err == nil {
		err = fmt.Errorf("failed to close store: %w", closeErr)
	}
	return err
}

// Execute runs cartctl on the process arguments and exits non-zero on failure
func Execute() {
	if err := Run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) open(ctx context.Context) error {
	logger := zap.NewNop()
	if a.verbose {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
	}
	a.logger = logger

	cfg, err := config.LoadOrDefault(a.configPath, logger)
	if err != nil {
		return err
	}
	a.cfg = cfg

	kv, err := factory.Open(cfg, config.KeyDBURL(logger), logger)
	if err != nil {
		return err
	}
	a.kv = kv

	ledger, err := cart.NewLedger(ctx, cart.NewKVStore(kv), logger)
	if err != nil {
		return err
	}
	a.ledger = ledger
	a.orders = order.NewService(ledger, kv, &cfg.Checkout, logger)

	if a.catalog, err = catalog.NewClient(&cfg.Catalog, logger); err != nil {
		return err
	}
	if a.formatter, err = order.NewFormatter(cfg.Checkout.Language, cfg.Checkout.Currency); err != nil {
		return err
	}
	return nil
}

func (a *app) close() error {
	var err error
	if a.kv != nil {
		err = a.kv.Close()
		a.kv = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return err
}

func envOr(key, def string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return def
}
