package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/aryan0dhankhar/shopcart/internal/infrastructure/logger"
	"github.com/aryan0dhankhar/shopcart/internal/security/auth"
	"github.com/aryan0dhankhar/shopcart/internal/security/password"
	"github.com/aryan0dhankhar/shopcart/internal/service"
	"github.com/aryan0dhankhar/shopcart/internal/storage"
	"github.com/aryan0dhankhar/shopcart/pkg/config"
)

// app holds the services a command runs against
type app struct {
	store    *storage.Storage
	products *service.ProductService
	users    *service.UserService
	carts    *service.CartService
}

type options struct {
	backend  string
	dataDir  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	var a *app

	root := &cobra.Command{
		Use:           "shopcart",
		Short:         "Operate the shopcart data files directly",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opened, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			a = opened
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a == nil {
				return nil
			}
			return a.store.Close()
		},
	}
	root.PersistentFlags().StringVar(&opts.backend, "backend", envOr("STORAGE_BACKEND", config.BackendText), "storage backend: text or binary")
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", envOr("DATA_DIR", "data"), "directory holding the data files")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "error", "log level")

	get := func() *app { return a }
	root.AddCommand(
		newProductCmd(get),
		newUserCmd(get),
		newCartCmd(get),
		newValidateCmd(),
	)
	return root
}

func openApp(ctx context.Context, opts *options) (*app, error) {
	switch opts.backend {
	case config.BackendText, config.BackendBinary:
	default:
		return nil, fmt.Errorf("backend must be %s or %s, got %q", config.BackendText, config.BackendBinary, opts.backend)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.New(os.Stderr, opts.logLevel)
	store, err := storage.Open(ctx, &config.Config{
		StorageBackend: opts.backend,
		DataDir:        opts.dataDir,
		CartStore:      "default",
	}, log)
	if err != nil {
		return nil, err
	}

	hasher := password.NewHasher(0)
	// the CLI never logs anyone in; the manager only satisfies UserService
	tokens := auth.NewTokenManager("cli", "shopcart", time.Minute)
	return &app{
		store:    store,
		products: service.NewProductService(store.Products, log),
		users:    service.NewUserService(store.Users, store.Questionnaires, hasher, tokens, log),
		carts:    service.NewCartService(store.Carts, store.Products, store.Users, log),
	}, nil
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
