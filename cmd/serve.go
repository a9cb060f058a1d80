package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chrisdamba/menuar/internal/api"
	"github.com/chrisdamba/menuar/internal/docstore"
	"github.com/chrisdamba/menuar/internal/factories"
	"github.com/chrisdamba/menuar/internal/migrator"
	"github.com/chrisdamba/menuar/internal/orders"
	"github.com/chrisdamba/menuar/internal/repositories/documents"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog and order API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close(context.Background())

		if demo, _ := cmd.Flags().GetBool("demo"); demo {
			if err := loadDemo(cmd, store); err != nil {
				return err
			}
		}

		c, closeCache, err := newCatalogCache(ctx)
		if err != nil {
			return err
		}
		defer closeCache()

		engine, err := newEngine(ctx, store, c)
		if err != nil {
			return err
		}
		publisher, err := newPublisher()
		if err != nil {
			return err
		}
		defer publisher.Close()

		svc := orders.NewService(documents.NewOrderRepository(store), publisher, log)
		handler := api.NewHandler(engine, svc, cfg.HTTP.PublicMenuURL, log)
		return api.NewServer(cfg.HTTP.Addr, handler.Router(cfg.HTTP.CORSOrigins), log).Run(ctx)
	},
}

// loadDemo seeds flat demo data and migrates it so the API has something to serve.
func loadDemo(cmd *cobra.Command, store docstore.Store) error {
	ctx := cmd.Context()
	set := factories.NewGenerator(cfg.Seed.Seed).Generate(cfg.Seed)
	if err := factories.Write(ctx, store, set); err != nil {
		return err
	}
	_, err := migrator.New(store, log, migrator.Options{BatchLimit: cfg.Migration.BatchSize}).Run(ctx, true)
	return err
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address")
	serveCmd.Flags().Bool("demo", false, "seed and migrate demo restaurants before serving")

	viper.BindPFlag("http.addr", serveCmd.Flags().Lookup("addr"))
	rootCmd.AddCommand(serveCmd)
}
