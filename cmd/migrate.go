package cmd

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/chrisdamba/menuar/internal/docstore"
	"github.com/chrisdamba/menuar/internal/migrator"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Move flat categories and menu items under their restaurants",
	Long: `migrate copies every record of the flat categories and menuItems collections to
restaurants/{restaurantId}/categories and restaurants/{restaurantId}/menuItems.
Records that reference an unknown restaurant are reported as orphans. With
--cleanup the migrated flat records are deleted afterwards.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cleanup, _ := cmd.Flags().GetBool("cleanup")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		batchSize, _ := cmd.Flags().GetInt("batch-size")
		if !cmd.Flags().Changed("batch-size") {
			batchSize = cfg.Migration.BatchSize
		}

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close(ctx)

		m := migrator.New(store, log, migrator.Options{
			BatchLimit: batchSize,
			DryRun:     dryRun,
			Progress:   os.Stderr,
		})
		report, err := m.Run(ctx, cleanup)
		if report != nil {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.Encode(report)
		}
		if err != nil || dryRun {
			return err
		}
		return invalidateCatalogs(ctx, store)
	},
}

// invalidateCatalogs drops every cached catalog after a migration has moved
// records under their restaurants.
func invalidateCatalogs(ctx context.Context, store docstore.Store) error {
	c, closeCache, err := newCatalogCache(ctx)
	if err != nil {
		return err
	}
	defer closeCache()
	if c == nil {
		return nil
	}

	engine, err := newEngine(ctx, store, c)
	if err != nil {
		return err
	}
	ids, err := tenantIDs(ctx, store, nil)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := engine.Invalidate(ctx, id); err != nil {
			return err
		}
	}
	log.WithField("restaurants", len(ids)).Info("catalog cache invalidated")
	return nil
}

func init() {
	migrateCmd.Flags().Bool("cleanup", false, "delete migrated flat records after a successful migration")
	migrateCmd.Flags().Bool("dry-run", false, "report what would be migrated without writing")
	migrateCmd.Flags().Int("batch-size", migrator.DefaultBatchLimit, "writes per batch commit")
	rootCmd.AddCommand(migrateCmd)
}
