package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var recountCmd = &cobra.Command{
	Use:   "recount [restaurantId...]",
	Short: "Recompute category item counts from the live menu items",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close(ctx)

		c, closeCache, err := newCatalogCache(ctx)
		if err != nil {
			return err
		}
		defer closeCache()

		engine, err := newEngine(ctx, store, c)
		if err != nil {
			return err
		}
		ids, err := tenantIDs(ctx, store, args)
		if err != nil {
			return err
		}
		for _, id := range ids {
			counts, err := engine.RecountItems(ctx, id)
			if err != nil {
				return err
			}
			log.WithFields(logrus.Fields{
				"restaurant": id,
				"categories": len(counts),
			}).Info("item counts recomputed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recountCmd)
}
