package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chrisdamba/menuar/internal/factories"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write demo restaurants in the flat legacy layout",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close(ctx)

		set := factories.NewGenerator(cfg.Seed.Seed).Generate(cfg.Seed)
		if err := factories.Write(ctx, store, set); err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"restaurants": len(set.Restaurants),
			"categories":  len(set.Categories),
			"menuItems":   len(set.MenuItems),
		}).Info("seed data written")
		return nil
	},
}

func init() {
	seedCmd.Flags().Int("restaurants", 3, "number of restaurants")
	seedCmd.Flags().Int("items", 12, "menu items per restaurant")
	seedCmd.Flags().Int64("seed", 0, "random seed (0 picks one)")

	viper.BindPFlag("seed.restaurants", seedCmd.Flags().Lookup("restaurants"))
	viper.BindPFlag("seed.items_per_restaurant", seedCmd.Flags().Lookup("items"))
	viper.BindPFlag("seed.seed", seedCmd.Flags().Lookup("seed"))
	rootCmd.AddCommand(seedCmd)
}
