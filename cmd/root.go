package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chrisdamba/menuar/internal/logger"
	"github.com/chrisdamba/menuar/internal/models"
)

var (
	cfgFile string
	cfg     *models.Config
	log     *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "menuar",
	Short: "Menu data layer for AR restaurant storefronts",
	Long: `menuar moves restaurant menus from the flat legacy layout into per-restaurant
collections, serves the normalized catalog and takes dine-in orders.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = models.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		log, err = logger.New(cfg.Log)
		if err != nil {
			return err
		}
		if used := viper.ConfigFileUsed(); used != "" {
			log.WithField("file", used).Debug("using config file")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./menuar.yaml)")
	rootCmd.PersistentFlags().String("store", "", "document store driver: memory, postgres or mongo")
	rootCmd.PersistentFlags().String("log-level", "", "log level")

	viper.BindPFlag("store.driver", rootCmd.PersistentFlags().Lookup("store"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
