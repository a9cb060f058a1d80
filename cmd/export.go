package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chrisdamba/menuar/internal/catalog"
	"github.com/chrisdamba/menuar/internal/cloudwriter"
	"github.com/chrisdamba/menuar/internal/export"
	"github.com/chrisdamba/menuar/internal/objectstore"
)

var exportCmd = &cobra.Command{
	Use:   "export [restaurantId...]",
	Short: "Write restaurant menus to Parquet",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close(ctx)

		// exported rows keep storage paths; presigned URLs would expire
		engine, err := newEngine(ctx, store, nil, catalog.WithResolver(objectstore.Passthrough{}))
		if err != nil {
			return err
		}

		var exporter *export.Exporter
		if cfg.Export.ToCloud {
			if cfg.Storage.BucketName == "" {
				return fmt.Errorf("export to cloud needs storage.bucket_name")
			}
			client, err := objectstore.NewS3Client(ctx, cfg.Storage.Region)
			if err != nil {
				return err
			}
			exporter = export.NewCloudExporter(cloudwriter.NewS3WriterFactory(client), cfg.Storage.BucketName, cfg.Export.OutputFolder, log)
		} else {
			exporter = export.NewLocalExporter(cfg.Export.OutputFolder, log)
		}

		ids, err := tenantIDs(ctx, store, args)
		if err != nil {
			return err
		}
		for _, id := range ids {
			cat, err := engine.LoadCatalog(ctx, id, catalog.LoadOptions{IncludeUnavailable: true})
			if err != nil {
				return err
			}
			target, err := exporter.Export(ctx, cat)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), target)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().String("output", "", "output folder or object prefix")
	exportCmd.Flags().Bool("cloud", false, "upload to the configured bucket instead of local disk")

	viper.BindPFlag("export.output_folder", exportCmd.Flags().Lookup("output"))
	viper.BindPFlag("export.to_cloud", exportCmd.Flags().Lookup("cloud"))
	rootCmd.AddCommand(exportCmd)
}
