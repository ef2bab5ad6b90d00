package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/dkma-cli/internal/dataset"
	"github.com/sells-group/dkma-cli/internal/store"
)

var (
	exportDriver string
	exportDSN    string
	exportXLSX   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the dataset to a database or spreadsheet",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		ds, err := dataset.Load(cfg.Fetch.OutputPath)
		if err != nil {
			return eris.Wrap(err, "export")
		}

		if exportXLSX != "" {
			if err := dataset.WriteXLSX(exportXLSX, ds); err != nil {
				return eris.Wrap(err, "export")
			}
			zap.L().Info("export complete",
				zap.String("xlsx", exportXLSX),
				zap.Int("manufacturers", len(ds)),
			)
			return nil
		}

		if exportDriver != "" {
			cfg.Store.Driver = exportDriver
		}
		if exportDSN != "" {
			cfg.Store.DatabaseURL = exportDSN
		}
		if err := cfg.Validate("export"); err != nil {
			return err
		}

		st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
		if err != nil {
			return eris.Wrap(err, "export: open store")
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "export")
		}
		exportID, err := st.ReplaceDataset(ctx, ds)
		if err != nil {
			return eris.Wrap(err, "export")
		}

		zap.L().Info("export complete",
			zap.String("driver", cfg.Store.Driver),
			zap.String("export_id", exportID),
			zap.Int("manufacturers", len(ds)),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDriver, "driver", "", "store driver: sqlite or postgres (default from config)")
	exportCmd.Flags().StringVar(&exportDSN, "dsn", "", "database path or connection string (default from config)")
	exportCmd.Flags().StringVar(&exportXLSX, "xlsx", "", "write an xlsx spreadsheet to this path instead of a database")
	rootCmd.AddCommand(exportCmd)
}
