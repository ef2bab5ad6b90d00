package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/dkma-cli/internal/dataset"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Copy the dataset into the library data directory",
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := cfg.Validate("publish"); err != nil {
			return err
		}

		dest, err := dataset.Publish(cfg.Fetch.OutputPath, cfg.Publish.LibDir)
		if err != nil {
			return eris.Wrap(err, "publish")
		}

		zap.L().Info("publish complete",
			zap.String("src", cfg.Fetch.OutputPath),
			zap.String("dest", dest),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
}
