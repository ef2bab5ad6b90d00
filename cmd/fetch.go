package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/dkma-cli/internal/pipeline"
	"github.com/sells-group/dkma-cli/pkg/dontkillmyapp"
)

var (
	fetchOutput        string
	fetchBaseURL       string
	fetchTimeout       time.Duration
	fetchManufacturers []string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch manufacturer data from the API and write the dataset",
	RunE: func(cmd *cobra.Command, _ []string) error {
		applyFetchFlags()
		if err := cfg.Validate("fetch"); err != nil {
			return err
		}

		client := dontkillmyapp.NewClient(
			dontkillmyapp.WithBaseURL(cfg.Fetch.BaseURL),
			dontkillmyapp.WithTimeout(cfg.Fetch.Timeout()),
		)
		p := pipeline.New(client, zap.L())

		report := p.Run(cmd.Context(), cfg.Fetch.Manufacturers)

		// Persist failures are already logged; the command still exits cleanly.
		_ = p.Persist(cfg.Fetch.OutputPath, report.Dataset)
		return nil
	},
}

// applyFetchFlags overlays explicitly set flags on the loaded config.
func applyFetchFlags() {
	if fetchOutput != "" {
		cfg.Fetch.OutputPath = fetchOutput
	}
	if fetchBaseURL != "" {
		cfg.Fetch.BaseURL = fetchBaseURL
	}
	if len(fetchManufacturers) > 0 {
		cfg.Fetch.Manufacturers = fetchManufacturers
	}
	if fetchTimeout > 0 {
		cfg.Fetch.TimeoutOverride = fetchTimeout
	}
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "output path (default from config)")
	fetchCmd.Flags().StringVar(&fetchBaseURL, "base-url", "", "API base URL (default from config)")
	fetchCmd.Flags().DurationVar(&fetchTimeout, "timeout", 0, "per-request timeout (default from config)")
	fetchCmd.Flags().StringSliceVar(&fetchManufacturers, "manufacturers", nil, "comma-separated manufacturer ids (default from config)")
	rootCmd.AddCommand(fetchCmd)
}
