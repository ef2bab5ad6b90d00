package main

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/dkma-cli/internal/config"
	"github.com/sells-group/dkma-cli/internal/dataset"
	"github.com/sells-group/dkma-cli/internal/model"
)

// testConfig returns a config pointing every path into dir.
func testConfig(dir string) *config.Config {
	return &config.Config{
		Fetch: config.FetchConfig{
			BaseURL:       "https://dontkillmyapp.com/api/v2/",
			Manufacturers: []string{"alpha", "beta"},
			OutputPath:    filepath.Join(dir, "dontkillmyapp_data.json"),
			TimeoutSecs:   2,
		},
		Publish:      config.PublishConfig{LibDir: filepath.Join(dir, "lib", "data")},
		Store:        config.StoreConfig{Driver: "sqlite", DatabaseURL: filepath.Join(dir, "dkma.db")},
		Server:       config.ServerConfig{Port: 8080},
		Instructions: config.InstructionsConfig{AppName: "your app"},
		Log:          config.LogConfig{Level: "info", Format: "json"},
	}
}

// writeTestDataset saves a small dataset at the configured output path.
func writeTestDataset(t *testing.T) model.Dataset {
	t.Helper()
	ds := model.Dataset{
		"samsung": model.NewRecord("samsung", map[string]json.RawMessage{
			"name":          json.RawMessage(`"Samsung"`),
			"manufacturer":  json.RawMessage(`["samsung"]`),
			"award":         json.RawMessage(`5`),
			"user_solution": json.RawMessage(`"<p>Allow <b>[Your app]</b> to run</p>"`),
		}),
		"nokia": model.NewRecord("nokia", nil),
	}
	require.NoError(t, dataset.Save(cfg.Fetch.OutputPath, ds))
	return ds
}

func withContext(t *testing.T, cmd *cobra.Command) {
	t.Helper()
	cmd.SetContext(context.Background())
	t.Cleanup(func() { cmd.SetContext(context.TODO()) })
}
