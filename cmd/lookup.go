package main

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/dkma-cli/internal/dataset"
	"github.com/sells-group/dkma-cli/internal/instructions"
)

var (
	lookupDataPath string
	lookupAppName  string
	lookupFormat   string
	lookupOutput   string
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <manufacturer>",
	Short: "Print a manufacturer's instructions from the saved dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := lookupDataPath
		if path == "" {
			path = cfg.Fetch.OutputPath
		}
		ds, err := dataset.Load(path)
		if err != nil {
			return eris.Wrap(err, "lookup")
		}

		format, err := instructions.ParseFormat(lookupFormat)
		if err != nil {
			return err
		}
		appName := lookupAppName
		if appName == "" {
			appName = cfg.Instructions.AppName
		}

		out, err := instructions.NewRenderer().Build(ds, args[0], instructions.Options{
			AppName: appName,
			Format:  format,
		})
		if err != nil {
			return eris.Wrap(err, "lookup")
		}
		if !out.Found {
			return eris.Errorf("lookup: manufacturer %q not found", args[0])
		}

		return writeInstructions(cmd.OutOrStdout(), out, lookupOutput)
	},
}

func writeInstructions(w io.Writer, out *instructions.Instructions, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(out), "lookup: encode json")
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return eris.Wrap(err, "lookup: encode yaml")
		}
		return eris.Wrap(enc.Close(), "lookup: encode yaml")
	default:
		return eris.Errorf("lookup: unknown output %q", format)
	}
}

func init() {
	lookupCmd.Flags().StringVar(&lookupDataPath, "data", "", "dataset path (default fetch.output_path)")
	lookupCmd.Flags().StringVar(&lookupAppName, "app-name", "", "app name substituted into instructions (default from config)")
	lookupCmd.Flags().StringVar(&lookupFormat, "format", "markdown", "instruction text format: raw, html, or markdown")
	lookupCmd.Flags().StringVar(&lookupOutput, "output", "yaml", "output encoding: yaml or json")
	rootCmd.AddCommand(lookupCmd)
}
