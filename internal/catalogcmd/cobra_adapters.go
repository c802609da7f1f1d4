package catalogcmd

import (
	"os"

	"github.com/spf13/cobra"
)

const defaultMetadataPath = "./data/metadata.json"

// EnvOr returns the environment value for key, or def when unset.
func EnvOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// metadataFlag registers --metadata, defaulting to CAMSIM_METADATA.
func metadataFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "metadata", defaultMetadataPath, "Metadata file: .json, .jsonl, .yaml or .parquet (env CAMSIM_METADATA)")
}

func resolveMetadataPath(cmd *cobra.Command, path string) string {
	if cmd.Flags().Changed("metadata") {
		return path
	}
	return EnvOr("CAMSIM_METADATA", path)
}

// NewListCmd creates the list command printing catalog rows
func NewListCmd() *cobra.Command {
	var metadataPath string
	var format string
	var sortBy string
	var desc bool
	var filters map[string]string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the catalog rows",
		Long: `Print the rows of the catalog grid.

Sorting and filtering follow the grid: filters are case-insensitive substring
matches on the scene, illumination, lens and sensor columns.`,
		Example: `  # Table of every row
  camsim catalog list

  # IMX363 renderings under tungsten light, as JSON
  camsim catalog list --filter sensor=IMX363 --filter illumination=tungsten --format json

  # CSV sorted by lens
  camsim catalog list --sort lens --format csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeList(cmd.OutOrStdout(), resolveMetadataPath(cmd, metadataPath), format, sortBy, desc, filters)
		},
	}

	metadataFlag(cmd, &metadataPath)
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text, json, csv)")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort column (scene, illumination, lens, sensor)")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending")
	cmd.Flags().StringToStringVar(&filters, "filter", nil, "Column filter as column=text (repeatable)")

	return cmd
}

// NewExportCmd creates the export command converting the metadata file
func NewExportCmd() *cobra.Command {
	var metadataPath string
	var outputPath string
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Convert the metadata file to another format",
		Long: `Read the metadata collection and write it back out as JSON, JSONL, YAML or Parquet.

The format defaults to the output file extension.`,
		Example: `  # JSON to Parquet
  camsim catalog export --metadata ./data/metadata.json --output ./data/metadata.parquet

  # Explicit format
  camsim catalog export --output catalog.out --format yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeExport(cmd.OutOrStdout(), resolveMetadataPath(cmd, metadataPath), outputPath, format)
		},
	}

	metadataFlag(cmd, &metadataPath)
	cmd.Flags().StringVar(&outputPath, "output", "", "Output file (required)")
	cmd.Flags().StringVar(&format, "format", "", "Output format (json, jsonl, yaml, parquet); defaults to the output extension")

	_ = cmd.MarkFlagRequired("output")
	return cmd
}

// NewResolveCmd creates the resolve command printing a download path
func NewResolveCmd() *cobra.Command {
	var metadataPath string
	var row int
	var kind string
	var format string

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the file a download action would fetch",
		Long: `Select a catalog row and resolve the file behind one of the download actions.

Kinds: raw (dlSensorVolts), rgb (dlIPRGB), oi (dlOI). A row of -1 means nothing
is selected, which fails the same way the download buttons do.`,
		Example: `  # Raw sensor volts for the first row
  camsim resolve --row 0 --kind raw

  # Optical image of row 12, as JSON
  camsim resolve --row 12 --kind oi --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeResolve(cmd.OutOrStdout(), resolveMetadataPath(cmd, metadataPath), row, kind, format)
		},
	}

	metadataFlag(cmd, &metadataPath)
	cmd.Flags().IntVar(&row, "row", -1, "Catalog row index (-1 for no selection)")
	cmd.Flags().StringVar(&kind, "kind", "rgb", "Artifact kind (raw, rgb, oi)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text, json)")

	return cmd
}

// NewFetchCmd creates the fetch command saving an artifact from a server
func NewFetchCmd() *cobra.Command {
	var metadataPath string
	var serverURL string
	var row int
	var kind string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download an artifact from a running camsim server",
		Long: `Resolve the artifact for a catalog row and save it from a camsim server (or any
host serving the same public directory) under its suggested filename.`,
		Example: `  # Save the processed JPEG of row 3 into ./downloads
  camsim fetch --row 3 --kind rgb

  # Raw sensor volts from a remote server
  camsim fetch --server https://camsim.example.org --row 0 --kind raw --output ./volts`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeFetch(cmd.Context(), cmd.OutOrStdout(), resolveMetadataPath(cmd, metadataPath), serverURL, row, kind, outputDir)
		},
	}

	metadataFlag(cmd, &metadataPath)
	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8888", "Server base URL")
	cmd.Flags().IntVar(&row, "row", -1, "Catalog row index")
	cmd.Flags().StringVar(&kind, "kind", "rgb", "Artifact kind (raw, rgb, oi)")
	cmd.Flags().StringVar(&outputDir, "output", "./downloads", "Output directory")

	_ = cmd.MarkFlagRequired("row")
	return cmd
}
