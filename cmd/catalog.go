package cmd

import (
	"github.com/spf13/cobra"
	"github.com/vistalab/camsim/internal/catalogcmd"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and convert the simulation metadata catalog",
		Long: `Tools for the metadata collection behind the catalog grid.

List the rows the grid would show (with the same sort and filter options), or
convert the metadata file between JSON, JSONL, YAML and Parquet.`,
	}

	cmd.AddCommand(catalogcmd.NewListCmd())
	cmd.AddCommand(catalogcmd.NewExportCmd())

	return cmd
}
