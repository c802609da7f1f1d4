package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/vistalab/camsim/internal/catalogcmd"
)

func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "camsim",
		Short: "Browse and download pre-computed camera simulations",
		Long: `camsim serves a catalog of pre-rendered camera simulations (scene × lens × sensor).

Browse the catalog in a sortable, filterable grid, preview a rendering with its
exposure metadata, and download the raw sensor volts, the processed RGB image or
the optical image.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose logging")

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newCatalogCmd())
	cmd.AddCommand(catalogcmd.NewResolveCmd())
	cmd.AddCommand(catalogcmd.NewFetchCmd())

	return cmd
}

// envOr returns the environment value for key, or def when unset.
func envOr(key, def string) string {
	return catalogcmd.EnvOr(key, def)
}
