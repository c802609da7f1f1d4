package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/vistalab/camsim/internal/handlers"
)

func newServeCmd() *cobra.Command {
	var port string
	var metadataPath string
	var publicDir string
	var sessionTTL time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start web server for the simulation catalog",
		Long: `Starts the camsim web interface on the specified port.

The metadata file is read once at startup. Preview images, raw sensor files and
optical images are served from the public directory (images/ and oi/).`,
		Example: `  # Start server on default port 8888
  camsim serve

  # Start server on custom port with a parquet catalog
  camsim serve --port 3000 --metadata ./data/metadata.parquet --public ./public`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// godotenv runs in the root PersistentPreRun, so env defaults are
			// only final here.
			if !cmd.Flags().Changed("port") {
				port = envOr("CAMSIM_PORT", port)
			}
			if !cmd.Flags().Changed("metadata") {
				metadataPath = envOr("CAMSIM_METADATA", metadataPath)
			}
			if !cmd.Flags().Changed("public") {
				publicDir = envOr("CAMSIM_PUBLIC_DIR", publicDir)
			}

			if sessionTTL <= 0 {
				return fmt.Errorf("--session-ttl must be positive, got %s", sessionTTL)
			}

			handler := handlers.New(handlers.Config{
				MetadataPath: metadataPath,
				PublicDir:    publicDir,
			})

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("camsim interface available", "addr", addr, "url", "http://localhost"+addr, "public", publicDir)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			ticker := time.NewTicker(sessionTTL / 4)
			defer ticker.Stop()

			// Wait for context cancellation (Ctrl+C) or server error
			for {
				select {
				case <-ticker.C:
					handler.ExpireSessions(sessionTTL)
				case <-cmd.Context().Done():
					slog.Info("Shutting down server...")
					// Give server 5 seconds to shut down gracefully
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					if err := server.Shutdown(shutdownCtx); err != nil {
						slog.Error("Server shutdown failed", "err", err)
						return err
					}
					slog.Info("Server stopped")
					return nil
				case err := <-serverErr:
					return err
				}
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on (env CAMSIM_PORT)")
	cmd.Flags().StringVar(&metadataPath, "metadata", "./data/metadata.json", "Metadata file: .json, .jsonl, .yaml or .parquet (env CAMSIM_METADATA)")
	cmd.Flags().StringVar(&publicDir, "public", "./public", "Public asset root holding images/ and oi/ (env CAMSIM_PUBLIC_DIR)")
	cmd.Flags().DurationVar(&sessionTTL, "session-ttl", 12*time.Hour, "Drop browser sessions idle for longer than this")

	return cmd
}
