package catalogcmd

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/vistalab/camsim/internal/catalog"
)

func executeExport(w io.Writer, metadataPath, outputPath, format string) error {
	if outputPath == "" {
		return fmt.Errorf("--output is required")
	}

	if format == "" {
		var err error
		format, err = catalog.FormatFromPath(outputPath)
		if err != nil {
			return fmt.Errorf("cannot infer format, pass --format: %w", err)
		}
	}

	records, err := catalog.NewLoader(metadataPath).Load()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	slog.Info("Exporting catalog", "from", metadataPath, "to", outputPath, "format", format, "records", len(records))

	if err := catalog.Export(outputPath, format, records); err != nil {
		return err
	}

	absPath, _ := filepath.Abs(outputPath)
	fmt.Fprintf(w, "Exported %d records to %s\n", len(records), absPath)
	return nil
}
