package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/vistalab/camsim/internal/models"
	"gopkg.in/yaml.v3"
)

// Formats accepted by Export, keyed by name.
var exportExtensions = map[string]string{
	"json":    ".json",
	"jsonl":   ".jsonl",
	"yaml":    ".yaml",
	"parquet": ".parquet",
}

// FormatFromPath picks an export format from a file extension.
func FormatFromPath(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yml" {
		return "yaml", nil
	}
	for format, e := range exportExtensions {
		if e == ext {
			return format, nil
		}
	}
	return "", fmt.Errorf("unsupported file format: %s", ext)
}

// Export writes records to outputPath in the given format.
func Export(outputPath, format string, records []models.MetadataRecord) error {
	if _, ok := exportExtensions[format]; !ok {
		return fmt.Errorf("unsupported export format: %s", format)
	}

	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	switch format {
	case "json":
		err = WriteJSON(file, records)
	case "jsonl":
		err = WriteJSONL(file, records)
	case "yaml":
		err = WriteYAML(file, records)
	case "parquet":
		err = WriteParquet(file, records)
	}
	if err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteJSON writes records as an indented JSON array.
func WriteJSON(w io.Writer, records []models.MetadataRecord) error {
	if records == nil {
		records = []models.MetadataRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// WriteJSONL writes one JSON record per line.
func WriteJSONL(w io.Writer, records []models.MetadataRecord) error {
	enc := json.NewEncoder(w)
	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("failed to encode record %d: %w", i, err)
		}
	}
	return nil
}

func WriteYAML(w io.Writer, records []models.MetadataRecord) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return enc.Close()
}

func WriteParquet(w io.Writer, records []models.MetadataRecord) error {
	writer := parquet.NewGenericWriter[models.MetadataRecord](w)
	if _, err := writer.Write(records); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}
