package catalog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/vistalab/camsim/internal/models"
	"gopkg.in/yaml.v3"
)

// Loader reads the metadata collection from disk
type Loader struct {
	metadataPath string
}

// NewLoader creates a new metadata loader
func NewLoader(metadataPath string) *Loader {
	return &Loader{
		metadataPath: metadataPath,
	}
}

// Load reads all records from a metadata file (JSON, JSONL, YAML or Parquet).
// Every error wraps ErrCatalogUnavailable.
func (l *Loader) Load() ([]models.MetadataRecord, error) {
	records, err := l.load()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	if err := validate(records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	slog.Debug("Loaded metadata", "path", l.metadataPath, "records", len(records))
	return records, nil
}

func (l *Loader) load() ([]models.MetadataRecord, error) {
	if l.metadataPath == "" {
		return nil, errors.New("no metadata file configured")
	}

	ext := strings.ToLower(filepath.Ext(l.metadataPath))

	switch ext {
	case ".json":
		return l.loadJSON()
	case ".jsonl":
		return l.loadJSONL()
	case ".yaml", ".yml":
		return l.loadYAML()
	case ".parquet":
		return l.loadParquet()
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .json, .jsonl, .yaml, .parquet)", ext)
	}
}

// loadJSON loads a JSON array of records
func (l *Loader) loadJSON() ([]models.MetadataRecord, error) {
	data, err := os.ReadFile(l.metadataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		return nil, errors.New("metadata file must contain a JSON array")
	}

	var records []models.MetadataRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse metadata JSON: %w", err)
	}
	return records, nil
}

// loadJSONL loads one record per line
func (l *Loader) loadJSONL() ([]models.MetadataRecord, error) {
	file, err := os.Open(l.metadataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata file: %w", err)
	}
	defer file.Close()

	var records []models.MetadataRecord
	scanner := bufio.NewScanner(file)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())

		if len(line) == 0 {
			continue
		}

		var record models.MetadataRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}

		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading metadata file: %w", err)
	}

	return records, nil
}

// loadYAML loads a YAML sequence of records
func (l *Loader) loadYAML() ([]models.MetadataRecord, error) {
	data, err := os.ReadFile(l.metadataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	var records []models.MetadataRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse metadata YAML: %w", err)
	}
	return records, nil
}

// loadParquet loads records from a Parquet file
func (l *Loader) loadParquet() ([]models.MetadataRecord, error) {
	file, err := os.Open(l.metadataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet file opened", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[models.MetadataRecord](pf)
	defer reader.Close()

	records := make([]models.MetadataRecord, 0, pf.NumRows())
	rows := make([]models.MetadataRecord, 128)

	for {
		n, err := reader.Read(rows)
		records = append(records, rows[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	return records, nil
}

// validate rejects records that cannot produce a preview.
func validate(records []models.MetadataRecord) error {
	for i, rec := range records {
		if strings.TrimSpace(rec.JPEGName) == "" {
			return fmt.Errorf("record %d: missing jpegName", i)
		}
		if rec.ExposureTime < 0 {
			return fmt.Errorf("record %d: negative exposureTime %v", i, rec.ExposureTime)
		}
	}
	return nil
}
