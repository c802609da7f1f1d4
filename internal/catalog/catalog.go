package catalog

import (
	"errors"
	"fmt"

	"github.com/vistalab/camsim/internal/models"
)

// Asset directories, relative to the public asset root.
const (
	ImageDir = "/images/"
	OIDir    = "/oi/"
)

var (
	// ErrCatalogUnavailable wraps every failure to read or decode the
	// metadata collection.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	ErrRowOutOfRange = errors.New("row out of range")
)

// Catalog is the loaded, read-only collection of entries in source order.
type Catalog struct {
	source  string
	entries []models.CatalogEntry
}

// New wraps already projected entries.
func New(source string, entries []models.CatalogEntry) *Catalog {
	return &Catalog{
		source:  source,
		entries: entries,
	}
}

// Open loads the metadata file at path and projects it into a Catalog.
func Open(path string) (*Catalog, error) {
	records, err := NewLoader(path).Load()
	if err != nil {
		return nil, err
	}
	return New(path, Project(records)), nil
}

// Project maps metadata records to catalog entries, preserving order.
func Project(records []models.MetadataRecord) []models.CatalogEntry {
	entries := make([]models.CatalogEntry, len(records))
	for i, rec := range records {
		entries[i] = NewEntry(i, rec)
	}
	return entries
}

// NewEntry derives the grid row for the record at position index.
func NewEntry(index int, rec models.MetadataRecord) models.CatalogEntry {
	return models.CatalogEntry{
		Index:        index,
		Scene:        rec.SceneName,
		Illumination: rec.Illumination,
		Lens:         rec.OpticsName,
		Sensor:       rec.SensorName,

		Thumbnail: ImageDir + rec.ThumbnailName,
		Preview:   ImageDir + rec.JPEGName,

		ProcessedImageFilename: rec.JPEGName,
		SensorRawFile:          ImageDir + rec.SensorRawFile,
		SensorRawName:          rec.SensorRawFile,
		OIName:                 rec.OIFile,

		ExposureTime: rec.ExposureTime,
		AEMethod:     rec.AEMethod,
	}
}

// Source is the path the catalog was loaded from.
func (c *Catalog) Source() string {
	return c.source
}

func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns a copy of all entries in source order.
func (c *Catalog) Entries() []models.CatalogEntry {
	out := make([]models.CatalogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Entry returns the entry at row index i.
func (c *Catalog) Entry(i int) (models.CatalogEntry, error) {
	if i < 0 || i >= len(c.entries) {
		return models.CatalogEntry{}, fmt.Errorf("%w: %d (catalog has %d rows)", ErrRowOutOfRange, i, len(c.entries))
	}
	return c.entries[i], nil
}

// First returns the first entry, used for the initial preview image.
func (c *Catalog) First() (models.CatalogEntry, bool) {
	if len(c.entries) == 0 {
		return models.CatalogEntry{}, false
	}
	return c.entries[0], true
}
