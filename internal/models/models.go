package models

import "time"

// MetadataRecord is one pre-rendered simulation as it appears in the
// metadata file.
type MetadataRecord struct {
	SceneName     string  `json:"scenename" yaml:"scenename" parquet:"scenename"`
	OpticsName    string  `json:"opticsname" yaml:"opticsname" parquet:"opticsname"`
	SensorName    string  `json:"sensorname" yaml:"sensorname" parquet:"sensorname"`
	Illumination  string  `json:"illumination" yaml:"illumination" parquet:"illumination"`
	ThumbnailName string  `json:"thumbnailName" yaml:"thumbnailName" parquet:"thumbnailName"`
	JPEGName      string  `json:"jpegName" yaml:"jpegName" parquet:"jpegName"`
	SensorRawFile string  `json:"sensorRawFile" yaml:"sensorRawFile" parquet:"sensorRawFile"`
	OIFile        string  `json:"oiFile" yaml:"oiFile" parquet:"oiFile"`
	ExposureTime  float64 `json:"exposureTime" yaml:"exposureTime" parquet:"exposureTime"`
	AEMethod      string  `json:"aeMethod" yaml:"aeMethod" parquet:"aeMethod"`
}

// CatalogEntry is a grid row: the visible columns plus the hidden fields
// used for the preview pane and downloads. Entries are never modified after
// the catalog is loaded.
type CatalogEntry struct {
	Index int `json:"index"`

	Scene        string `json:"scene"`
	Illumination string `json:"illumination"`
	Lens         string `json:"lens"`
	Sensor       string `json:"sensor"`

	Thumbnail string `json:"thumbnail"`
	Preview   string `json:"preview"`

	ProcessedImageFilename string `json:"jpeg_file"`
	SensorRawFile          string `json:"sensor_raw_file"`
	SensorRawName          string `json:"sensor_raw_name"`
	OIName                 string `json:"oi_name"`

	ExposureTime float64 `json:"exposure_time"`
	AEMethod     string  `json:"ae_method"`
}

// SelectionState holds the currently selected catalog entry, if any. The
// zero value means nothing has been selected.
type SelectionState struct {
	entry *CatalogEntry
}

// Selected returns a SelectionState holding a copy of entry.
func Selected(entry CatalogEntry) SelectionState {
	return SelectionState{entry: &entry}
}

// Entry returns the selected entry and whether there is one.
func (s SelectionState) Entry() (CatalogEntry, bool) {
	if s.entry == nil {
		return CatalogEntry{}, false
	}
	return *s.entry, true
}

// IsNone reports whether no entry is selected.
func (s SelectionState) IsNone() bool {
	return s.entry == nil
}

// Session is one browser session and its selection.
type Session struct {
	ID        string         `json:"id"`
	Selection SelectionState `json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
