// Package download resolves which file a download action refers to and
// serves or fetches it.
package download

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vistalab/camsim/internal/catalog"
	"github.com/vistalab/camsim/internal/models"
)

// ArtifactKind is one of the downloadable files of a catalog entry.
type ArtifactKind int

const (
	RawSensorVolts ArtifactKind = iota + 1
	ProcessedRGB
	OpticalImage
)

// NoSelectionMessage is shown to the user for ErrNoSelection.
const NoSelectionMessage = "You need to select a sensor image first."

var (
	// ErrNoSelection means a download was requested before any row was
	// selected.
	ErrNoSelection = errors.New("no sensor image selected")

	ErrUnsupportedKind = errors.New("unsupported artifact kind")
)

// Kinds lists the artifact kinds in button order.
func Kinds() []ArtifactKind {
	return []ArtifactKind{RawSensorVolts, ProcessedRGB, OpticalImage}
}

type kindInfo struct {
	id    string
	short string
	label string
}

var kindInfos = map[ArtifactKind]kindInfo{
	RawSensorVolts: {id: "dlSensorVolts", short: "raw", label: "Download Sensor Image (volts)"},
	ProcessedRGB:   {id: "dlIPRGB", short: "rgb", label: "Download Processed Image (rgb)"},
	OpticalImage:   {id: "dlOI", short: "oi", label: "Download Optical Image (large)"},
}

// ParseArtifactKind accepts either the button id (dlSensorVolts, dlIPRGB,
// dlOI) or the short name (raw, rgb, oi).
func ParseArtifactKind(s string) (ArtifactKind, error) {
	for _, k := range Kinds() {
		info := kindInfos[k]
		if s == info.id || strings.EqualFold(s, info.short) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedKind, s)
}

// String returns the short name used in URLs.
func (k ArtifactKind) String() string {
	if info, ok := kindInfos[k]; ok {
		return info.short
	}
	return fmt.Sprintf("ArtifactKind(%d)", int(k))
}

func (k ArtifactKind) MarshalText() ([]byte, error) {
	if _, ok := kindInfos[k]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedKind, int(k))
	}
	return []byte(k.String()), nil
}

// ID returns the download button id.
func (k ArtifactKind) ID() string {
	return kindInfos[k].id
}

// Label returns the download button text.
func (k ArtifactKind) Label() string {
	return kindInfos[k].label
}

// Resolution is the asset to fetch and the filename offered to the user.
type Resolution struct {
	Kind          ArtifactKind `json:"kind"`
	Path          string       `json:"path"`
	SuggestedName string       `json:"suggested_name"`
}

// Resolve maps kind and the current selection to a concrete file. Paths are
// relative to the public asset root.
func Resolve(kind ArtifactKind, sel models.SelectionState) (Resolution, error) {
	entry, ok := sel.Entry()
	if !ok {
		return Resolution{}, ErrNoSelection
	}

	switch kind {
	case RawSensorVolts:
		return Resolution{Kind: kind, Path: entry.SensorRawFile, SuggestedName: entry.SensorRawName}, nil
	case ProcessedRGB:
		return Resolution{Kind: kind, Path: entry.Preview, SuggestedName: entry.ProcessedImageFilename}, nil
	case OpticalImage:
		return Resolution{Kind: kind, Path: catalog.OIDir + entry.OIName, SuggestedName: entry.OIName}, nil
	default:
		return Resolution{}, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}
}
