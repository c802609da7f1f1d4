// Package selection derives the preview pane from a session's selected row.
package selection

import (
	"fmt"

	"github.com/vistalab/camsim/internal/models"
)

const (
	// NoSceneCaption is shown until a row is selected.
	NoSceneCaption = "No Scene Selected"

	placeholder = "..."
)

// Preview is the read-only view rendered next to the grid.
type Preview struct {
	Selected bool   `json:"selected"`
	Row      *int   `json:"row,omitempty"`
	Image    string `json:"image"`
	Caption  string `json:"caption"`
	Exposure string `json:"exposure"`
	AEMethod string `json:"ae_method"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// OnRowSelected returns the state that replaces the previous selection.
// Nothing from the old state carries over.
func OnRowSelected(entry models.CatalogEntry) models.SelectionState {
	return models.Selected(entry)
}

// Render builds the preview for state. With nothing selected the image falls
// back to defaultImage and the property cells show placeholders.
func Render(state models.SelectionState, defaultImage string) Preview {
	entry, ok := state.Entry()
	if !ok {
		return Preview{
			Image:    defaultImage,
			Caption:  NoSceneCaption,
			Exposure: placeholder,
			AEMethod: placeholder,
		}
	}

	row := entry.Index
	return Preview{
		Selected: true,
		Row:      &row,
		Image:    entry.Preview,
		Caption:  entry.ProcessedImageFilename,
		Exposure: FormatExposure(entry.ExposureTime),
		AEMethod: entry.AEMethod,
	}
}

// FormatExposure renders an exposure time in seconds to four decimals.
func FormatExposure(seconds float64) string {
	return fmt.Sprintf("%.4f seconds", seconds)
}
