package handlers

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"

	"github.com/vistalab/camsim/internal/download"
	"github.com/vistalab/camsim/internal/selection"
)

// withDimensions fills in the preview image size when the file is present
// and decodable. Failures only cost the dimensions.
func (h *Handler) withDimensions(p selection.Preview) selection.Preview {
	if p.Image == "" {
		return p
	}

	width, height, err := h.getImageDimensions(p.Image)
	if err != nil {
		slog.Debug("Failed to get preview dimensions", "image", p.Image, "error", err)
		return p
	}

	p.Width = width
	p.Height = height
	return p
}

func (h *Handler) getImageDimensions(assetPath string) (int, int, error) {
	file, _, err := download.OpenAsset(h.publicDir, assetPath)
	if err != nil {
		return 0, 0, err
	}
	defer file.Close()

	img, _, err := image.DecodeConfig(file)
	if err != nil {
		return 0, 0, err
	}

	return img.Width, img.Height, nil
}
