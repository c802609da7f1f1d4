package handlers

import (
	"errors"
	"net/http"
	"path"

	"github.com/vistalab/camsim/internal/download"
)

// HandleStatic serves files under the public asset root (/images/, /oi/).
func (h *Handler) HandleStatic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	file, info, err := download.OpenAsset(h.publicDir, r.URL.Path)
	if err != nil {
		if errors.Is(err, download.ErrAssetNotFound) {
			http.NotFound(w, r)
			return
		}
		h.writeError(w, "Invalid file path", http.StatusBadRequest)
		return
	}
	defer file.Close()

	http.ServeContent(w, r, path.Base(r.URL.Path), info.ModTime(), file)
}
