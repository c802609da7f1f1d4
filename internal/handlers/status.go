package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/vistalab/camsim/internal/sysinfo"
)

func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	hostInfo, err := sysinfo.Snapshot(r.Context())
	if err != nil {
		slog.Warn("Incomplete host info", "err", err)
	}

	catalogStatus := map[string]any{
		"source": h.catalog.Source(),
		"rows":   h.catalog.Len(),
	}
	if h.loadErr != nil {
		catalogStatus["error"] = h.loadErr.Error()
	}

	h.writeJSON(w, map[string]any{
		"catalog":        catalogStatus,
		"sessions":       h.sessionStore.Len(),
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
		"host":           hostInfo,
	})
}
