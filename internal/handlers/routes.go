package handlers

import (
	"log/slog"
	"net/http"
)

// Routes wires every endpoint onto a new mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/catalog", h.HandleCatalog)
	mux.HandleFunc("/api/sessions", h.HandleSessions)
	mux.HandleFunc("/api/sessions/", h.HandleSessionDetail)
	mux.HandleFunc("/api/status", h.HandleStatus)
	mux.HandleFunc("/select", h.HandleSelect)
	mux.HandleFunc("/download/", h.HandleDownload)
	mux.HandleFunc("/images/", h.HandleStatic)
	mux.HandleFunc("/oi/", h.HandleStatic)
	mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	mux.HandleFunc("/", h.HandleIndex)
	return mux
}
