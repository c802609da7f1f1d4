package handlers

import (
	"net/http"

	"github.com/vistalab/camsim/internal/grid"
	"github.com/vistalab/camsim/internal/models"
)

type columnInfo struct {
	Field  grid.Column `json:"field"`
	Header string      `json:"header"`
}

// HandleCatalog returns the grid rows, filtered and sorted by the query.
func (h *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.loadErr != nil {
		h.writeError(w, "Catalog unavailable: "+h.loadErr.Error(), http.StatusServiceUnavailable)
		return
	}

	query, err := grid.ParseQuery(r.URL.Query())
	if err != nil {
		h.writeError(w, "Invalid query: "+err.Error(), http.StatusBadRequest)
		return
	}

	columns := make([]columnInfo, 0, len(grid.Columns))
	for _, def := range grid.Columns {
		columns = append(columns, columnInfo{Field: def.Column, Header: def.Header})
	}

	rows := grid.Apply(h.catalog.Entries(), query)

	h.writeJSON(w, struct {
		Total   int                   `json:"total"`
		Count   int                   `json:"count"`
		Columns []columnInfo          `json:"columns"`
		Rows    []models.CatalogEntry `json:"rows"`
	}{
		Total:   h.catalog.Len(),
		Count:   len(rows),
		Columns: columns,
		Rows:    rows,
	})
}
