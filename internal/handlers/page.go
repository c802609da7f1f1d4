package handlers

import (
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/vistalab/camsim/internal/download"
	"github.com/vistalab/camsim/internal/grid"
	"github.com/vistalab/camsim/internal/selection"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

const noticeNoSelection = "no-selection"

type columnView struct {
	Header      string
	SortURL     string
	Sorted      bool
	Desc        bool
	FilterParam string
	FilterValue string
}

type rowView struct {
	Index     int
	Thumbnail string
	Cells     []string
	Selected  bool
}

type downloadView struct {
	ID    string
	URL   string
	Label string
}

type pageData struct {
	Error         string
	Notice        string
	Columns       []columnView
	Rows          []rowView
	Total         int
	Query         string
	Preview       selection.Preview
	Downloads     []downloadView
	ExposureModes []string
	ExposureMarks []int
}

// HandleIndex renders the catalog grid and the preview pane for the
// browser session.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != "GET" && r.Method != "HEAD" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := h.browserSession(w, r)
	if err != nil {
		h.writeError(w, "Failed to start session: "+err.Error(), http.StatusInternalServerError)
		return
	}

	query, err := grid.ParseQuery(r.URL.Query())
	if err != nil {
		h.writeError(w, "Invalid query: "+err.Error(), http.StatusBadRequest)
		return
	}

	preview := selection.Render(session.Selection, h.defaultPreviewImage())

	data := pageData{
		Total:         h.catalog.Len(),
		Query:         query.Values().Encode(),
		Preview:       preview,
		Columns:       columnViews(query),
		ExposureModes: []string{"Auto-Exposure", "Burst", "Bracketed"},
		ExposureMarks: []int{1, 3, 5},
	}
	if h.loadErr != nil {
		data.Error = h.loadErr.Error()
	}
	if r.URL.Query().Get("notice") == noticeNoSelection {
		data.Notice = download.NoSelectionMessage
	}

	for _, e := range grid.Apply(h.catalog.Entries(), query) {
		cells := make([]string, 0, len(grid.Columns))
		for _, def := range grid.Columns {
			cells = append(cells, def.Column.Value(e))
		}
		data.Rows = append(data.Rows, rowView{
			Index:     e.Index,
			Thumbnail: e.Thumbnail,
			Cells:     cells,
			Selected:  preview.Row != nil && *preview.Row == e.Index,
		})
	}

	for _, k := range download.Kinds() {
		data.Downloads = append(data.Downloads, downloadView{
			ID:    k.ID(),
			URL:   "/download/" + k.String(),
			Label: k.Label(),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		slog.Error("Unable to render page", "err", err)
	}
}

func columnViews(q grid.Query) []columnView {
	views := make([]columnView, 0, len(grid.Columns))
	for _, def := range grid.Columns {
		sorted := q.SortBy == def.Column

		next := q
		next.SortBy = def.Column
		next.Desc = sorted && !q.Desc

		views = append(views, columnView{
			Header:      def.Header,
			SortURL:     "/?" + next.Values().Encode(),
			Sorted:      sorted,
			Desc:        sorted && q.Desc,
			FilterParam: grid.FilterParam(def.Column),
			FilterValue: q.Filters[def.Column],
		})
	}
	return views
}

// HandleSelect applies a row selection from the page and redirects back to
// the grid with the same sort and filters.
func (h *Handler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.writeError(w, "Invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}

	row, err := strconv.Atoi(r.FormValue("row"))
	if err != nil {
		h.writeError(w, "Invalid row: "+r.FormValue("row"), http.StatusBadRequest)
		return
	}

	session, err := h.browserSession(w, r)
	if err != nil {
		h.writeError(w, "Failed to start session: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if _, ok := h.selectRow(w, session.ID, row); !ok {
		return
	}

	http.Redirect(w, r, indexURL(r.FormValue("q")), http.StatusSeeOther)
}

// HandleDownload serves /download/<kind> for the browser session.
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" && r.Method != "HEAD" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	kind, err := download.ParseArtifactKind(strings.TrimPrefix(r.URL.Path, "/download/"))
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := h.browserSession(w, r)
	if err != nil {
		h.writeError(w, "Failed to start session: "+err.Error(), http.StatusInternalServerError)
		return
	}

	res, err := download.Resolve(kind, session.Selection)
	if errors.Is(err, download.ErrNoSelection) {
		slog.Info("Download requested without a selection", "session_id", session.ID, "kind", kind.String())
		http.Redirect(w, r, "/?notice="+noticeNoSelection, http.StatusSeeOther)
		return
	}
	if err == nil {
		err = download.Serve(w, r, h.publicDir, res)
	}
	if err != nil {
		h.writeError(w, downloadMessage(err), downloadStatus(err))
	}
}

// indexURL rebuilds the grid URL from an encoded query, dropping anything
// that is not a grid parameter.
func indexURL(encoded string) string {
	values, err := url.ParseQuery(encoded)
	if err != nil {
		return "/"
	}
	q, err := grid.ParseQuery(values)
	if err != nil {
		return "/"
	}
	if v := q.Values().Encode(); v != "" {
		return "/?" + v
	}
	return "/"
}
