package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/vistalab/camsim/internal/download"
	"github.com/vistalab/camsim/internal/models"
	"github.com/vistalab/camsim/internal/selection"
)

// SessionView is the API representation of a session and its preview pane.
type SessionView struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Preview   selection.Preview `json:"preview"`
}

func (h *Handler) sessionView(session models.Session) SessionView {
	return SessionView{
		ID:        session.ID,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
		Preview:   selection.Render(session.Selection, h.defaultPreviewImage()),
	}
}

func (h *Handler) HandleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		sessions := h.sessionStore.GetAll()
		sessionList := make([]SessionView, 0, len(sessions))
		for _, session := range sessions {
			sessionList = append(sessionList, h.sessionView(session))
		}
		sort.Slice(sessionList, func(i, j int) bool {
			return sessionList[i].CreatedAt.Before(sessionList[j].CreatedAt)
		})
		h.writeJSON(w, sessionList)
	case "POST":
		session, err := h.sessionStore.Create()
		if err != nil {
			h.writeError(w, "Failed to create session: "+err.Error(), http.StatusInternalServerError)
			return
		}
		slog.Info("Session created", "session_id", session.ID)
		h.writeJSONStatus(w, http.StatusCreated, map[string]any{
			"session_id": session.ID,
			"preview":    selection.Render(session.Selection, h.defaultPreviewImage()),
		})
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleSessionDetail serves /api/sessions/<id> and
// /api/sessions/<id>/download/<kind>.
func (h *Handler) HandleSessionDetail(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	parts := strings.Split(rest, "/")
	sessionID := parts[0]

	session, ok := h.getSessionOrError(w, sessionID)
	if !ok {
		return
	}

	switch {
	case len(parts) == 1:
	case len(parts) == 3 && parts[1] == "download":
		h.handleSessionDownload(w, r, session, parts[2])
		return
	default:
		h.writeError(w, "Not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case "GET":
		view := h.sessionView(session)
		view.Preview = h.withDimensions(view.Preview)
		h.writeJSON(w, view)
	case "PUT":
		var request struct {
			Row *int `json:"row"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		if request.Row == nil {
			h.writeError(w, "row is required", http.StatusBadRequest)
			return
		}

		updated, ok := h.selectRow(w, sessionID, *request.Row)
		if !ok {
			return
		}
		h.writeJSON(w, h.sessionView(updated))
	case "DELETE":
		h.sessionStore.Delete(sessionID)
		slog.Info("Session deleted", "session_id", sessionID)
		w.WriteHeader(http.StatusNoContent)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// selectRow runs the selection synchronizer for row in sessionID.
func (h *Handler) selectRow(w http.ResponseWriter, sessionID string, row int) (models.Session, bool) {
	entry, err := h.catalog.Entry(row)
	if err != nil {
		h.writeError(w, "Invalid row: "+err.Error(), http.StatusBadRequest)
		return models.Session{}, false
	}

	updated, ok := h.sessionStore.SetSelection(sessionID, selection.OnRowSelected(entry))
	if !ok {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return models.Session{}, false
	}

	slog.Info("Row selected", "session_id", sessionID, "row", row, "scene", entry.Scene, "lens", entry.Lens, "sensor", entry.Sensor)
	return updated, true
}

func (h *Handler) handleSessionDownload(w http.ResponseWriter, r *http.Request, session models.Session, kindName string) {
	if r.Method != "GET" && r.Method != "HEAD" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	kind, err := download.ParseArtifactKind(kindName)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := download.Resolve(kind, session.Selection)
	if err == nil {
		err = download.Serve(w, r, h.publicDir, res)
	}
	if err != nil {
		h.writeError(w, downloadMessage(err), downloadStatus(err))
	}
}
