package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/vistalab/camsim/internal/catalog"
	"github.com/vistalab/camsim/internal/download"
	"github.com/vistalab/camsim/internal/models"
	"github.com/vistalab/camsim/internal/storage"
)

const sessionCookie = "camsim_session"

// Config locates the metadata file and the public asset root.
type Config struct {
	MetadataPath string
	PublicDir    string
}

type Handler struct {
	sessionStore *storage.SessionStore
	catalog      *catalog.Catalog
	loadErr      error
	publicDir    string
	startedAt    time.Time
}

// New loads the catalog once. A load failure is logged and kept: the grid
// shows zero rows and the page shows the error.
func New(cfg Config) *Handler {
	cat, err := catalog.Open(cfg.MetadataPath)
	if err != nil {
		slog.Error("Unable to load catalog", "path", cfg.MetadataPath, "err", err)
		cat = catalog.New(cfg.MetadataPath, nil)
	} else {
		slog.Info("Catalog loaded", "path", cfg.MetadataPath, "rows", cat.Len())
	}
	return newHandler(cat, err, cfg.PublicDir)
}

func newHandler(cat *catalog.Catalog, loadErr error, publicDir string) *Handler {
	return &Handler{
		sessionStore: storage.New(),
		catalog:      cat,
		loadErr:      loadErr,
		publicDir:    publicDir,
		startedAt:    time.Now(),
	}
}

// ExpireSessions drops sessions idle for longer than ttl.
func (h *Handler) ExpireSessions(ttl time.Duration) int {
	n := h.sessionStore.Expire(time.Now().Add(-ttl))
	if n > 0 {
		slog.Debug("Expired idle sessions", "count", n, "ttl", ttl)
	}
	return n
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	h.writeJSONStatus(w, http.StatusOK, data)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message, "status", code)
	http.Error(w, message, code)
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, sessionID string) (models.Session, bool) {
	session, exists := h.sessionStore.Get(sessionID)
	if !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return models.Session{}, false
	}
	return session, true
}

// browserSession returns the cookie session, starting a new one when the
// cookie is missing or stale.
func (h *Handler) browserSession(w http.ResponseWriter, r *http.Request) (models.Session, error) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if session, ok := h.sessionStore.Get(c.Value); ok {
			return session, nil
		}
	}

	session, err := h.sessionStore.Create()
	if err != nil {
		return models.Session{}, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	slog.Debug("Browser session started", "session_id", session.ID)
	return session, nil
}

func (h *Handler) defaultPreviewImage() string {
	if first, ok := h.catalog.First(); ok {
		return first.Preview
	}
	return ""
}

// downloadStatus maps resolver and asset errors to HTTP status codes.
func downloadStatus(err error) int {
	switch {
	case errors.Is(err, download.ErrNoSelection):
		return http.StatusConflict
	case errors.Is(err, download.ErrUnsupportedKind), errors.Is(err, download.ErrInvalidPath):
		return http.StatusBadRequest
	case errors.Is(err, download.ErrAssetNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func downloadMessage(err error) string {
	if errors.Is(err, download.ErrNoSelection) {
		return download.NoSelectionMessage
	}
	return "Download failed: " + err.Error()
}
