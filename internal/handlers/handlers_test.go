package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vistalab/camsim/internal/catalog"
	"github.com/vistalab/camsim/internal/models"
)

func testRecords() []models.MetadataRecord {
	return []models.MetadataRecord{
		{
			SceneName:     "S1",
			OpticsName:    "L1",
			SensorName:    "Sen1",
			Illumination:  "D65",
			ThumbnailName: "a_thumb.jpg",
			JPEGName:      "a.jpg",
			SensorRawFile: "a.raw",
			OIFile:        "a.oi",
			ExposureTime:  0.1,
			AEMethod:      "Auto",
		},
		{
			SceneName:     "S2",
			OpticsName:    "L2",
			SensorName:    "Sen2",
			Illumination:  "Tungsten",
			JPEGName:      "missing.jpg",
			SensorRawFile: "missing.raw",
			OIFile:        "missing.oi",
			ExposureTime:  0.02,
			AEMethod:      "Specular",
		},
	}
}

func writeAsset(t *testing.T, publicDir, rel string, data []byte) {
	t.Helper()
	path := filepath.Join(publicDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write asset: %v", err)
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	return buf.Bytes()
}

func newTestHandler(t *testing.T) (*Handler, string) {
	t.Helper()
	publicDir := t.TempDir()
	writeAsset(t, publicDir, "images/a.jpg", pngBytes(t, 8, 6))
	writeAsset(t, publicDir, "images/a_thumb.jpg", pngBytes(t, 2, 2))
	writeAsset(t, publicDir, "images/a.raw", []byte("volts"))
	writeAsset(t, publicDir, "oi/a.oi", []byte("optical image"))

	cat := catalog.New("test", catalog.Project(testRecords()))
	return newHandler(cat, nil, publicDir), publicDir
}

func newBrowser(t *testing.T, h *Handler) (*httptest.Server, *http.Client) {
	t.Helper()
	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("Failed to create cookie jar: %v", err)
	}
	return srv, &http.Client{Jar: jar}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}
	return string(data)
}

func TestPageScenario(t *testing.T) {
	h, _ := newTestHandler(t)
	srv, client := newBrowser(t, h)

	resp, err := client.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET / failed: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	for _, want := range []string{"No Scene Selected", `src="/images/a.jpg"`, "Lighting", "Lens Used", `id="dlSensorVolts"`} {
		if !strings.Contains(body, want) {
			t.Errorf("Initial page missing %q", want)
		}
	}

	// Download before selecting anything.
	resp, err = client.Get(srv.URL + "/download/raw")
	if err != nil {
		t.Fatalf("GET /download/raw failed: %v", err)
	}
	body = readBody(t, resp)
	if !strings.Contains(body, "You need to select a sensor image first.") {
		t.Error("Expected the no-selection notice")
	}

	resp, err = client.PostForm(srv.URL+"/select", url.Values{"row": {"0"}, "q": {"sort=scene"}})
	if err != nil {
		t.Fatalf("POST /select failed: %v", err)
	}
	body = readBody(t, resp)
	if resp.Request.URL.RawQuery != "sort=scene" {
		t.Errorf("Expected redirect to keep the grid query, got %q", resp.Request.URL.RawQuery)
	}
	for _, want := range []string{
		`<div id="previewCaption">a.jpg</div>`,
		`<td id="eTime">0.1000 seconds</td>`,
		`<td id="aeMethod">Auto</td>`,
		`data-row="0" class="selected"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Selected page missing %q", want)
		}
	}

	resp, err = client.Get(srv.URL + "/download/dlSensorVolts")
	if err != nil {
		t.Fatalf("GET /download/dlSensorVolts failed: %v", err)
	}
	body = readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, body)
	}
	if got := resp.Header.Get("Content-Disposition"); got != "attachment; filename=a.raw" {
		t.Errorf("Unexpected Content-Disposition: %s", got)
	}
	if body != "volts" {
		t.Errorf("Expected raw sensor bytes, got %q", body)
	}
}

func TestSelectionIsPerBrowser(t *testing.T) {
	h, _ := newTestHandler(t)
	srv, alice := newBrowser(t, h)
	_, bob := newBrowser(t, h)

	resp, err := alice.PostForm(srv.URL+"/select", url.Values{"row": {"0"}})
	if err != nil {
		t.Fatalf("POST /select failed: %v", err)
	}
	readBody(t, resp)

	resp, err = bob.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET / failed: %v", err)
	}
	if body := readBody(t, resp); !strings.Contains(body, "No Scene Selected") {
		t.Error("Selection leaked between browser sessions")
	}
}

func TestSelectInvalidRow(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name string
		row  string
	}{
		{"not a number", "abc"},
		{"out of range", "7"},
		{"negative", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/select", strings.NewReader("row="+tt.row))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()

			h.HandleSelect(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestPageDownloadErrors(t *testing.T) {
	h, _ := newTestHandler(t)
	srv, client := newBrowser(t, h)

	resp, err := client.Get(srv.URL + "/download/thumbnail")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	readBody(t, resp)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown kind, got %d", resp.StatusCode)
	}

	resp, err = client.PostForm(srv.URL+"/select", url.Values{"row": {"1"}})
	if err != nil {
		t.Fatalf("POST /select failed: %v", err)
	}
	readBody(t, resp)

	resp, err = client.Get(srv.URL + "/download/oi")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	readBody(t, resp)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for a missing asset, got %d", resp.StatusCode)
	}
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSessionAPI(t *testing.T) {
	h, _ := newTestHandler(t)
	mux := h.Routes()

	rec := doJSON(t, mux, http.MethodPost, "/api/sessions", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", rec.Code)
	}
	var created struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	base := "/api/sessions/" + created.SessionID

	for _, kind := range []string{"raw", "rgb", "oi"} {
		rec = doJSON(t, mux, http.MethodGet, base+"/download/"+kind, nil)
		if rec.Code != http.StatusConflict {
			t.Errorf("%s: expected 409 without selection, got %d", kind, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "You need to select a sensor image first.") {
			t.Errorf("%s: expected user message, got %q", kind, rec.Body.String())
		}
	}

	rec = doJSON(t, mux, http.MethodPut, base, map[string]int{"row": 0})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var view SessionView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if view.Preview.Caption != "a.jpg" || view.Preview.Exposure != "0.1000 seconds" || view.Preview.AEMethod != "Auto" {
		t.Errorf("Unexpected preview: %+v", view.Preview)
	}

	rec = doJSON(t, mux, http.MethodGet, base, nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if view.Preview.Width != 8 || view.Preview.Height != 6 {
		t.Errorf("Expected preview 8x6, got %dx%d", view.Preview.Width, view.Preview.Height)
	}

	rec = doJSON(t, mux, http.MethodGet, base+"/download/oi", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "optical image" {
		t.Errorf("Unexpected body: %q", rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); got != "attachment; filename=a.oi" {
		t.Errorf("Unexpected Content-Disposition: %s", got)
	}

	rec = doJSON(t, mux, http.MethodGet, base+"/download/rgb", nil)
	if got := rec.Header().Get("Content-Disposition"); got != "attachment; filename=a.jpg" {
		t.Errorf("Unexpected Content-Disposition: %s", got)
	}

	errorCases := []struct {
		name   string
		method string
		path   string
		body   any
		code   int
	}{
		{"row out of range", http.MethodPut, base, map[string]int{"row": 99}, http.StatusBadRequest},
		{"row missing", http.MethodPut, base, map[string]string{}, http.StatusBadRequest},
		{"unknown kind", http.MethodGet, base + "/download/thumb", nil, http.StatusBadRequest},
		{"unknown sub-resource", http.MethodGet, base + "/other", nil, http.StatusNotFound},
		{"unknown session", http.MethodGet, "/api/sessions/nope", nil, http.StatusNotFound},
		{"bad method", http.MethodPatch, base, nil, http.StatusMethodNotAllowed},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, mux, tc.method, tc.path, tc.body)
			if rec.Code != tc.code {
				t.Errorf("Expected %d, got %d", tc.code, rec.Code)
			}
		})
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/sessions", nil)
	var list []SessionView
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.SessionID {
		t.Errorf("Unexpected session list: %+v", list)
	}

	if rec = doJSON(t, mux, http.MethodDelete, base, nil); rec.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", rec.Code)
	}
	if rec = doJSON(t, mux, http.MethodGet, base, nil); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", rec.Code)
	}
}

func TestCatalogAPI(t *testing.T) {
	h, _ := newTestHandler(t)
	mux := h.Routes()

	rec := doJSON(t, mux, http.MethodGet, "/api/catalog?f_illumination=tung", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp struct {
		Total int                   `json:"total"`
		Count int                   `json:"count"`
		Rows  []models.CatalogEntry `json:"rows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if resp.Total != 2 || resp.Count != 1 {
		t.Errorf("Expected total 2 count 1, got %d/%d", resp.Total, resp.Count)
	}
	if len(resp.Rows) != 1 || resp.Rows[0].Index != 1 || resp.Rows[0].Scene != "S2" {
		t.Errorf("Unexpected rows: %+v", resp.Rows)
	}

	if rec = doJSON(t, mux, http.MethodGet, "/api/catalog?sort=bogus", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad sort, got %d", rec.Code)
	}
}

func TestCatalogLoadFailure(t *testing.T) {
	h := New(Config{
		MetadataPath: filepath.Join(t.TempDir(), "missing.json"),
		PublicDir:    t.TempDir(),
	})
	if !errors.Is(h.loadErr, catalog.ErrCatalogUnavailable) {
		t.Fatalf("Expected ErrCatalogUnavailable, got %v", h.loadErr)
	}
	mux := h.Routes()

	if rec := doJSON(t, mux, http.MethodGet, "/api/catalog", nil); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", rec.Code)
	}

	rec := doJSON(t, mux, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected the page to render, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `id="catalogError"`) || !strings.Contains(body, "No rows") {
		t.Error("Expected an error banner and an empty grid")
	}
}

func TestNewLoadsCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.json")
	if err := catalog.Export(path, "json", testRecords()); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	h := New(Config{MetadataPath: path, PublicDir: t.TempDir()})
	if h.loadErr != nil {
		t.Fatalf("Unexpected load error: %v", h.loadErr)
	}
	if h.catalog.Len() != 2 {
		t.Errorf("Expected 2 rows, got %d", h.catalog.Len())
	}
}

func TestStaticAssets(t *testing.T) {
	h, publicDir := newTestHandler(t)
	writeAsset(t, filepath.Dir(publicDir), "secret.txt", []byte("secret"))
	mux := h.Routes()

	rec := doJSON(t, mux, http.MethodGet, "/images/a.raw", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "volts" {
		t.Errorf("Expected asset, got %d %q", rec.Code, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/images/x", nil)
	req.URL.Path = "/images/../../secret.txt"
	rec = httptest.NewRecorder()
	h.HandleStatic(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for traversal, got %d", rec.Code)
	}

	if rec = doJSON(t, mux, http.MethodGet, "/oi/none.oi", nil); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestStatusAndHealthcheck(t *testing.T) {
	h, _ := newTestHandler(t)
	mux := h.Routes()

	rec := doJSON(t, mux, http.MethodGet, "/healthcheck", nil)
	if rec.Body.String() != "OK" {
		t.Errorf("Expected OK, got %q", rec.Body.String())
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var status struct {
		Catalog struct {
			Rows int `json:"rows"`
		} `json:"catalog"`
		Sessions int `json:"sessions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if status.Catalog.Rows != 2 {
		t.Errorf("Expected 2 rows, got %d", status.Catalog.Rows)
	}
}

func TestUnknownPath(t *testing.T) {
	h, _ := newTestHandler(t)
	if rec := doJSON(t, h.Routes(), http.MethodGet, "/nope", nil); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestIndexURL(t *testing.T) {
	tests := []struct {
		encoded  string
		expected string
	}{
		{"", "/"},
		{"sort=lens&desc=1", "/?desc=1&sort=lens"},
		{"f_scene=mac&notice=x", "/?f_scene=mac"},
		{"sort=bogus", "/"},
		{"%zz", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.encoded, func(t *testing.T) {
			if got := indexURL(tt.encoded); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}
