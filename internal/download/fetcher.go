package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Fetcher saves resolved artifacts from a running server to disk
type Fetcher struct {
	HTTPClient *http.Client
}

// NewFetcher creates a new fetcher
func NewFetcher() *Fetcher {
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout: 10 * time.Minute,
		},
	}
}

// Fetch downloads res.Path from serverURL into outputDir under
// res.SuggestedName and returns the written file path.
func (f *Fetcher) Fetch(ctx context.Context, serverURL string, res Resolution, outputDir string) (string, error) {
	base, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	assetURL := base.JoinPath(res.Path).String()

	name := filepath.Base(res.SuggestedName)
	if name == "." || name == string(filepath.Separator) || strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: no filename for %s", ErrInvalidPath, res.Path)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	outputPath := filepath.Join(outputDir, name)

	slog.Info("Fetching artifact", "kind", res.Kind.String(), "url", assetURL, "output", outputPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", res.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: %s", ErrAssetNotFound, res.Path)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download %s: HTTP %d", res.Path, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(outputDir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	written, err := io.Copy(tmp, resp.Body)
	if err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to save %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), outputPath); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", name, err)
	}

	slog.Info("Saved artifact", "path", outputPath, "bytes", written)
	return outputPath, nil
}
