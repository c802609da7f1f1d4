package download

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path"
	"strings"
)

var (
	// ErrAssetNotFound means the resolved file does not exist under the
	// public asset root.
	ErrAssetNotFound = errors.New("asset not found")

	ErrInvalidPath = errors.New("invalid asset path")
)

// OpenAsset opens a public-root-relative path such as /images/a.jpg. Paths
// that would leave publicDir are rejected.
func OpenAsset(publicDir, assetPath string) (*os.File, fs.FileInfo, error) {
	rel := strings.TrimPrefix(path.Clean("/"+assetPath), "/")
	if rel == "" || rel == "." {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidPath, assetPath)
	}

	root, err := os.OpenRoot(publicDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open public directory: %w", err)
	}
	defer root.Close()

	file, err := root.Open(rel)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrAssetNotFound, assetPath)
		}
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrInvalidPath, assetPath, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("failed to stat asset: %w", err)
	}
	if info.IsDir() {
		file.Close()
		return nil, nil, fmt.Errorf("%w: %s is a directory", ErrAssetNotFound, assetPath)
	}

	return file, info, nil
}

// ContentDisposition builds an attachment header offering name.
func ContentDisposition(name string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": name})
}

// Serve writes the resolved asset as an attachment. Nothing is written to w
// when an error is returned.
func Serve(w http.ResponseWriter, r *http.Request, publicDir string, res Resolution) error {
	file, info, err := OpenAsset(publicDir, res.Path)
	if err != nil {
		return err
	}
	defer file.Close()

	slog.Info("Serving download", "kind", res.Kind.String(), "path", res.Path, "name", res.SuggestedName, "size", info.Size())

	w.Header().Set("Content-Disposition", ContentDisposition(res.SuggestedName))
	http.ServeContent(w, r, res.SuggestedName, info.ModTime(), file)
	return nil
}
