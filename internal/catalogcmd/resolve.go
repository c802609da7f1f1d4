package catalogcmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/vistalab/camsim/internal/catalog"
	"github.com/vistalab/camsim/internal/download"
	"github.com/vistalab/camsim/internal/models"
	"github.com/vistalab/camsim/internal/selection"
)

// resolveRow loads the catalog, selects row (none when negative) and resolves
// kindName against that selection.
func resolveRow(metadataPath string, row int, kindName string) (download.Resolution, error) {
	kind, err := download.ParseArtifactKind(kindName)
	if err != nil {
		return download.Resolution{}, err
	}

	cat, err := catalog.Open(metadataPath)
	if err != nil {
		return download.Resolution{}, fmt.Errorf("failed to load catalog: %w", err)
	}

	var state models.SelectionState
	if row >= 0 {
		entry, err := cat.Entry(row)
		if err != nil {
			return download.Resolution{}, err
		}
		state = selection.OnRowSelected(entry)
	}

	res, err := download.Resolve(kind, state)
	if errors.Is(err, download.ErrNoSelection) {
		return download.Resolution{}, fmt.Errorf("%s (pass --row): %w", download.NoSelectionMessage, err)
	}
	return res, err
}

func executeResolve(w io.Writer, metadataPath string, row int, kindName, format string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("unsupported format: %s", format)
	}

	res, err := resolveRow(metadataPath, row, kindName)
	if err != nil {
		return err
	}

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprintf(w, "Kind: %s\n", res.Kind)
	fmt.Fprintf(w, "Path: %s\n", res.Path)
	fmt.Fprintf(w, "Name: %s\n", res.SuggestedName)
	return nil
}

func executeFetch(ctx context.Context, w io.Writer, metadataPath, serverURL string, row int, kindName, outputDir string) error {
	res, err := resolveRow(metadataPath, row, kindName)
	if err != nil {
		return err
	}

	path, err := download.NewFetcher().Fetch(ctx, serverURL, res, outputDir)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Saved %s to %s\n", res.SuggestedName, path)
	return nil
}
