package catalogcmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/vistalab/camsim/internal/catalog"
	"github.com/vistalab/camsim/internal/grid"
	"github.com/vistalab/camsim/internal/models"
	"github.com/vistalab/camsim/internal/selection"
)

func buildQuery(sortBy string, desc bool, filters map[string]string) (grid.Query, error) {
	q := grid.Query{Desc: desc}

	if sortBy != "" {
		col, err := grid.ParseColumn(sortBy)
		if err != nil {
			return grid.Query{}, err
		}
		q.SortBy = col
	}

	for name, text := range filters {
		col, err := grid.ParseColumn(name)
		if err != nil {
			return grid.Query{}, fmt.Errorf("invalid filter: %w", err)
		}
		if q.Filters == nil {
			q.Filters = make(map[grid.Column]string)
		}
		q.Filters[col] = text
	}

	return q, nil
}

func executeList(w io.Writer, metadataPath, format, sortBy string, desc bool, filters map[string]string) error {
	query, err := buildQuery(sortBy, desc, filters)
	if err != nil {
		return err
	}

	cat, err := catalog.Open(metadataPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	rows := grid.Apply(cat.Entries(), query)

	switch format {
	case "text":
		return printTextList(w, cat, rows)
	case "json":
		return printJSONList(w, rows)
	case "csv":
		return printCSVList(w, rows)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func printTextList(w io.Writer, cat *catalog.Catalog, rows []models.CatalogEntry) error {
	fmt.Fprintf(w, "Catalog: %s (%d rows, %d shown)\n\n", cat.Source(), cat.Len(), len(rows))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprint(tw, "#")
	for _, def := range grid.Columns {
		fmt.Fprintf(tw, "\t%s", def.Header)
	}
	fmt.Fprintln(tw, "\tExposure\tAE Method")

	for _, e := range rows {
		fmt.Fprintf(tw, "%d", e.Index)
		for _, def := range grid.Columns {
			fmt.Fprintf(tw, "\t%s", def.Column.Value(e))
		}
		fmt.Fprintf(tw, "\t%s\t%s\n", selection.FormatExposure(e.ExposureTime), e.AEMethod)
	}

	return tw.Flush()
}

func printJSONList(w io.Writer, rows []models.CatalogEntry) error {
	if rows == nil {
		rows = []models.CatalogEntry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func printCSVList(w io.Writer, rows []models.CatalogEntry) error {
	writer := csv.NewWriter(w)

	header := []string{"index", "scene", "illumination", "lens", "sensor", "thumbnail", "preview", "jpeg_file", "sensor_raw_file", "oi_name", "exposure_time", "ae_method"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, e := range rows {
		record := []string{
			strconv.Itoa(e.Index),
			e.Scene,
			e.Illumination,
			e.Lens,
			e.Sensor,
			e.Thumbnail,
			e.Preview,
			e.ProcessedImageFilename,
			e.SensorRawFile,
			e.OIName,
			strconv.FormatFloat(e.ExposureTime, 'f', -1, 64),
			e.AEMethod,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
