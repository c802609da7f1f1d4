// Package grid sorts and filters catalog rows for display.
package grid

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/vistalab/camsim/internal/models"
)

// Column identifies a sortable, filterable grid column.
type Column string

const (
	ColumnScene        Column = "scene"
	ColumnIllumination Column = "illumination"
	ColumnLens         Column = "lens"
	ColumnSensor       Column = "sensor"
)

// ColumnDef describes a visible column.
type ColumnDef struct {
	Column Column
	Header string
}

// Columns lists the visible text columns in display order.
var Columns = []ColumnDef{
	{Column: ColumnScene, Header: "Scene"},
	{Column: ColumnIllumination, Header: "Lighting"},
	{Column: ColumnLens, Header: "Lens Used"},
	{Column: ColumnSensor, Header: "Sensor"},
}

// ParseColumn validates a column name.
func ParseColumn(s string) (Column, error) {
	for _, def := range Columns {
		if string(def.Column) == s {
			return def.Column, nil
		}
	}
	return "", fmt.Errorf("unknown column: %q", s)
}

// Value returns the text shown for e in this column.
func (c Column) Value(e models.CatalogEntry) string {
	switch c {
	case ColumnScene:
		return e.Scene
	case ColumnIllumination:
		return e.Illumination
	case ColumnLens:
		return e.Lens
	case ColumnSensor:
		return e.Sensor
	}
	return ""
}

// Query is a sort order plus per-column filters.
type Query struct {
	SortBy  Column
	Desc    bool
	Filters map[Column]string
}

// FilterParam is the query parameter carrying a column filter.
func FilterParam(c Column) string {
	return "f_" + string(c)
}

// ParseQuery reads sort, desc and f_<column> parameters.
func ParseQuery(v url.Values) (Query, error) {
	var q Query

	if s := v.Get("sort"); s != "" {
		col, err := ParseColumn(s)
		if err != nil {
			return Query{}, err
		}
		q.SortBy = col
	}
	q.Desc = v.Get("desc") == "1" || v.Get("desc") == "true"

	for _, def := range Columns {
		if f := strings.TrimSpace(v.Get(FilterParam(def.Column))); f != "" {
			if q.Filters == nil {
				q.Filters = make(map[Column]string)
			}
			q.Filters[def.Column] = f
		}
	}

	return q, nil
}

// Values encodes q back into query parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.SortBy != "" {
		v.Set("sort", string(q.SortBy))
		if q.Desc {
			v.Set("desc", "1")
		}
	}
	for col, f := range q.Filters {
		v.Set(FilterParam(col), f)
	}
	return v
}

// Apply returns the entries matching every filter, in query order. Entries
// keep their catalog Index.
func Apply(entries []models.CatalogEntry, q Query) []models.CatalogEntry {
	out := make([]models.CatalogEntry, 0, len(entries))
	for _, e := range entries {
		if matches(e, q.Filters) {
			out = append(out, e)
		}
	}

	if q.SortBy != "" {
		slices.SortStableFunc(out, func(a, b models.CatalogEntry) int {
			cmp := strings.Compare(q.SortBy.Value(a), q.SortBy.Value(b))
			if q.Desc {
				return -cmp
			}
			return cmp
		})
	}

	return out
}

func matches(e models.CatalogEntry, filters map[Column]string) bool {
	for col, f := range filters {
		if !strings.Contains(strings.ToLower(col.Value(e)), strings.ToLower(f)) {
			return false
		}
	}
	return true
}
