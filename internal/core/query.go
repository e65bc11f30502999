package core

// query.go derives the table view from a snapshot's records.
//
// Filtering and sorting never touch the records themselves: Sequence is
// carried through verbatim, so a row keeps its number under any view.

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
)

// SortField names a sortable table column.
type SortField string

const (
	SortRegion     SortField = "region"
	SortLocality   SortField = "locality"
	SortCompliance SortField = "compliance"
)

// SortDir is the direction of the primary sort key.
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// Query is the full set of table controls.
type Query struct {
	Search string    `json:"q,omitempty"`
	Region string    `json:"region,omitempty"`
	Status Status    `json:"status,omitempty"` // "" matches every record
	Sort   SortField `json:"sort"`
	Dir    SortDir   `json:"dir"`
}

// DefaultQuery sorts by region ascending with no filters.
func DefaultQuery() Query {
	return Query{Sort: SortRegion, Dir: SortAsc}
}

// Normalize trims the free-text fields and resets unknown values to
// their defaults.
func (q Query) Normalize() Query {
	q.Search = strings.TrimSpace(q.Search)
	q.Region = strings.TrimSpace(q.Region)

	switch q.Status {
	case "", StatusCompliant, StatusNonCompliant:
	default:
		q.Status = ""
	}

	switch q.Sort {
	case SortRegion, SortLocality, SortCompliance:
	default:
		q.Sort = SortRegion
	}

	if q.Dir != SortDesc {
		q.Dir = SortAsc
	}
	return q
}

// Toggle returns the query after a click on field's header: the active
// column flips direction, any other column becomes active ascending.
func (q Query) Toggle(field SortField) Query {
	if q.Sort == field {
		if q.Dir == SortAsc {
			q.Dir = SortDesc
		} else {
			q.Dir = SortAsc
		}
		return q
	}
	q.Sort = field
	q.Dir = SortAsc
	return q
}

// Matches reports whether rec passes the search and both filters.
func (q Query) Matches(rec Record) bool {
	if q.Region != "" && rec.Region != q.Region {
		return false
	}
	if q.Status != "" && rec.Status() != q.Status {
		return false
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(rec.Region), needle) &&
			!strings.Contains(strings.ToLower(rec.Locality), needle) {
			return false
		}
	}
	return true
}

// TableView is the derived, display-ready table.
type TableView struct {
	Query   Query    `json:"query"`
	Rows    []Record `json:"rows"`
	Shown   int      `json:"shown"`
	Total   int      `json:"total"`
	Regions []string `json:"regions"`
}

// ApplyQuery filters and sorts records. The input slice is not modified.
func ApplyQuery(records []Record, q Query) TableView {
	q = q.Normalize()

	rows := make([]Record, 0, len(records))
	for _, rec := range records {
		if q.Matches(rec) {
			rows = append(rows, rec)
		}
	}

	col := newCollator()
	sort.SliceStable(rows, func(i, j int) bool {
		return lessRecord(col, rows[i], rows[j], q.Sort, q.Dir)
	})

	return TableView{
		Query:   q,
		Rows:    rows,
		Shown:   len(rows),
		Total:   len(records),
		Regions: DistinctRegions(records),
	}
}

// DistinctRegions returns the region names present in records in Spanish
// collation order.
func DistinctRegions(records []Record) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, rec := range records {
		if _, ok := seen[rec.Region]; ok {
			continue
		}
		seen[rec.Region] = struct{}{}
		out = append(out, rec.Region)
	}

	col := newCollator()
	sort.Slice(out, func(i, j int) bool {
		if c := col.CompareString(out[i], out[j]); c != 0 {
			return c < 0
		}
		return out[i] < out[j]
	})
	return out
}

// lessRecord orders by the primary field in the requested direction, then
// by region, locality and sequence ascending.
func lessRecord(col *collate.Collator, a, b Record, field SortField, dir SortDir) bool {
	var c int
	switch field {
	case SortCompliance:
		c = compareCompliance(a.Compliant, b.Compliant)
	case SortLocality:
		c = col.CompareString(a.Locality, b.Locality)
	default:
		c = col.CompareString(a.Region, b.Region)
	}
	if dir == SortDesc {
		c = -c
	}
	if c != 0 {
		return c < 0
	}

	if c := col.CompareString(a.Region, b.Region); c != 0 {
		return c < 0
	}
	if c := col.CompareString(a.Locality, b.Locality); c != 0 {
		return c < 0
	}
	return a.Sequence < b.Sequence
}

// compareCompliance puts compliant records first.
func compareCompliance(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}
