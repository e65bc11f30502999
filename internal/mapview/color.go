package mapview

import "github.com/JonMunkholm/sigem/internal/core"

// Fill colours per department status.
const (
	ColorCompliant    = "#2E7D32"
	ColorNonCompliant = "#F9A825"
	ColorNoData       = "#BDBDBD"
)

// Stroke styling applied to every known department path.
const (
	StrokeColor       = "#ffffff"
	StrokeWidth       = "0.5"
	StrokeWidthActive = "1.5"
	PathClass         = "department-path"
)

// ColorFor returns the fill colour for status.
func ColorFor(status core.Status) string {
	switch status {
	case core.StatusCompliant:
		return ColorCompliant
	case core.StatusNonCompliant:
		return ColorNonCompliant
	default:
		return ColorNoData
	}
}

// StatusOf returns the status of region in aggregates. A region absent from
// the map has no data.
func StatusOf(aggregates map[string]core.RegionAggregate, region string) core.Status {
	agg, ok := aggregates[region]
	if !ok || agg.Total == 0 {
		return core.StatusNoData
	}
	return agg.Status
}

// LegendEntry is one swatch of the map legend.
type LegendEntry struct {
	Status core.Status
	Label  string
	Color  string
}

// Legend returns the swatches in display order.
func Legend() []LegendEntry {
	statuses := []core.Status{core.StatusCompliant, core.StatusNonCompliant, core.StatusNoData}
	out := make([]LegendEntry, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, LegendEntry{Status: s, Label: s.Label(), Color: ColorFor(s)})
	}
	return out
}
