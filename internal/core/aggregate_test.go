package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		compliant, total int
		want             Status
	}{
		{0, 0, StatusNoData},
		{1, 1, StatusCompliant},
		{1, 20, StatusCompliant},
		{0, 3, StatusNonCompliant},
		{5, 5, StatusCompliant},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.compliant, tt.total),
			"compliant=%d total=%d", tt.compliant, tt.total)
	}
}

func TestAggregate(t *testing.T) {
	records := []Record{
		{Region: "Cortés", Locality: "San Pedro Sula", Compliant: true, Sequence: 1},
		{Region: "Cortés", Locality: "Choloma", Compliant: false, Sequence: 2},
		{Region: "Cortés", Locality: "Omoa", Compliant: false, Sequence: 3},
		{Region: "Valle", Locality: "Nacaome", Compliant: false, Sequence: 4},
		{Region: "Yoro", Locality: "El Progreso", Compliant: true, Sequence: 5},
	}

	got := Aggregate(records)
	require.Len(t, got, 3)

	assert.Equal(t, RegionAggregate{
		Region: "Cortés", CompliantCount: 1, NonCompliantCount: 2, Total: 3, Status: StatusCompliant,
	}, got["Cortés"])
	assert.Equal(t, RegionAggregate{
		Region: "Valle", CompliantCount: 0, NonCompliantCount: 1, Total: 1, Status: StatusNonCompliant,
	}, got["Valle"])
	assert.Equal(t, StatusCompliant, got["Yoro"].Status)

	_, ok := got["Olancho"]
	assert.False(t, ok, "regions absent from the input must not be zero-filled")

	for region, agg := range got {
		assert.Equal(t, agg.Total, agg.CompliantCount+agg.NonCompliantCount, region)
		assert.NotEqual(t, StatusNoData, agg.Status, region)
	}
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
}

func TestAggregate_AllNonCompliant(t *testing.T) {
	records := []Record{
		{Region: "Atlántida", Locality: "La Ceiba", Sequence: 1},
		{Region: "Atlántida", Locality: "Tela", Sequence: 2},
		{Region: "Colón", Locality: "Trujillo", Sequence: 3},
	}

	aggs := Aggregate(records)
	for _, agg := range aggs {
		assert.Equal(t, StatusNonCompliant, agg.Status, agg.Region)
	}

	summary := Summarize(records, aggs)
	assert.Equal(t, Summary{Total: 3, Compliant: 0, NonCompliant: 3, Regions: 2}, summary)
}

func TestSortedAggregates_SpanishCollation(t *testing.T) {
	aggs := Aggregate([]Record{
		{Region: "Yoro", Locality: "a"},
		{Region: "Ñame", Locality: "b"},
		{Region: "Olancho", Locality: "c"},
		{Region: "Atlántida", Locality: "d"},
	})

	var names []string
	for _, agg := range SortedAggregates(aggs) {
		names = append(names, agg.Region)
	}

	assert.Equal(t, []string{"Atlántida", "Ñame", "Olancho", "Yoro"}, names)
}
