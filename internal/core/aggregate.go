package core

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// StatusFor applies the any-one-passes rule: a region with at least one
// compliant locality is compliant regardless of how many are not.
func StatusFor(compliant, total int) Status {
	switch {
	case total == 0:
		return StatusNoData
	case compliant >= 1:
		return StatusCompliant
	default:
		return StatusNonCompliant
	}
}

// Aggregate groups records by region. Regions absent from the input never
// appear in the result.
func Aggregate(records []Record) map[string]RegionAggregate {
	out := make(map[string]RegionAggregate)

	for _, rec := range records {
		agg := out[rec.Region]
		agg.Region = rec.Region
		agg.Total++
		if rec.Compliant {
			agg.CompliantCount++
		} else {
			agg.NonCompliantCount++
		}
		out[rec.Region] = agg
	}

	for region, agg := range out {
		agg.Status = StatusFor(agg.CompliantCount, agg.Total)
		out[region] = agg
	}

	return out
}

// Summarize computes the dataset-wide counters.
func Summarize(records []Record, aggregates map[string]RegionAggregate) Summary {
	s := Summary{
		Total:   len(records),
		Regions: len(aggregates),
	}
	for _, rec := range records {
		if rec.Compliant {
			s.Compliant++
		} else {
			s.NonCompliant++
		}
	}
	return s
}

// SortedAggregates returns the aggregates ordered by Spanish collation of
// the region name.
func SortedAggregates(aggregates map[string]RegionAggregate) []RegionAggregate {
	out := make([]RegionAggregate, 0, len(aggregates))
	for _, agg := range aggregates {
		out = append(out, agg)
	}

	col := newCollator()
	sort.Slice(out, func(i, j int) bool {
		if c := col.CompareString(out[i].Region, out[j].Region); c != 0 {
			return c < 0
		}
		return out[i].Region < out[j].Region
	})
	return out
}

// newCollator returns a Spanish collator. Collators are not safe for
// concurrent use, so every caller gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.Spanish)
}
