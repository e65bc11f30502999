package core

import (
	"time"

	"github.com/google/uuid"
)

// Status is the tri-state compliance status of a region.
type Status string

const (
	StatusCompliant    Status = "compliant"
	StatusNonCompliant Status = "noncompliant"
	StatusNoData       Status = "nodata"
)

// Label returns the Spanish display label used across the UI.
func (s Status) Label() string {
	switch s {
	case StatusCompliant:
		return "Solvente"
	case StatusNonCompliant:
		return "Insolvente"
	default:
		return "Sin datos"
	}
}

// Record is one locality row of the dataset.
type Record struct {
	Region    string `json:"region"`
	Locality  string `json:"locality"`
	Compliant bool   `json:"compliant"`

	// Sequence is the 1-based position among the data lines of the input.
	// It is assigned before invalid rows are dropped and never renumbered.
	Sequence int `json:"sequence"`
}

// Status returns the record's compliance as a Status.
func (r Record) Status() Status {
	if r.Compliant {
		return StatusCompliant
	}
	return StatusNonCompliant
}

// RegionAggregate is the per-region rollup of locality compliance.
// CompliantCount + NonCompliantCount always equals Total.
type RegionAggregate struct {
	Region            string `json:"region"`
	CompliantCount    int    `json:"compliant"`
	NonCompliantCount int    `json:"non_compliant"`
	Total             int    `json:"total"`
	Status            Status `json:"status"`
}

// Summary holds the dataset-wide counters shown above the map.
type Summary struct {
	Total        int `json:"total"`
	Compliant    int `json:"compliant"`
	NonCompliant int `json:"non_compliant"`
	Regions      int `json:"regions"`
}

// Snapshot is one fully loaded dataset. Records and Aggregates are always
// published together and never mutated after publication.
type Snapshot struct {
	ID         uuid.UUID
	LoadedAt   time.Time
	Source     string
	Keyword    string
	Records    []Record
	Aggregates map[string]RegionAggregate
	Summary    Summary

	// Skipped counts data lines dropped for an empty region or locality.
	Skipped int
}
