package web

import (
	"net/http"
	"time"

	"github.com/JonMunkholm/sigem/internal/core"
	"github.com/JonMunkholm/sigem/internal/mapview"
)

// RegionResponse is one department in /api/regions.
type RegionResponse struct {
	core.RegionAggregate
	Code  string `json:"code,omitempty"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// SummaryResponse is the body of /api/summary.
type SummaryResponse struct {
	ID           string       `json:"id"`
	LoadedAt     time.Time    `json:"loaded_at"`
	Source       string       `json:"source"`
	Keyword      string       `json:"keyword"`
	Summary      core.Summary `json:"summary"`
	Skipped      int          `json:"skipped"`
	MapAvailable bool         `json:"map_available"`
}

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Status   core.LoadState `json:"status"`
	Snapshot string         `json:"snapshot,omitempty"`
	Code     string         `json:"code,omitempty"`
}

// handleRecords returns the filtered and sorted table as JSON.
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Snapshot()
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, core.ApplyQuery(snap.Records, parseQuery(r)))
}

// handleRegions returns every department with its aggregate and map colour.
func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Snapshot()
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	aggs := core.CompleteAggregates(snap.Aggregates)
	out := make([]RegionResponse, 0, len(aggs))
	for _, agg := range aggs {
		code, _ := core.RegionCode(agg.Region)
		out = append(out, RegionResponse{
			RegionAggregate: agg,
			Code:            code,
			Label:           agg.Status.Label(),
			Color:           mapview.ColorFor(agg.Status),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleSummary returns the header counters and snapshot metadata.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Snapshot()
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, SummaryResponse{
		ID:           snap.ID.String(),
		LoadedAt:     snap.LoadedAt,
		Source:       snap.Source,
		Keyword:      snap.Keyword,
		Summary:      snap.Summary,
		Skipped:      snap.Skipped,
		MapAvailable: s.mapView.Available(),
	})
}

// handleHealth reports 200 once a snapshot is published, 503 otherwise.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: s.store.State()}

	snap, err := s.store.Snapshot()
	switch {
	case err == nil:
		resp.Snapshot = snap.ID.String()
		writeJSON(w, http.StatusOK, resp)
	case resp.Status == core.StateFailed:
		resp.Code = core.MapError(err).Code
		writeJSON(w, http.StatusServiceUnavailable, resp)
	default:
		writeJSON(w, http.StatusServiceUnavailable, resp)
	}
}
