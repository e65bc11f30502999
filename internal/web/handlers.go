package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/sigem/internal/core"
	"github.com/JonMunkholm/sigem/internal/logging"
	"github.com/JonMunkholm/sigem/internal/mapview"
	"github.com/JonMunkholm/sigem/internal/web/templates"
)

// parseQuery reads the table controls from URL parameters. Unknown values
// fall back to their defaults.
func parseQuery(r *http.Request) core.Query {
	v := r.URL.Query()
	return core.Query{
		Search: v.Get("q"),
		Region: v.Get("region"),
		Status: core.Status(v.Get("status")),
		Sort:   core.SortField(v.Get("sort")),
		Dir:    core.SortDir(v.Get("dir")),
	}.Normalize()
}

// parseCoord parses a pointer coordinate, clamping garbage to 0.
func parseCoord(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// render writes an HTML component with status.
func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render failed", "path", r.URL.Path, "error", err)
	}
}

// handleDashboard renders the main page: summary cards, map and table.
// Before the first load finishes it shows the loading notice; after a failed
// load it shows only the error.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Snapshot()
	if err != nil {
		if errors.Is(err, core.ErrNotLoaded) {
			render(w, r, http.StatusServiceUnavailable, templates.LoadingPage())
			return
		}
		msg := core.MapError(err)
		logging.FromContext(r.Context()).Warn("dashboard unavailable", "error", err, "code", msg.Code)
		render(w, r, http.StatusServiceUnavailable, templates.ErrorPage(msg.Message, msg.Action, msg.Code))
		return
	}

	svg, mapErr := s.mapView.Render(snap)
	if mapErr != nil {
		logging.FromContext(r.Context()).Debug("map not rendered", "error", mapErr)
	}

	render(w, r, http.StatusOK, templates.Dashboard(templates.DashboardData{
		Summary:  snap.Summary,
		LoadedAt: snap.LoadedAt,
		Table:    core.ApplyQuery(snap.Records, parseQuery(r)),
		MapSVG:   svg,
	}))
}

// handleTablePartial renders only the table fragment for live filtering and
// header clicks.
func (s *Server) handleTablePartial(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Snapshot()
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	render(w, r, http.StatusOK, templates.Table(core.ApplyQuery(snap.Records, parseQuery(r))))
}

// handleTooltip renders the hover box for the department under the pointer.
// Codes outside the region table get 204 so the client keeps the box hidden.
func (s *Server) handleTooltip(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Snapshot()
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	v := r.URL.Query()
	hover := mapview.Idle().Enter(v.Get("code"), parseCoord(v.Get("x")), parseCoord(v.Get("y")))
	if !hover.Active() {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	render(w, r, http.StatusOK, templates.Tooltip(mapview.Tooltip(hover, snap.Aggregates)))
}

// handleMapSVG serves the restyled map. The snapshot id doubles as ETag.
func (s *Server) handleMapSVG(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Snapshot()
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	etag := `"` + snap.ID.String() + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	svg, err := s.mapView.Render(snap)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}
