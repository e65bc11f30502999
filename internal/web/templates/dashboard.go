package templates

import (
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/sigem/internal/core"
	"github.com/JonMunkholm/sigem/internal/mapview"
)

// DashboardData is everything the dashboard page renders.
type DashboardData struct {
	Summary  core.Summary
	LoadedAt time.Time
	Table    core.TableView

	// MapSVG is the restyled map markup. Nil renders the placeholder.
	MapSVG []byte
}

// Dashboard renders the full page.
func Dashboard(d DashboardData) templ.Component {
	return Layout(siteTitle, component(func(h *htmlWriter) {
		h.component(SummaryCards(d.Summary))
		h.raw(`<div class="stack">`)
		h.component(MapPanel(d.MapSVG))
		h.raw(`<section><h2>Detalle de Municipios</h2>`)
		h.component(Table(d.Table))
		h.raw(`</section></div>`)
		if !d.LoadedAt.IsZero() {
			h.raw(`<p class="loaded-at">Datos cargados: `)
			h.text(d.LoadedAt.Local().Format("2006-01-02 15:04"))
			h.raw(`</p>`)
		}
	}))
}

// SummaryCards renders the four counters above the map.
func SummaryCards(s core.Summary) templ.Component {
	cards := []struct {
		label string
		value int
		class string
	}{
		{"Total Municipios", s.Total, "card-total"},
		{"Solventes", s.Compliant, "card-compliant"},
		{"Insolventes", s.NonCompliant, "card-noncompliant"},
		{"Departamentos", s.Regions, "card-regions"},
	}

	return component(func(h *htmlWriter) {
		h.raw(`<div class="cards">`)
		for _, c := range cards {
			h.raw(`<div class="card `)
			h.text(c.class)
			h.raw(`"><div class="card-label">`)
			h.text(c.label)
			h.raw(`</div><div class="card-value">`)
			h.text(strconv.Itoa(c.value))
			h.raw(`</div></div>`)
		}
		h.raw(`</div>`)
	})
}

// MapPanel renders the legend and the inline map. The tooltip box is filled
// by /partials/tooltip as the pointer moves.
func MapPanel(svg []byte) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<section class="panel map-panel"><div class="panel-head"><h3>Mapa de Cumplimiento por Departamento</h3><div class="legend">`)
		for _, e := range mapview.Legend() {
			h.raw(`<span class="legend-item"><span class="swatch" style="background-color:`)
			h.text(e.Color)
			h.raw(`"></span>`)
			h.text(e.Label)
			h.raw(`</span>`)
		}
		h.raw(`</div></div>`)

		h.raw(`<div class="map-container" id="mapa">`)
		if len(svg) == 0 {
			h.raw(`<p class="map-placeholder">No se pudo cargar el mapa</p>`)
		} else {
			h.component(templ.Raw(string(svg)))
		}
		h.raw(`<div class="map-tooltip" id="mapa-tooltip" hidden></div></div></section>`)
	})
}

// Tooltip renders the hover box. A hidden view renders nothing.
func Tooltip(t mapview.TooltipView) templ.Component {
	return component(func(h *htmlWriter) {
		if !t.Visible {
			return
		}
		h.raw(`<div class="tooltip" style="left:`)
		h.text(strconv.Itoa(t.Left))
		h.raw(`px;top:`)
		h.text(strconv.Itoa(t.Top))
		h.raw(`px"><div class="tooltip-title">`)
		h.text(t.Region)
		h.raw(`</div>`)
		for _, line := range t.Lines() {
			if t.HasData {
				h.raw(`<div>`)
			} else {
				h.raw(`<div class="muted">`)
			}
			h.text(line)
			h.raw(`</div>`)
		}
		h.raw(`</div>`)
	})
}
