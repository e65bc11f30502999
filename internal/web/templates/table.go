package templates

import (
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/sigem/internal/core"
)

// QueryValues encodes q as dashboard URL parameters, leaving out defaults.
func QueryValues(q core.Query) url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	if q.Region != "" {
		v.Set("region", q.Region)
	}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	if q.Sort != "" && q.Sort != core.SortRegion {
		v.Set("sort", string(q.Sort))
	}
	if q.Dir == core.SortDesc {
		v.Set("dir", string(q.Dir))
	}
	return v
}

func queryURL(path string, q core.Query) string {
	if enc := QueryValues(q).Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}

// Table renders the filter controls, the row count and the table itself.
// The whole fragment is replaced on every filter or sort change.
func Table(v core.TableView) templ.Component {
	return component(func(h *htmlWriter) {
		q := v.Query

		h.raw(`<div class="panel" id="tabla">`)
		h.raw(`<form class="filters" method="get" action="/" data-partial="/partials/table">`)
		h.raw(`<input type="hidden" name="sort" value="`)
		h.text(string(q.Sort))
		h.raw(`"><input type="hidden" name="dir" value="`)
		h.text(string(q.Dir))
		h.raw(`">`)

		h.raw(`<label for="q">Buscar Municipio o Departamento</label>`)
		h.raw(`<input type="search" id="q" name="q" placeholder="Buscar por nombre de municipio o departamento..." value="`)
		h.text(q.Search)
		h.raw(`">`)

		h.raw(`<div class="filter-row"><div><label for="region">Filtrar por Departamento</label><select id="region" name="region">`)
		option(h, "", "Todos los departamentos", q.Region)
		for _, r := range v.Regions {
			option(h, r, r, q.Region)
		}
		h.raw(`</select></div>`)

		h.raw(`<div><label for="status">Filtrar por Estatus</label><select id="status" name="status">`)
		option(h, "", "Todos los estatus", string(q.Status))
		option(h, string(core.StatusCompliant), core.StatusCompliant.Label(), string(q.Status))
		option(h, string(core.StatusNonCompliant), core.StatusNonCompliant.Label(), string(q.Status))
		h.raw(`</select></div></div>`)
		h.raw(`<noscript><button type="submit">Filtrar</button></noscript></form>`)

		h.raw(`<p class="count">`)
		h.textf("Mostrando %d de %d municipios", v.Shown, v.Total)
		h.raw(`</p>`)

		h.raw(`<div class="table-wrap"><table><thead><tr><th>#</th>`)
		header(h, q, core.SortRegion, "Departamento")
		header(h, q, core.SortLocality, "Municipio")
		header(h, q, core.SortCompliance, "Estatus de cumplimiento")
		h.raw(`</tr></thead><tbody>`)

		if len(v.Rows) == 0 {
			h.raw(`<tr><td colspan="4" class="empty">No se encontraron municipios con los filtros seleccionados</td></tr>`)
		}
		for _, rec := range v.Rows {
			h.raw(`<tr><td class="seq">`)
			h.text(strconv.Itoa(rec.Sequence))
			h.raw(`</td><td class="region">`)
			h.text(rec.Region)
			h.raw(`</td><td>`)
			h.text(rec.Locality)
			h.raw(`</td><td>`)
			badge(h, rec.Status())
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table></div></div>`)
	})
}

func option(h *htmlWriter, value, label, selected string) {
	h.raw(`<option value="`)
	h.text(value)
	h.raw(`"`)
	if value == selected {
		h.raw(` selected`)
	}
	h.raw(`>`)
	h.text(label)
	h.raw(`</option>`)
}

// header renders a sortable column heading linking to the toggled query.
func header(h *htmlWriter, q core.Query, field core.SortField, label string) {
	next := q.Toggle(field)

	h.raw(`<th class="sortable`)
	if q.Sort == field {
		h.raw(` sorted-`)
		h.text(string(q.Dir))
	}
	h.raw(`"><a href="`)
	h.text(queryURL("/", next))
	h.raw(`" data-partial="`)
	h.text(queryURL("/partials/table", next))
	h.raw(`">`)
	h.text(label)
	h.raw(`</a></th>`)
}

func badge(h *htmlWriter, s core.Status) {
	h.raw(`<span class="badge badge-`)
	h.text(string(s))
	h.raw(`">`)
	h.text(s.Label())
	h.raw(`</span>`)
}
