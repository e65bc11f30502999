package templates

import "github.com/a-h/templ"

const (
	siteTitle    = "Municipalidades Integradas al SIGEM"
	siteSubtitle = "República de Honduras"
	siteFooter   = "Sistema de Municipalidades Integradas al SIGEM - Honduras"
)

// Layout wraps body in the full page shell.
func Layout(title string, body templ.Component) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<!DOCTYPE html><html lang="es"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title><link rel="stylesheet" href="/static/app.css">`)
		h.raw(`<script src="/static/app.js" defer></script></head><body>`)

		h.raw(`<header class="site-header"><div class="container"><h1>`)
		h.text(siteTitle)
		h.raw(`</h1><p class="subtitle">`)
		h.text(siteSubtitle)
		h.raw(`</p></div></header>`)

		h.raw(`<main class="container">`)
		h.component(body)
		h.raw(`</main>`)

		h.raw(`<footer class="site-footer"><p>`)
		h.text(siteFooter)
		h.raw(`</p></footer></body></html>`)
	})
}

// LoadingPage is shown while the first load is still running.
func LoadingPage() templ.Component {
	return Layout(siteTitle, component(func(h *htmlWriter) {
		h.raw(`<div class="notice notice-loading" data-reload="2000"><p>Cargando datos...</p></div>`)
	}))
}

// ErrorPage is shown when the dataset failed to load. Nothing else renders.
func ErrorPage(message, action, code string) templ.Component {
	return Layout(siteTitle, component(func(h *htmlWriter) {
		h.raw(`<div class="notice notice-error" role="alert"><p>`)
		h.text("Error al cargar datos: " + message)
		h.raw(`</p>`)
		if action != "" {
			h.raw(`<p class="action">`)
			h.text(action)
			h.raw(`</p>`)
		}
		if code != "" {
			h.raw(`<p class="code">Código: `)
			h.text(code)
			h.raw(`</p>`)
		}
		h.raw(`</div>`)
	}))
}

// ErrorAlert is the fragment returned to partial requests that fail.
func ErrorAlert(message, action, code string) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="alert alert-error" role="alert"><strong>`)
		h.text(message)
		h.raw(`</strong>`)
		if action != "" {
			h.raw(` <span>`)
			h.text(action)
			h.raw(`</span>`)
		}
		if code != "" {
			h.raw(` <small>(`)
			h.text(code)
			h.raw(`)</small>`)
		}
		h.raw(`</div>`)
	})
}
