// Package mapview renders the departments choropleth.
//
// The map graphic is an SVG whose department paths carry ISO 3166-2 codes
// (HNAT, HNCH, ...) as ids. [Restyle] colours those paths from a snapshot's
// aggregates without touching their geometry. Hovering is modelled by the
// [Hover] value and rendered through [Tooltip].
package mapview
