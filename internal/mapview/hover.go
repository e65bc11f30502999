package mapview

import (
	"strconv"

	"github.com/JonMunkholm/sigem/internal/core"
)

// TooltipOffset is how far the tooltip sits right of and below the pointer.
const TooltipOffset = 10

// Hover is the pointer state over the map. The zero value is idle.
type Hover struct {
	active bool
	code   string
	region string
	x, y   int
}

// Idle returns the state with no department under the pointer.
func Idle() Hover {
	return Hover{}
}

// Enter moves to the hovered state for code at (x, y), relative to the map
// container. Codes outside the region table leave the state idle.
func (h Hover) Enter(code string, x, y int) Hover {
	region, ok := core.RegionName(code)
	if !ok {
		return Idle()
	}
	return Hover{active: true, code: code, region: region, x: x, y: y}
}

// Move updates the pointer position. Moving while idle stays idle.
func (h Hover) Move(x, y int) Hover {
	if !h.active {
		return h
	}
	h.x, h.y = x, y
	return h
}

// Leave returns to idle from any state.
func (h Hover) Leave() Hover {
	return Idle()
}

// Active reports whether a department is hovered.
func (h Hover) Active() bool { return h.active }

// Code returns the hovered department code, or "" when idle.
func (h Hover) Code() string { return h.code }

// Region returns the hovered department name, or "" when idle.
func (h Hover) Region() string { return h.region }

// Position returns the last pointer position.
func (h Hover) Position() (x, y int) { return h.x, h.y }

// TooltipView is everything needed to draw the hover tooltip.
type TooltipView struct {
	Visible bool
	Region  string
	HasData bool

	Compliant    int
	NonCompliant int

	// Left and Top are the tooltip's offset inside the map container, in px.
	Left int
	Top  int
}

// Lines returns the body lines under the department name.
func (t TooltipView) Lines() []string {
	if !t.HasData {
		return []string{"Sin datos"}
	}
	return []string{
		"Solventes: " + strconv.Itoa(t.Compliant),
		"Insolventes: " + strconv.Itoa(t.NonCompliant),
	}
}

// Tooltip derives the tooltip for h from aggregates.
func Tooltip(h Hover, aggregates map[string]core.RegionAggregate) TooltipView {
	if !h.active {
		return TooltipView{}
	}

	view := TooltipView{
		Visible: true,
		Region:  h.region,
		Left:    h.x + TooltipOffset,
		Top:     h.y + TooltipOffset,
	}
	if agg, ok := aggregates[h.region]; ok && agg.Total > 0 {
		view.HasData = true
		view.Compliant = agg.CompliantCount
		view.NonCompliant = agg.NonCompliantCount
	}
	return view
}
