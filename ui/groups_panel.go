package ui

import (
	"fmt"

	"github.com/pthm-cable/spark/telemetry"
)

// poolTotals sums occupancy over the group rows of one window.
func poolTotals(rows []telemetry.GroupWindowStats) (alive, capacity, saturated int) {
	for _, g := range rows {
		alive += g.Alive
		capacity += g.Capacity
		if g.Saturated() {
			saturated++
		}
	}
	return alive, capacity, saturated
}

// GroupsPanel shows per-group pool occupancy for the last telemetry
// window.
type GroupsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewGroupsPanel creates a groups panel.
func NewGroupsPanel(x, y, width int32) *GroupsPanel {
	return &GroupsPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (p *GroupsPanel) SetPosition(x, y int32) {
	p.x, p.y = x, y
}

// Draw renders one pool bar per group. Nothing is drawn before the first
// window.
func (p *GroupsPanel) Draw(stats telemetry.WindowStats) {
	if stats.Frames == 0 {
		return
	}
	r := p.renderer
	pad := r.Theme.Padding
	rows := stats.PerGroup
	height := pad*2 + (r.Theme.LineHeight+4)*2 + int32(len(rows))*(r.Theme.LineHeight+2)
	r.DrawPanel(p.x, p.y, p.width, height)

	x, y := p.x+pad, r.DrawTitle(p.x+pad, p.y+pad, "Pools")
	for _, g := range rows {
		y = r.DrawPool(x, y, g.Group, g.Alive, g.Capacity, g.Dropped, p.width-pad*2)
	}
	alive, capacity, saturated := poolTotals(rows)
	summary := fmt.Sprintf("%d/%d", alive, capacity)
	if saturated > 0 {
		summary += fmt.Sprintf(", %d saturated", saturated)
	}
	r.DrawLabelValue(x, y+4, "total", summary)
}
