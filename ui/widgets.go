package ui

import (
	"fmt"
	"strconv"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer draws widgets with one Theme.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel fills a bordered panel background.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawTitle draws a panel title and returns the next line's Y.
func (r *Renderer) DrawTitle(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, 16, rl.White)
	return y + r.Theme.LineHeight + 4
}

// DrawSectionHeader draws a section header and returns the next line's Y.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws "label: value" with the value in the value column.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// meter draws a horizontal bar filled to frac of width.
func (r *Renderer) meter(x, y, width int32, frac float64, fill rl.Color) {
	frac = min(max(frac, 0), 1)
	rl.DrawRectangle(x, y+2, width, r.Theme.BarHeight, r.Theme.BarBg)
	rl.DrawRectangle(x, y+2, int32(float64(width)*frac), r.Theme.BarHeight, fill)
}

// DrawRatio draws a labelled bar for a value in [0, 1].
func (r *Renderer) DrawRatio(x, y int32, label string, value float64, width int32) int32 {
	barWidth := width - r.Theme.LabelWidth - 50
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	r.meter(x+r.Theme.LabelWidth, y, barWidth, value, r.Theme.BarFill)
	rl.DrawText(fmt.Sprintf("%.2f", value), x+r.Theme.LabelWidth+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight + 2
}

// DrawPool draws a group's occupancy: name, alive over capacity as a bar
// and the count. A pool that dropped spawns is filled in the saturated
// color with the drop count appended.
func (r *Renderer) DrawPool(x, y int32, name string, alive, capacity, dropped int, width int32) int32 {
	rl.DrawText(name, x, y, r.Theme.FontSize, r.Theme.LabelColor)

	count := strconv.Itoa(alive) + "/" + strconv.Itoa(capacity)
	fill := r.Theme.BarFill
	if dropped > 0 {
		count += " -" + strconv.Itoa(dropped)
		fill = r.Theme.PoolSaturated
	}
	countWidth := rl.MeasureText(count, r.Theme.FontSize)
	barWidth := width - r.Theme.LabelWidth - countWidth - 6
	var frac float64
	if capacity > 0 {
		frac = float64(alive) / float64(capacity)
	}
	r.meter(x+r.Theme.LabelWidth, y, barWidth, frac, fill)
	rl.DrawText(count, x+width-countWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight + 2
}

// DrawKeyHint draws an action with its key right-aligned. Active hints
// get a lit marker.
func (r *Renderer) DrawKeyHint(x, y int32, action, key string, active bool, width int32) int32 {
	marker, text := rl.Color{R: 80, G: 80, B: 80, A: 255}, r.Theme.LabelColor
	if active {
		marker, text = rl.Color{R: 100, G: 200, B: 100, A: 255}, rl.White
	}
	rl.DrawRectangle(x, y+2, 8, 8, marker)
	rl.DrawText(action, x+14, y, r.Theme.FontSize, text)
	if key != "" {
		label := "[" + key + "]"
		rl.DrawText(label, x+width-rl.MeasureText(label, r.Theme.FontSize), y, r.Theme.FontSize, r.Theme.KeyColor)
	}
	return y + r.Theme.LineHeight
}

// DrawField renders a field based on its descriptor.
func (r *Renderer) DrawField(x, y int32, fd FieldDescriptor, data any, width int32) int32 {
	switch fd.Widget {
	case WidgetText:
		text := ""
		switch {
		case fd.TextGetter != nil:
			text = fd.TextGetter(data)
		case fd.Getter != nil:
			text = fmt.Sprintf(fd.Format, fd.Getter(data))
		}
		return r.DrawLabelValue(x, y, fd.Label, text)
	case WidgetBar:
		var v float64
		if fd.Getter != nil {
			v = fd.Getter(data)
		}
		return r.DrawRatio(x, y, fd.Label, v, width)
	case WidgetSection:
		return r.DrawSectionHeader(x, y, fd.Label)
	case WidgetSpacer:
		return y + 6
	}
	return y
}

// DrawSection renders a section's header and visible fields.
func (r *Renderer) DrawSection(x, y int32, sd SectionDescriptor, data any, width int32) int32 {
	if sd.Visible != nil && !sd.Visible(data) {
		return y
	}
	if sd.Title != "" {
		y = r.DrawSectionHeader(x, y, sd.Title)
	}
	for _, fd := range sd.Fields {
		if fd.Visible == nil || fd.Visible(data) {
			y = r.DrawField(x, y, fd, data, width)
		}
	}
	return y + 4
}
