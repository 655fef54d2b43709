package ui

import (
	"strings"
)

// KeyBinding names a viewer action and the input that triggers it.
type KeyBinding struct {
	Keys   string
	Action string
}

// HintLine joins bindings into a one-line footer, "keys action" pairs
// separated by bars.
func HintLine(bindings []KeyBinding) string {
	parts := make([]string, len(bindings))
	for i, b := range bindings {
		parts[i] = b.Keys + " " + strings.ToLower(b.Action)
	}
	return strings.Join(parts, " | ")
}

type helpRow struct {
	header bool
	text   string
	key    string
	active bool
}

// helpRows lays out the viewer bindings followed by the overlay toggles,
// grouped under their category.
func helpRows(bindings []KeyBinding, overlays *OverlayRegistry) []helpRow {
	rows := []helpRow{{header: true, text: "Viewer"}}
	for _, b := range bindings {
		rows = append(rows, helpRow{text: b.Action, key: b.Keys})
	}
	for _, cat := range overlays.Categories() {
		rows = append(rows, helpRow{header: true, text: categoryTitle(cat)})
		for _, desc := range overlays.ByCategory(cat) {
			rows = append(rows, helpRow{text: desc.Name, key: desc.KeyLabel, active: overlays.IsEnabled(desc.ID)})
		}
	}
	return rows
}

func categoryTitle(cat string) string {
	if cat == "" {
		return "Other"
	}
	return strings.ToUpper(cat[:1]) + cat[1:]
}

// HelpPanel lists key bindings and overlay toggles. It starts hidden.
type HelpPanel struct {
	renderer *Renderer
	bindings []KeyBinding
	x, y     int32
	width    int32
	visible  bool
}

// NewHelpPanel creates a help panel for the given bindings.
func NewHelpPanel(bindings []KeyBinding, x, y, width int32) *HelpPanel {
	return &HelpPanel{
		renderer: NewRenderer(),
		bindings: bindings,
		x:        x,
		y:        y,
		width:    width,
	}
}

// Toggle switches visibility and returns the new state.
func (h *HelpPanel) Toggle() bool {
	h.visible = !h.visible
	return h.visible
}

// Draw renders the panel and returns the Y below it, or the panel's
// origin when hidden.
func (h *HelpPanel) Draw(overlays *OverlayRegistry) int32 {
	if !h.visible {
		return h.y
	}
	r := h.renderer
	pad := r.Theme.Padding
	rows := helpRows(h.bindings, overlays)

	var height int32
	for _, row := range rows {
		height += r.Theme.LineHeight
		if row.header {
			height += 4
		}
	}
	height += pad*2 + r.Theme.LineHeight + 4
	r.DrawPanel(h.x, h.y, h.width, height)

	x, y := h.x+pad, r.DrawTitle(h.x+pad, h.y+pad, "Controls")
	for _, row := range rows {
		if row.header {
			y = r.DrawSectionHeader(x, y+4, row.text)
			continue
		}
		y = r.DrawKeyHint(x, y, row.text, row.key, row.active, h.width-pad*2)
	}
	return h.y + height
}
