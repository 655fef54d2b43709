package inspector

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/spark/camera"
	"github.com/pthm-cable/spark/core"
	"github.com/pthm-cable/spark/renderer"
)

// Panel dimensions
const (
	PanelWidth   = 320
	PanelPadding = 10
	HeaderHeight = 30
	treeLine     = 16
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorSection     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}
	ColorSelected    = rl.Color{R: 255, G: 200, B: 100, A: 255}
)

// Panel lists the object tree of a system and shows the attribute table
// of the selected object. Tab and Shift+Tab move the selection, I toggles
// the panel.
type Panel struct {
	entries  []Entry
	selected int
	visible  bool

	panelX       int32
	panelY       int32
	screenWidth  int32
	screenHeight int32
}

// NewPanel creates a hidden panel docked to the right edge.
func NewPanel(screenWidth, screenHeight int32) *Panel {
	return &Panel{
		panelX:       screenWidth - PanelWidth - 10,
		panelY:       10,
		screenWidth:  screenWidth,
		screenHeight: screenHeight,
	}
}

// Refresh rebuilds the object list from root, keeping the selection on the
// same object when it still exists.
func (p *Panel) Refresh(root core.Object) {
	var current core.Object
	if o, ok := p.Selected(); ok {
		current = o
	}
	p.entries = Walk(root)
	p.selected = 0
	for i, e := range p.entries {
		if e.Object == current {
			p.selected = i
			break
		}
	}
}

// Resize re-docks the panel after a window resize.
func (p *Panel) Resize(screenWidth, screenHeight int32) {
	p.screenWidth = screenWidth
	p.screenHeight = screenHeight
	p.panelX = screenWidth - PanelWidth - 10
}

// Visible reports whether the panel is shown.
func (p *Panel) Visible() bool { return p.visible }

// Toggle shows or hides the panel.
func (p *Panel) Toggle() { p.visible = !p.visible }

// Next moves the selection by delta, wrapping around.
func (p *Panel) Next(delta int) {
	n := len(p.entries)
	if n == 0 {
		return
	}
	p.selected = ((p.selected+delta)%n + n) % n
}

// Selected returns the selected object.
func (p *Panel) Selected() (core.Object, bool) {
	if p.selected < 0 || p.selected >= len(p.entries) {
		return nil, false
	}
	return p.entries[p.selected].Object, true
}

// HandleInput processes keyboard and mouse input for the panel.
func (p *Panel) HandleInput() {
	if rl.IsKeyPressed(rl.KeyI) {
		p.Toggle()
	}
	if !p.visible {
		return
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		if rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift) {
			p.Next(-1)
		} else {
			p.Next(1)
		}
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		mouse := rl.GetMousePosition()
		closeX := p.panelX + PanelWidth - 25
		closeY := p.panelY + 5
		if int32(mouse.X) >= closeX && int32(mouse.X) <= closeX+20 &&
			int32(mouse.Y) >= closeY && int32(mouse.Y) <= closeY+20 {
			p.visible = false
		}
	}
}

// Draw renders the panel.
func (p *Panel) Draw() {
	if !p.visible {
		return
	}
	o, ok := p.Selected()
	if !ok {
		return
	}
	fields := Describe(o)

	height := p.calculatePanelHeight(len(fields))
	rl.DrawRectangle(p.panelX, p.panelY, PanelWidth, height, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(p.panelX), Y: float32(p.panelY), Width: PanelWidth, Height: float32(height)},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(p.panelX, p.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText("INSPECTOR", p.panelX+PanelPadding, p.panelY+7, 16, ColorHeaderText)
	closeX := p.panelX + PanelWidth - 25
	closeY := p.panelY + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	x := p.panelX + PanelPadding
	y := p.panelY + HeaderHeight + PanelPadding

	p.drawSectionHeader(x, y, "OBJECTS")
	y += 20
	for i, e := range p.entries {
		color := ColorTextDim
		if i == p.selected {
			color = ColorSelected
		}
		label := strings.Repeat("  ", e.Depth) + objectLabel(e.Object)
		rl.DrawText(label, x, y, 12, color)
		y += treeLine
	}

	y += 4
	rl.DrawLine(x, y, p.panelX+PanelWidth-PanelPadding, y, ColorPanelBorder)
	y += 8

	p.drawSectionHeader(x, y, strings.ToUpper(o.TypeName()))
	y += 20
	for _, f := range fields {
		y += DrawField(x, y, f)
	}
}

// drawSectionHeader renders a section title.
func (p *Panel) drawSectionHeader(x, y int32, title string) {
	rl.DrawRectangle(x-2, y-2, PanelWidth-2*PanelPadding+4, 18, ColorSection)
	rl.DrawText(title, x+2, y, 14, ColorSectionText)
}

// calculatePanelHeight computes the panel height for the current content.
func (p *Panel) calculatePanelHeight(nbFields int) int32 {
	height := HeaderHeight + PanelPadding
	height += 20 + treeLine*len(p.entries) // object tree
	height += 12                           // separator
	height += 20 + 44*nbFields             // fields, sized for the tallest widget
	height += PanelPadding
	return min(int32(height), p.screenHeight-p.panelY-10)
}

// DrawSelectionHighlight outlines the selected group's bounding box, or
// marks the selected zone's position.
func (p *Panel) DrawSelectionHighlight(cam *camera.Camera) {
	if !p.visible {
		return
	}
	o, ok := p.Selected()
	if !ok {
		return
	}
	switch v := o.(type) {
	case *core.Group:
		lo, hi := v.AABB()
		if v.NbParticles() > 0 {
			renderer.DrawBox(cam, lo, hi, ColorSelected)
		}
	case placedZone:
		if sx, sy, _, ok := cam.WorldToScreen(v.Position()); ok {
			rl.DrawCircleLines(int32(sx), int32(sy), 8, ColorSelected)
		}
	}
}

// String lists the object tree, one object per line, for logs.
func (p *Panel) String() string {
	var b strings.Builder
	for i, e := range p.entries {
		marker := " "
		if i == p.selected {
			marker = ">"
		}
		fmt.Fprintf(&b, "%s%s%s\n", marker, strings.Repeat("  ", e.Depth), objectLabel(e.Object))
	}
	return b.String()
}
