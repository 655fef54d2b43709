package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/spark/core"
)

// Slider ranges for the step policy.
const (
	clampMaxLo, clampMaxHi = 0.01, 0.5
	stepLo, stepHi         = 0.0005, 0.05
)

// StepPanel edits a core.StepConfig with raygui controls.
type StepPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	err      string
}

// NewStepPanel creates a step panel at the given position.
func NewStepPanel(x, y, width int32) *StepPanel {
	return &StepPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *StepPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// SetError shows why the last edit was rejected. An empty string clears it.
func (p *StepPanel) SetError(err error) {
	if err == nil {
		p.err = ""
		return
	}
	p.err = err.Error()
}

// Draw renders the panel for cfg and returns the edited policy and whether
// anything changed.
func (p *StepPanel) Draw(cfg core.StepConfig) (core.StepConfig, bool) {
	r := p.renderer
	padding := r.Theme.Padding
	panelHeight := int32(230)
	if p.err != "" {
		panelHeight += r.Theme.LineHeight * 2
	}
	r.DrawPanel(p.x, p.y, p.width, panelHeight)

	x := float32(p.x + padding)
	y := float32(p.y + padding)
	inner := float32(p.width - padding*2)
	out := cfg

	rl.DrawText("Step Policy", int32(x), int32(y), 16, rl.White)
	y += 24

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: inner/2 - 4, Height: 22}, toggleText(out.ClampEnabled, "Clamp: on", "Clamp: off")) {
		out.ClampEnabled = !out.ClampEnabled
	}
	if gui.Button(rl.Rectangle{X: x + inner/2 + 4, Y: y, Width: inner/2 - 4, Height: 22}, toggleText(out.AdaptiveEnabled, "Adaptive: on", "Adaptive: off")) {
		out.AdaptiveEnabled = !out.AdaptiveEnabled
	}
	y += 34

	out.ClampMax = p.slider(&y, "Clamp max", out.ClampMax, clampMaxLo, clampMaxHi)
	out.MinStep = p.slider(&y, "Min step", out.MinStep, stepLo, stepHi)
	out.MaxStep = p.slider(&y, "Max step", out.MaxStep, stepLo, stepHi)

	if p.err != "" {
		rl.DrawText(p.err, int32(x), int32(y), r.Theme.FontSize, rl.Red)
	}
	return out, out != cfg
}

// slider draws a labelled slider and advances y.
func (p *StepPanel) slider(y *float32, label string, value, lo, hi float64) float64 {
	r := p.renderer
	x := float32(p.x + r.Theme.Padding)
	width := float32(p.width - r.Theme.Padding*2 - 70)

	rl.DrawText(label, int32(x), int32(*y), r.Theme.FontSize, r.Theme.LabelColor)
	*y += 16
	next := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: width, Height: 16},
		"", "",
		float32(value), float32(lo), float32(hi),
	)
	rl.DrawText(fmt.Sprintf("%.4f", value), int32(x+width+8), int32(*y+2), r.Theme.FontSize, r.Theme.ValueColor)
	*y += 28
	if next == float32(value) {
		return value
	}
	return float64(next)
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
