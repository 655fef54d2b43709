package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/spark/telemetry"
)

// statsSections lays out a telemetry.WindowStats.
var statsSections = []SectionDescriptor{
	{
		ID:    "window",
		Title: "Window",
		Fields: []FieldDescriptor{
			{ID: "end", Label: "End", Widget: WidgetText, Format: "%.1fs", Getter: stat(func(s telemetry.WindowStats) float64 { return s.WindowEndSec })},
			{ID: "frames", Label: "Frames", Widget: WidgetText, Format: "%.0f", Getter: stat(func(s telemetry.WindowStats) float64 { return float64(s.Frames) })},
			{ID: "steps", Label: "Steps/frame", Widget: WidgetText, Format: "%.2f", Getter: stat(func(s telemetry.WindowStats) float64 { return s.StepsPerFrame })},
		},
	},
	{
		ID:    "counters",
		Title: "Particles",
		Fields: []FieldDescriptor{
			{ID: "alive", Label: "Alive", Widget: WidgetText, Format: "%.0f", Getter: stat(func(s telemetry.WindowStats) float64 { return float64(s.Alive) })},
			{ID: "spawned", Label: "Spawned", Widget: WidgetText, Format: "%.0f", Getter: stat(func(s telemetry.WindowStats) float64 { return float64(s.Spawned) })},
			{ID: "expired", Label: "Expired", Widget: WidgetText, Format: "%.0f", Getter: stat(func(s telemetry.WindowStats) float64 { return float64(s.Expired) })},
			{ID: "killed", Label: "Killed", Widget: WidgetText, Format: "%.0f", Getter: stat(func(s telemetry.WindowStats) float64 { return float64(s.Killed) })},
			{ID: "drop_rate", Label: "Drop rate", Widget: WidgetBar, Getter: stat(func(s telemetry.WindowStats) float64 { return s.DropRate })},
		},
	},
	{
		ID:    "ages",
		Title: "Age",
		Visible: func(data any) bool {
			return data.(telemetry.WindowStats).Alive > 0
		},
		Fields: []FieldDescriptor{
			{ID: "mean", Label: "Mean", Widget: WidgetText, TextGetter: func(data any) string {
				s := data.(telemetry.WindowStats)
				return fmt.Sprintf("%.2f ± %.2f", s.AgeMean, s.AgeStd)
			}},
			{ID: "pct", Label: "p10/50/90", Widget: WidgetText, TextGetter: func(data any) string {
				s := data.(telemetry.WindowStats)
				return fmt.Sprintf("%.2f / %.2f / %.2f", s.AgeP10, s.AgeP50, s.AgeP90)
			}},
		},
	},
}

func stat(f func(telemetry.WindowStats) float64) func(any) float64 {
	return func(data any) float64 { return f(data.(telemetry.WindowStats)) }
}

// StatsPanel renders the last telemetry window.
type StatsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewStatsPanel creates a stats panel.
func NewStatsPanel(x, y, width int32) *StatsPanel {
	return &StatsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (s *StatsPanel) SetPosition(x, y int32) {
	s.x = x
	s.y = y
}

// Draw renders the panel. Nothing is drawn before the first window.
func (s *StatsPanel) Draw(stats telemetry.WindowStats) {
	if stats.Frames == 0 {
		return
	}
	r := s.renderer
	padding := r.Theme.Padding
	r.DrawPanel(s.x, s.y, s.width, 260)

	y := s.y + padding
	rl.DrawText("Window Stats", s.x+padding, y, 16, rl.White)
	y += r.Theme.LineHeight + 4
	for _, sd := range statsSections {
		y = r.DrawSection(s.x+padding, y, sd, stats, s.width-padding*2)
	}
}
