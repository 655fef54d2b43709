package main

import (
	"log/slog"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spark/camera"
	"github.com/pthm-cable/spark/config"
	"github.com/pthm-cable/spark/inspector"
	"github.com/pthm-cable/spark/renderer"
	"github.com/pthm-cable/spark/sim"
	"github.com/pthm-cable/spark/ui"
)

const (
	orbitSpeed  = 0.005 // radians per dragged pixel
	keyOrbit    = 0.03  // radians per frame with arrow keys held
	speedFactor = 1.25
	flareCell   = 64 // atlas cell size in pixels
)

var viewerKeys = []ui.KeyBinding{
	{Keys: "Space", Action: "Pause"},
	{Keys: ", .", Action: "Speed"},
	{Keys: "R", Action: "Restart"},
	{Keys: "F5", Action: "Snapshot"},
	{Keys: "I", Action: "Inspect"},
	{Keys: "H", Action: "Help"},
	{Keys: "RMB", Action: "Orbit"},
	{Keys: "MMB", Action: "Pan"},
	{Keys: "Wheel", Action: "Zoom"},
	{Keys: "Home", Action: "Reset camera"},
}

var aabbColor = rl.Color{R: 120, G: 200, B: 255, A: 160}

// viewer runs a Sim in a raylib window.
type viewer struct {
	sim *sim.Sim
	cam *camera.Camera

	canvas     *renderer.Canvas
	background *renderer.Background

	overlays   *ui.OverlayRegistry
	hud        *ui.HUD
	help       *ui.HelpPanel
	perfPanel  *ui.PerfPanel
	statsPanel *ui.StatsPanel
	pools      *ui.GroupsPanel
	stepPanel  *ui.StepPanel
	inspector  *inspector.Panel

	screenWidth, screenHeight int32
}

// newCamera builds the configured orbit camera for a viewport.
func newCamera(cfg *config.Config, w, h float64) *camera.Camera {
	cc := cfg.Camera
	cam := camera.New(w, h, r3.Vec{X: cc.Target[0], Y: cc.Target[1], Z: cc.Target[2]}, cc.Distance)
	cam.Yaw = cc.Yaw * math.Pi / 180
	cam.Pitch = cc.Pitch * math.Pi / 180
	cam.FOV = cc.FOV * math.Pi / 180
	cam.SetHome()
	return cam
}

func newViewer(s *sim.Sim, cfg *config.Config) *viewer {
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	cam := newCamera(cfg, float64(w), float64(h))
	v := &viewer{
		sim:          s,
		cam:          cam,
		canvas:       renderer.NewCanvas(cam),
		background:   renderer.NewBackground(-1),
		overlays:     ui.NewOverlayRegistry(),
		hud:          ui.NewHUD(),
		help:         ui.NewHelpPanel(viewerKeys, 10, 100, 220),
		perfPanel:    ui.NewPerfPanel(10, 100),
		statsPanel:   ui.NewStatsPanel(10, 100, 260),
		pools:        ui.NewGroupsPanel(10, 100, 260),
		stepPanel:    ui.NewStepPanel(w-290, h-300, 280),
		inspector:    inspector.NewPanel(w, h),
		screenWidth:  w,
		screenHeight: h,
	}
	v.canvas.LoadFlareAtlas(flareCell)
	v.inspector.Refresh(s.System())
	return v
}

func (v *viewer) close() {
	v.canvas.UnloadAtlas()
}

// run loops until the window closes or the frame limit is reached.
func (v *viewer) run(maxFrames int) {
	for !rl.WindowShouldClose() {
		v.handleInput()
		v.sim.Step(float64(rl.GetFrameTime()))
		v.draw()

		if maxFrames > 0 && v.sim.Frames() >= maxFrames {
			slog.Info("max frames reached", "frames", v.sim.Frames())
			return
		}
	}
}

// handleInput processes keyboard input.
func (v *viewer) handleInput() {
	v.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) || rl.IsKeyPressed(rl.KeyPause) {
		v.sim.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyComma) {
		v.sim.SetSpeed(v.sim.Speed() / speedFactor)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		v.sim.SetSpeed(v.sim.Speed() * speedFactor)
	}
	if rl.IsKeyPressed(rl.KeyR) {
		if err := v.sim.Restart(); err != nil {
			slog.Error("restart failed", "error", err)
		} else {
			v.inspector.Refresh(v.sim.System())
		}
	}
	if rl.IsKeyPressed(rl.KeyF5) {
		if path, err := v.sim.SaveSnapshot(); err != nil {
			slog.Error("failed to save snapshot", "error", err)
		} else if path == "" {
			slog.Warn("snapshot skipped, no output directory")
		} else {
			slog.Info("snapshot saved", "path", path)
		}
	}
	if rl.IsKeyPressed(rl.KeyH) {
		v.help.Toggle()
	}
	for _, key := range v.overlays.Keys() {
		if rl.IsKeyPressed(key) {
			v.overlays.HandleKeyPress(key)
		}
	}

	v.handleCameraInput()
	v.inspector.HandleInput()
}

// handleResize checks for window resize and propagates new dimensions.
func (v *viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	if w == v.screenWidth && h == v.screenHeight {
		return
	}
	v.screenWidth, v.screenHeight = w, h
	v.cam.Resize(float64(w), float64(h))
	v.inspector.Resize(w, h)
	v.stepPanel.SetPosition(w-290, h-300)
}

// handleCameraInput processes orbit, pan and zoom controls.
func (v *viewer) handleCameraInput() {
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		v.cam.Orbit(float64(d.X)*orbitSpeed, float64(d.Y)*orbitSpeed)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		d := rl.GetMouseDelta()
		v.cam.Pan(float64(d.X), float64(d.Y))
	}

	if rl.IsKeyDown(rl.KeyRight) {
		v.cam.Orbit(keyOrbit, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		v.cam.Orbit(-keyOrbit, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		v.cam.Orbit(0, keyOrbit)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		v.cam.Orbit(0, -keyOrbit)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.cam.ZoomBy(1 + float64(wheel)*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		v.cam.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		v.cam.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		v.cam.Reset()
	}
}

// draw renders one frame.
func (v *viewer) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	if v.overlays.IsEnabled(ui.OverlayGrid) {
		v.background.Draw(v.cam)
	}

	v.canvas.Begin()
	v.sim.Render(v.canvas)
	v.canvas.End()

	if v.overlays.IsEnabled(ui.OverlayAABB) {
		for _, g := range v.sim.System().Groups() {
			if g.NbParticles() == 0 {
				continue
			}
			lo, hi := g.AABB()
			renderer.DrawBox(v.cam, lo, hi, aabbColor)
		}
	}
	v.inspector.DrawSelectionHighlight(v.cam)

	v.drawUI()
	rl.EndDrawing()
}

func (v *viewer) drawUI() {
	if v.overlays.IsEnabled(ui.OverlayHUD) {
		sys := v.sim.System()
		v.hud.Draw(ui.HUDData{
			Title:     "Spark",
			Scene:     v.sim.Scene(),
			Groups:    len(sys.Groups()),
			Particles: sys.NbParticles(),
			SimTime:   v.sim.SimTime(),
			Speed:     v.sim.Speed(),
			FPS:       rl.GetFPS(),
			Paused:    v.sim.Paused(),
			Finished:  v.sim.Finished(),
		})
		v.hud.DrawControls(v.screenWidth, v.screenHeight, ui.HintLine(viewerKeys))
	}

	y := v.help.Draw(v.overlays)
	switch {
	case v.overlays.IsEnabled(ui.OverlayStats):
		v.statsPanel.SetPosition(10, y+10)
		v.statsPanel.Draw(v.sim.LastStats())
	case v.overlays.IsEnabled(ui.OverlayPerf):
		v.perfPanel.SetPosition(10, y+10)
		v.perfPanel.Draw(v.sim.PerfStats())
	case v.overlays.IsEnabled(ui.OverlayGroups):
		v.pools.SetPosition(10, y+10)
		v.pools.Draw(v.sim.LastStats())
	}

	if v.overlays.IsEnabled(ui.OverlayStepPanel) {
		if next, changed := v.stepPanel.Draw(v.sim.StepConfig()); changed {
			err := v.sim.SetStepConfig(next)
			v.stepPanel.SetError(err)
			if err != nil {
				slog.Warn("step policy rejected", "error", err)
			}
		}
	}

	v.inspector.Draw()
}
