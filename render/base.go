package render

import "github.com/pthm-cable/spark/core"

// RendererBase carries the state shared by the bundled renderers.
// Embed it and implement Render, AttachRenderBuffer and ComputeAABB.
type RendererBase struct {
	core.Base
	canvas   Canvas
	active   bool
	blending bool
	mode     BlendMode
}

// NewRendererBase creates an active, alpha-blended base drawing to canvas.
// A nil canvas makes the renderer a no-op until SetCanvas is called.
func NewRendererBase(canvas Canvas) RendererBase {
	return RendererBase{canvas: canvas, active: true, blending: true, mode: BlendAlpha}
}

// Canvas returns the drawing target.
func (r *RendererBase) Canvas() Canvas { return r.canvas }

// SetCanvas changes the drawing target.
func (r *RendererBase) SetCanvas(c Canvas) { r.canvas = c }

// Active implements core.Renderer.
func (r *RendererBase) Active() bool { return r.active }

// SetActive implements core.Renderer.
func (r *RendererBase) SetActive(active bool) { r.active = active }

// BlendingEnabled reports whether batches are blended.
func (r *RendererBase) BlendingEnabled() bool { return r.blending }

// EnableBlending toggles blending.
func (r *RendererBase) EnableBlending(on bool) { r.blending = on }

// BlendMode returns the mode used while blending is enabled.
func (r *RendererBase) BlendMode() BlendMode { return r.mode }

// SetBlendMode changes the blend mode.
func (r *RendererBase) SetBlendMode(m BlendMode) { r.mode = m }

func (r *RendererBase) options(width float64) DrawOptions {
	mode := BlendNone
	if r.blending {
		mode = r.mode
	}
	return DrawOptions{Blend: mode, Width: width}
}

// CanvasSetter is implemented by renderers that draw through a Canvas.
type CanvasSetter interface {
	SetCanvas(c Canvas)
}

// BindCanvas points every renderer of sys that draws through a Canvas at c.
func BindCanvas(sys *core.System, c Canvas) {
	for _, g := range sys.Groups() {
		if s, ok := g.Renderer().(CanvasSetter); ok {
			s.SetCanvas(c)
		}
	}
}
