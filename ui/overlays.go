package ui

import (
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID names a toggleable overlay.
type OverlayID string

const (
	OverlayHUD       OverlayID = "hud"
	OverlayStats     OverlayID = "stats"
	OverlayPerf      OverlayID = "perf"
	OverlayGroups    OverlayID = "groups"
	OverlayStepPanel OverlayID = "step_panel"
	OverlayGrid      OverlayID = "grid"
	OverlayAABB      OverlayID = "aabb"
)

// OverlayDescriptor describes one overlay. Overlays with the same
// non-empty Slot share screen space: enabling one disables the others.
type OverlayDescriptor struct {
	ID       OverlayID
	Name     string
	Key      int32
	KeyLabel string
	Category string
	Slot     string
	On       bool // initial state
}

// leftPanel is the slot below the help panel.
const leftPanel = "left"

var defaultOverlays = []OverlayDescriptor{
	{ID: OverlayHUD, Name: "HUD", Key: rl.KeyF1, KeyLabel: "F1", Category: "panels", On: true},
	{ID: OverlayStepPanel, Name: "Step Policy", Key: rl.KeyF2, KeyLabel: "F2", Category: "panels"},
	{ID: OverlayGroups, Name: "Pools", Key: rl.KeyF3, KeyLabel: "F3", Category: "panels", Slot: leftPanel},
	{ID: OverlayStats, Name: "Window Stats", Key: rl.KeyS, KeyLabel: "S", Category: "panels", Slot: leftPanel},
	{ID: OverlayPerf, Name: "Performance", Key: rl.KeyP, KeyLabel: "P", Category: "panels", Slot: leftPanel},
	{ID: OverlayGrid, Name: "Ground Grid", Key: rl.KeyG, KeyLabel: "G", Category: "scene", On: true},
	{ID: OverlayAABB, Name: "Bounding Boxes", Key: rl.KeyF4, KeyLabel: "F4", Category: "scene"},
}

// OverlayRegistry tracks which overlays are shown, in registration order.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry holding the viewer overlays.
func NewOverlayRegistry() *OverlayRegistry {
	r := &OverlayRegistry{enabled: make(map[OverlayID]bool)}
	for _, desc := range defaultOverlays {
		r.Register(desc)
	}
	return r
}

// Register adds an overlay, replacing one with the same ID.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	if i := r.index(desc.ID); i >= 0 {
		r.descriptors[i] = desc
	} else {
		r.descriptors = append(r.descriptors, desc)
	}
	r.SetEnabled(desc.ID, desc.On)
}

func (r *OverlayRegistry) index(id OverlayID) int {
	return slices.IndexFunc(r.descriptors, func(d OverlayDescriptor) bool { return d.ID == id })
}

// SetEnabled shows or hides an overlay. Unknown IDs are ignored.
func (r *OverlayRegistry) SetEnabled(id OverlayID, on bool) {
	i := r.index(id)
	if i < 0 {
		return
	}
	r.enabled[id] = on
	slot := r.descriptors[i].Slot
	if !on || slot == "" {
		return
	}
	for _, d := range r.descriptors {
		if d.Slot == slot && d.ID != id {
			r.enabled[d.ID] = false
		}
	}
}

// Toggle flips an overlay and returns its new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	r.SetEnabled(id, !r.enabled[id])
	return r.enabled[id]
}

// IsEnabled reports whether an overlay is shown.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool { return r.enabled[id] }

// All returns the overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor { return r.descriptors }

// ByCategory returns the overlays of one category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var out []OverlayDescriptor
	for _, d := range r.descriptors {
		if d.Category == category {
			out = append(out, d)
		}
	}
	return out
}

// Categories returns the distinct categories in first-seen order.
func (r *OverlayRegistry) Categories() []string {
	var cats []string
	for _, d := range r.descriptors {
		if !slices.Contains(cats, d.Category) {
			cats = append(cats, d.Category)
		}
	}
	return cats
}

// Keys returns the bound toggle keys.
func (r *OverlayRegistry) Keys() []int32 {
	var keys []int32
	for _, d := range r.descriptors {
		if d.Key != 0 {
			keys = append(keys, d.Key)
		}
	}
	return keys
}

// HandleKeyPress toggles the overlay bound to key. It reports the overlay,
// its new state and whether any overlay was bound.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, d := range r.descriptors {
		if d.Key == key {
			return d.ID, r.Toggle(d.ID), true
		}
	}
	return "", false, false
}
