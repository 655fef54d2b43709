// Package scene builds the preset particle systems.
package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/pthm-cable/spark/config"
	"github.com/pthm-cable/spark/core"
	"github.com/pthm-cable/spark/render"
)

// ErrUnknownScene is returned by Build for a name with no builder.
var ErrUnknownScene = errors.New("unknown scene")

type builder func(sys *core.System, cfg *config.Config, canvas render.Canvas) error

var builders = map[string]builder{
	"phantoms": buildPhantoms,
	"fountain": buildFountain,
	"vortex":   buildVortex,
}

// Names lists the available scenes in sorted order.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Build populates sys with the named scene. Renderers draw to canvas, which
// may be nil for headless runs.
func Build(name string, sys *core.System, cfg *config.Config, canvas render.Canvas) error {
	b, ok := builders[name]
	if !ok {
		return fmt.Errorf("%w: %q (have %v)", ErrUnknownScene, name, Names())
	}
	if err := b(sys, cfg, canvas); err != nil {
		return fmt.Errorf("building scene %s: %w", name, err)
	}
	sys.SetName(name)
	slog.Info("scene built", "scene", name, "groups", len(sys.Groups()))
	return nil
}

func blendMode(cfg config.RenderConfig) render.BlendMode {
	mode, ok := render.ParseBlendMode(cfg.Blend)
	if !ok {
		slog.Warn("unknown blend mode", "requested", cfg.Blend, "fallback", render.BlendAdditive.String())
		return render.BlendAdditive
	}
	return mode
}

func newGroup(sys *core.System, name string, capacity int) (*core.Group, error) {
	g, err := sys.CreateGroup(capacity)
	if err != nil {
		return nil, fmt.Errorf("group %s: %w", name, err)
	}
	g.SetName(name)
	return g, nil
}
