package config

import (
	"fmt"
	"sort"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths are the keys listed by Paths, for example:
//
//	pixels_per_meter
//	launch_gain
//	window.restitution
//	shapes.palette
//	colors.bouncing
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, ok := valuesByPath(res.Config)[path]
	if !ok {
		return nil, Source{}, fmt.Errorf("unknown path: %s", path)
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault}, nil
}

// Paths lists every explainable path in sorted order.
func Paths() []string {
	values := valuesByPath(DefaultConfig())
	out := make([]string, 0, len(values))
	for p := range values {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func valuesByPath(cfg *Config) map[string]any {
	return map[string]any{
		"display":            cfg.Display,
		"title":              cfg.Title,
		"width":              cfg.Width,
		"height":             cfg.Height,
		"pixels_per_meter":   cfg.PixelsPerMeter,
		"scale_factor":       cfg.ScaleFactor,
		"launch_gain":        cfg.LaunchGain,
		"gravity":            cfg.Gravity,
		"tick_rate":          cfg.TickRate,
		"decorations":        cfg.Decorations,
		"wall_depth":         cfg.WallDepth,
		"window.density":     cfg.Window.Density,
		"window.friction":    cfg.Window.Friction,
		"window.restitution": cfg.Window.Restitution,
		"shapes.min_size":    cfg.Shapes.MinSize,
		"shapes.max_size":    cfg.Shapes.MaxSize,
		"shapes.friction":    cfg.Shapes.Friction,
		"shapes.restitution": cfg.Shapes.Restitution,
		"shapes.palette":     cfg.Shapes.Palette,
		"colors.static":      cfg.Colors.Static,
		"colors.dragging":    cfg.Colors.Dragging,
		"colors.bouncing":    cfg.Colors.Bouncing,
		"toggle_key":         cfg.ToggleKey,
		"drag_button":        cfg.DragButton,
		"log_level":          cfg.LogLevel,
		"log_file":           cfg.LogFile,
		"seed":               cfg.Seed,
	}
}
