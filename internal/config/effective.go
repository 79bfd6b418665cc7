package config

import "fmt"

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies raw on top of DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	apply(&cfg.Display, raw.Display)
	apply(&cfg.Title, raw.Title)
	apply(&cfg.Width, raw.Width)
	apply(&cfg.Height, raw.Height)
	apply(&cfg.PixelsPerMeter, raw.PixelsPerMeter)
	apply(&cfg.ScaleFactor, raw.ScaleFactor)
	apply(&cfg.LaunchGain, raw.LaunchGain)
	apply(&cfg.Gravity, raw.Gravity)
	apply(&cfg.TickRate, raw.TickRate)
	apply(&cfg.Decorations, raw.Decorations)
	apply(&cfg.WallDepth, raw.WallDepth)
	apply(&cfg.ToggleKey, raw.ToggleKey)
	apply(&cfg.DragButton, raw.DragButton)
	apply(&cfg.LogLevel, raw.LogLevel)
	apply(&cfg.LogFile, raw.LogFile)
	apply(&cfg.Seed, raw.Seed)

	if w := raw.Window; w != nil {
		apply(&cfg.Window.Density, w.Density)
		apply(&cfg.Window.Friction, w.Friction)
		apply(&cfg.Window.Restitution, w.Restitution)
	}
	if s := raw.Shapes; s != nil {
		apply(&cfg.Shapes.MinSize, s.MinSize)
		apply(&cfg.Shapes.MaxSize, s.MaxSize)
		apply(&cfg.Shapes.Friction, s.Friction)
		apply(&cfg.Shapes.Restitution, s.Restitution)
		if s.Palette != nil {
			cfg.Shapes.Palette = append([]string(nil), s.Palette...)
		}
	}
	if c := raw.Colors; c != nil {
		apply(&cfg.Colors.Static, c.Static)
		apply(&cfg.Colors.Dragging, c.Dragging)
		apply(&cfg.Colors.Bouncing, c.Bouncing)
	}

	return cfg
}

func apply[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
