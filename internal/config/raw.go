package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawWindowConfig struct {
	Density     *float64 `yaml:"density"`
	Friction    *float64 `yaml:"friction"`
	Restitution *float64 `yaml:"restitution"`
}

type RawShapesConfig struct {
	MinSize     *float64 `yaml:"min_size"`
	MaxSize     *float64 `yaml:"max_size"`
	Friction    *float64 `yaml:"friction"`
	Restitution *float64 `yaml:"restitution"`
	Palette     []string `yaml:"palette"`
}

type RawColorsConfig struct {
	Static   *string `yaml:"static"`
	Dragging *string `yaml:"dragging"`
	Bouncing *string `yaml:"bouncing"`
}

// RawConfig mirrors Config with every field optional, so files can be layered.
type RawConfig struct {
	Include        IncludeList      `yaml:"include"`
	Display        *string          `yaml:"display"`
	Title          *string          `yaml:"title"`
	Width          *int             `yaml:"width"`
	Height         *int             `yaml:"height"`
	PixelsPerMeter *float64         `yaml:"pixels_per_meter"`
	ScaleFactor    *float64         `yaml:"scale_factor"`
	LaunchGain     *float64         `yaml:"launch_gain"`
	Gravity        *float64         `yaml:"gravity"`
	TickRate       *int             `yaml:"tick_rate"`
	Decorations    *int             `yaml:"decorations"`
	WallDepth      *float64         `yaml:"wall_depth"`
	Window         *RawWindowConfig `yaml:"window"`
	Shapes         *RawShapesConfig `yaml:"shapes"`
	Colors         *RawColorsConfig `yaml:"colors"`
	ToggleKey      *string          `yaml:"toggle_key"`
	DragButton     *string          `yaml:"drag_button"`
	LogLevel       *string          `yaml:"log_level"`
	LogFile        *string          `yaml:"log_file"`
	Seed           *uint64          `yaml:"seed"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	setIf(&out.Display, overlay.Display)
	setIf(&out.Title, overlay.Title)
	setIf(&out.Width, overlay.Width)
	setIf(&out.Height, overlay.Height)
	setIf(&out.PixelsPerMeter, overlay.PixelsPerMeter)
	setIf(&out.ScaleFactor, overlay.ScaleFactor)
	setIf(&out.LaunchGain, overlay.LaunchGain)
	setIf(&out.Gravity, overlay.Gravity)
	setIf(&out.TickRate, overlay.TickRate)
	setIf(&out.Decorations, overlay.Decorations)
	setIf(&out.WallDepth, overlay.WallDepth)
	setIf(&out.ToggleKey, overlay.ToggleKey)
	setIf(&out.DragButton, overlay.DragButton)
	setIf(&out.LogLevel, overlay.LogLevel)
	setIf(&out.LogFile, overlay.LogFile)
	setIf(&out.Seed, overlay.Seed)

	if overlay.Window != nil {
		base := RawWindowConfig{}
		if out.Window != nil {
			base = *out.Window
		}
		merged := mergeRawWindow(base, *overlay.Window)
		out.Window = &merged
	}
	if overlay.Shapes != nil {
		base := RawShapesConfig{}
		if out.Shapes != nil {
			base = *out.Shapes
		}
		merged := mergeRawShapes(base, *overlay.Shapes)
		out.Shapes = &merged
	}
	if overlay.Colors != nil {
		base := RawColorsConfig{}
		if out.Colors != nil {
			base = *out.Colors
		}
		merged := mergeRawColors(base, *overlay.Colors)
		out.Colors = &merged
	}

	// Include is resolved at load time; never carried forward.
	out.Include = nil
	return out
}

func setIf[T any](dst **T, overlay *T) {
	if overlay != nil {
		*dst = overlay
	}
}

func mergeRawWindow(base RawWindowConfig, overlay RawWindowConfig) RawWindowConfig {
	out := base
	setIf(&out.Density, overlay.Density)
	setIf(&out.Friction, overlay.Friction)
	setIf(&out.Restitution, overlay.Restitution)
	return out
}

func mergeRawShapes(base RawShapesConfig, overlay RawShapesConfig) RawShapesConfig {
	out := base
	setIf(&out.MinSize, overlay.MinSize)
	setIf(&out.MaxSize, overlay.MaxSize)
	setIf(&out.Friction, overlay.Friction)
	setIf(&out.Restitution, overlay.Restitution)
	if overlay.Palette != nil {
		out.Palette = append([]string(nil), overlay.Palette...)
	}
	return out
}

func mergeRawColors(base RawColorsConfig, overlay RawColorsConfig) RawColorsConfig {
	out := base
	setIf(&out.Static, overlay.Static)
	setIf(&out.Dragging, overlay.Dragging)
	setIf(&out.Bouncing, overlay.Bouncing)
	return out
}
