package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// WindowConfig holds the material of the window body and its walls.
type WindowConfig struct {
	Density     float64 `yaml:"density"`
	Friction    float64 `yaml:"friction"`
	Restitution float64 `yaml:"restitution"`
}

// ShapesConfig controls the decorations spawned inside the window.
type ShapesConfig struct {
	MinSize     float64  `yaml:"min_size"`
	MaxSize     float64  `yaml:"max_size"`
	Friction    float64  `yaml:"friction"`
	Restitution float64  `yaml:"restitution"`
	Palette     []string `yaml:"palette"`
}

// ColorsConfig holds the background color for each interaction mode.
type ColorsConfig struct {
	Static   string `yaml:"static"`
	Dragging string `yaml:"dragging"`
	Bouncing string `yaml:"bouncing"`
}

// Config is the effective configuration.
type Config struct {
	Display        string       `yaml:"display"`
	Title          string       `yaml:"title"`
	Width          int          `yaml:"width"`
	Height         int          `yaml:"height"`
	PixelsPerMeter float64      `yaml:"pixels_per_meter"`
	ScaleFactor    float64      `yaml:"scale_factor"`
	LaunchGain     float64      `yaml:"launch_gain"`
	Gravity        float64      `yaml:"gravity"`
	TickRate       int          `yaml:"tick_rate"`
	Decorations    int          `yaml:"decorations"`
	WallDepth      float64      `yaml:"wall_depth"`
	Window         WindowConfig `yaml:"window"`
	Shapes         ShapesConfig `yaml:"shapes"`
	Colors         ColorsConfig `yaml:"colors"`
	ToggleKey      string       `yaml:"toggle_key"`
	DragButton     string       `yaml:"drag_button"`
	LogLevel       string       `yaml:"log_level"`
	LogFile        string       `yaml:"log_file"`
	Seed           uint64       `yaml:"seed"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Title:          "window.velocity",
		Width:          600,
		Height:         400,
		PixelsPerMeter: 750,
		ScaleFactor:    1,
		LaunchGain:     2,
		Gravity:        -9.81,
		TickRate:       60,
		Decorations:    10,
		WallDepth:      10,
		Window: WindowConfig{
			Density:     1,
			Friction:    0.8,
			Restitution: 0.3,
		},
		Shapes: ShapesConfig{
			MinSize:     0.01,
			MaxSize:     0.04,
			Friction:    0.3,
			Restitution: 0.5,
			Palette:     []string{"#ff0000", "#ffa500", "#ffc0cb", "#0000ff", "#ffd700"},
		},
		Colors: ColorsConfig{
			Static:   "#808080",
			Dragging: "#404040",
			Bouncing: "#000080",
		},
		ToggleKey:  "space",
		DragButton: "1",
		LogLevel:   "info",
	}
}

// ParseColor parses a hex color ("#rrggbb", "#rgb", with or without '#') into 0xRRGGBB.
func ParseColor(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("color is empty")
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b), nil
}

// Backgrounds returns the parsed static, dragging and bouncing colors.
func (c *Config) Backgrounds() (static, dragging, bouncing uint32, err error) {
	if static, err = ParseColor(c.Colors.Static); err != nil {
		return 0, 0, 0, err
	}
	if dragging, err = ParseColor(c.Colors.Dragging); err != nil {
		return 0, 0, 0, err
	}
	if bouncing, err = ParseColor(c.Colors.Bouncing); err != nil {
		return 0, 0, 0, err
	}
	return static, dragging, bouncing, nil
}

// ShapePalette returns the parsed decoration colors.
func (c *Config) ShapePalette() ([]uint32, error) {
	out := make([]uint32, 0, len(c.Shapes.Palette))
	for _, s := range c.Shapes.Palette {
		v, err := ParseColor(s)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Marshal renders the effective configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path, creating parent directories.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := c.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks the configuration for values the application cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return &ValidationError{Path: "title", Err: fmt.Errorf("title is required")}
	}
	if c.Width <= 0 {
		return &ValidationError{Path: "width", Err: fmt.Errorf("width must be > 0")}
	}
	if c.Height <= 0 {
		return &ValidationError{Path: "height", Err: fmt.Errorf("height must be > 0")}
	}
	if c.PixelsPerMeter <= 0 {
		return &ValidationError{Path: "pixels_per_meter", Err: fmt.Errorf("pixels_per_meter must be > 0")}
	}
	if c.ScaleFactor <= 0 {
		return &ValidationError{Path: "scale_factor", Err: fmt.Errorf("scale_factor must be > 0")}
	}
	if c.LaunchGain < 0 {
		return &ValidationError{Path: "launch_gain", Err: fmt.Errorf("launch_gain must be >= 0")}
	}
	if c.TickRate < 1 || c.TickRate > 1000 {
		return &ValidationError{Path: "tick_rate", Err: fmt.Errorf("tick_rate must be between 1 and 1000")}
	}
	if c.Decorations < 0 {
		return &ValidationError{Path: "decorations", Err: fmt.Errorf("decorations must be >= 0")}
	}
	if c.WallDepth <= 0 {
		return &ValidationError{Path: "wall_depth", Err: fmt.Errorf("wall_depth must be > 0")}
	}

	if c.Window.Density <= 0 {
		return &ValidationError{Path: "window.density", Err: fmt.Errorf("density must be > 0")}
	}
	if c.Window.Friction < 0 {
		return &ValidationError{Path: "window.friction", Err: fmt.Errorf("friction must be >= 0")}
	}
	if c.Window.Restitution < 0 {
		return &ValidationError{Path: "window.restitution", Err: fmt.Errorf("restitution must be >= 0")}
	}

	if c.Shapes.MinSize <= 0 {
		return &ValidationError{Path: "shapes.min_size", Err: fmt.Errorf("min_size must be > 0")}
	}
	if c.Shapes.MaxSize < c.Shapes.MinSize {
		return &ValidationError{Path: "shapes.max_size", Err: fmt.Errorf("max_size must be >= min_size")}
	}
	if c.Shapes.Friction < 0 {
		return &ValidationError{Path: "shapes.friction", Err: fmt.Errorf("friction must be >= 0")}
	}
	if c.Shapes.Restitution < 0 {
		return &ValidationError{Path: "shapes.restitution", Err: fmt.Errorf("restitution must be >= 0")}
	}
	if len(c.Shapes.Palette) == 0 {
		return &ValidationError{Path: "shapes.palette", Err: fmt.Errorf("palette must not be empty")}
	}
	for _, s := range c.Shapes.Palette {
		if _, err := ParseColor(s); err != nil {
			return &ValidationError{Path: "shapes.palette", Err: err}
		}
	}

	for path, s := range map[string]string{
		"colors.static":   c.Colors.Static,
		"colors.dragging": c.Colors.Dragging,
		"colors.bouncing": c.Colors.Bouncing,
	} {
		if _, err := ParseColor(s); err != nil {
			return &ValidationError{Path: path, Err: err}
		}
	}

	if strings.TrimSpace(c.ToggleKey) == "" {
		return &ValidationError{Path: "toggle_key", Err: fmt.Errorf("toggle_key is required")}
	}
	if strings.TrimSpace(c.DragButton) == "" {
		return &ValidationError{Path: "drag_button", Err: fmt.Errorf("drag_button is required")}
	}
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	return nil
}
