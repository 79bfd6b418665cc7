package mcp

// Vec is a 2D vector in meters (or meters per second).
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Point is a position in logical pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GetWindowStateInput is the input for the get_window_state tool.
type GetWindowStateInput struct{}

// WindowStateOutput is the output for the get_window_state tool.
type WindowStateOutput struct {
	Mode           string `json:"mode" jsonschema:"Interaction mode: static, dragging or bouncing"`
	Dynamic        bool   `json:"dynamic" jsonschema:"Whether the window body is simulated"`
	Position       Vec    `json:"position" jsonschema:"Body centre in meters"`
	Velocity       Vec    `json:"velocity" jsonschema:"Body velocity in meters per second"`
	WindowPosition Point  `json:"window_position" jsonschema:"Last window position in logical pixels"`
	DragOrigin     *Point `json:"drag_origin,omitempty" jsonschema:"Drag origin in logical pixels while dragging"`
	Ticks          uint64 `json:"ticks"`
	Decorations    int    `json:"decorations"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
}

// TogglePhysicsInput is the input for the toggle_physics tool.
type TogglePhysicsInput struct{}

// TogglePhysicsOutput is the output for the toggle_physics tool.
type TogglePhysicsOutput struct {
	PreviousMode string `json:"previous_mode"`
	Requested    bool   `json:"requested"`
	Note         string `json:"note,omitempty"`
}

// ListMonitorsInput is the input for the list_monitors tool.
type ListMonitorsInput struct{}

// MonitorOutput describes one monitor.
type MonitorOutput struct {
	Name    string `json:"name"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Primary bool   `json:"primary"`
}

// ListMonitorsOutput is the output for the list_monitors tool.
type ListMonitorsOutput struct {
	Monitors []MonitorOutput `json:"monitors"`
}
