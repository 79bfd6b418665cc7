package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winvelocity/internal/ipc"
	"github.com/1broseidon/winvelocity/internal/windowstate"
)

const dragToggleNote = "the drag ends and the window starts bouncing without a launch impulse"

func (s *Server) handleGetWindowState(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetWindowStateInput) (*mcpsdk.CallToolResult, WindowStateOutput, error) {
	status, err := s.control.GetStatus()
	if err != nil {
		return nil, WindowStateOutput{}, fmt.Errorf("get status: %w", err)
	}
	return nil, windowStateFromStatus(status), nil
}

func (s *Server) handleTogglePhysics(_ context.Context, _ *mcpsdk.CallToolRequest, _ TogglePhysicsInput) (*mcpsdk.CallToolResult, TogglePhysicsOutput, error) {
	status, err := s.control.Toggle()
	if err != nil {
		return nil, TogglePhysicsOutput{}, fmt.Errorf("toggle: %w", err)
	}
	out := TogglePhysicsOutput{
		PreviousMode: status.Snapshot.Mode,
		Requested:    true,
	}
	if status.Snapshot.Mode == windowstate.Dragging.String() {
		out.Note = dragToggleNote
	}
	s.logger.Info("toggle requested over mcp", "previous_mode", out.PreviousMode)
	return nil, out, nil
}

func (s *Server) handleListMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListMonitorsInput) (*mcpsdk.CallToolResult, ListMonitorsOutput, error) {
	data, err := s.control.GetMonitors()
	if err != nil {
		return nil, ListMonitorsOutput{}, fmt.Errorf("get monitors: %w", err)
	}
	out := ListMonitorsOutput{Monitors: make([]MonitorOutput, 0, len(data.Monitors))}
	for _, m := range data.Monitors {
		out.Monitors = append(out.Monitors, MonitorOutput{
			Name:    m.Name,
			X:       m.X,
			Y:       m.Y,
			Width:   m.Width,
			Height:  m.Height,
			Primary: m.Primary,
		})
	}
	return nil, out, nil
}

func windowStateFromStatus(status *ipc.StatusData) WindowStateOutput {
	snap := status.Snapshot
	out := WindowStateOutput{
		Mode:           snap.Mode,
		Dynamic:        snap.Dynamic,
		Position:       Vec{X: snap.Position.X, Y: snap.Position.Y},
		Velocity:       Vec{X: snap.Velocity.X, Y: snap.Velocity.Y},
		WindowPosition: Point{X: snap.WindowPosition.X, Y: snap.WindowPosition.Y},
		Ticks:          snap.Ticks,
		Decorations:    snap.Decorations,
		UptimeSeconds:  status.UptimeSeconds,
	}
	if snap.Origin != nil {
		out.DragOrigin = &Point{X: snap.Origin.X, Y: snap.Origin.Y}
	}
	return out
}
