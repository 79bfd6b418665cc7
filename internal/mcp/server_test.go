package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/jakecoffman/cp"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winvelocity/internal/coords"
	"github.com/1broseidon/winvelocity/internal/ipc"
	"github.com/1broseidon/winvelocity/internal/sim"
)

type fakeControl struct {
	status   *ipc.StatusData
	monitors *ipc.MonitorsData
	err      error
	toggles  int
}

func (f *fakeControl) GetStatus() (*ipc.StatusData, error) { return f.status, f.err }

func (f *fakeControl) Toggle() (*ipc.StatusData, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.toggles++
	return f.status, nil
}

func (f *fakeControl) GetMonitors() (*ipc.MonitorsData, error) { return f.monitors, f.err }

func newTestServer(t *testing.T, ctrl *fakeControl) *Server {
	t.Helper()
	s, err := NewServer(ctrl, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return s
}

func TestNewServer_RequiresControl(t *testing.T) {
	if _, err := NewServer(nil, nil); err == nil {
		t.Fatalf("expected error")
	}
}

func TestGetWindowState(t *testing.T) {
	origin := coords.LogicalPoint{X: 100, Y: 350}
	ctrl := &fakeControl{status: &ipc.StatusData{
		Snapshot: sim.Snapshot{
			Mode:           "dragging",
			Origin:         &origin,
			Position:       cp.Vector{X: 1.2, Y: 0.4},
			Velocity:       cp.Vector{Y: -0.5},
			WindowPosition: coords.LogicalPoint{X: 640, Y: 320},
			Ticks:          7,
			Decorations:    10,
		},
		UptimeSeconds: 3,
	}}
	s := newTestServer(t, ctrl)

	_, out, err := s.handleGetWindowState(context.Background(), nil, GetWindowStateInput{})
	if err != nil {
		t.Fatalf("handleGetWindowState: %v", err)
	}
	if out.Mode != "dragging" || out.Position.X != 1.2 || out.Velocity.Y != -0.5 {
		t.Fatalf("unexpected output %+v", out)
	}
	if out.DragOrigin == nil || out.DragOrigin.Y != 350 {
		t.Fatalf("expected drag origin, got %+v", out.DragOrigin)
	}
	if out.WindowPosition.X != 640 || out.Ticks != 7 || out.UptimeSeconds != 3 {
		t.Fatalf("unexpected output %+v", out)
	}
}

func TestTogglePhysics(t *testing.T) {
	tests := []struct {
		mode     string
		wantNote string
	}{
		{"static", ""},
		{"bouncing", ""},
		{"dragging", "the drag ends and the window starts bouncing without a launch impulse"},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			ctrl := &fakeControl{status: &ipc.StatusData{Snapshot: sim.Snapshot{Mode: tt.mode}}}
			s := newTestServer(t, ctrl)

			_, out, err := s.handleTogglePhysics(context.Background(), nil, TogglePhysicsInput{})
			if err != nil {
				t.Fatalf("handleTogglePhysics: %v", err)
			}
			if ctrl.toggles != 1 || !out.Requested || out.PreviousMode != tt.mode {
				t.Fatalf("unexpected output %+v (toggles=%d)", out, ctrl.toggles)
			}
			if out.Note != tt.wantNote {
				t.Fatalf("note = %q, want %q", out.Note, tt.wantNote)
			}
		})
	}
}

func TestTools_PropagateErrors(t *testing.T) {
	ctrl := &fakeControl{err: errors.New("failed to connect")}
	s := newTestServer(t, ctrl)

	if _, _, err := s.handleGetWindowState(context.Background(), nil, GetWindowStateInput{}); err == nil {
		t.Fatalf("expected get_window_state error")
	}
	if _, _, err := s.handleTogglePhysics(context.Background(), nil, TogglePhysicsInput{}); err == nil {
		t.Fatalf("expected toggle_physics error")
	}
	if _, _, err := s.handleListMonitors(context.Background(), nil, ListMonitorsInput{}); err == nil {
		t.Fatalf("expected list_monitors error")
	}
}

func TestListMonitors(t *testing.T) {
	ctrl := &fakeControl{monitors: &ipc.MonitorsData{Monitors: []ipc.MonitorInfo{
		{Name: "DP-1", Width: 2560, Height: 1440, Primary: true},
		{Name: "HDMI-1", X: 2560, Width: 1920, Height: 1080},
	}}}
	s := newTestServer(t, ctrl)

	_, out, err := s.handleListMonitors(context.Background(), nil, ListMonitorsInput{})
	if err != nil {
		t.Fatalf("handleListMonitors: %v", err)
	}
	if len(out.Monitors) != 2 || !out.Monitors[0].Primary || out.Monitors[1].X != 2560 {
		t.Fatalf("unexpected monitors %+v", out.Monitors)
	}
}

func TestServer_ListsToolsOverTransport(t *testing.T) {
	s := newTestServer(t, &fakeControl{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()
	serverSession, err := s.mcpServer.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	defer serverSession.Close()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test", Version: "0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close()

	res, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	names := map[string]bool{}
	for _, tool := range res.Tools {
		names[tool.Name] = true
		if tool.Name == "toggle_physics" && !strings.Contains(tool.Description, "starts bouncing") {
			t.Fatalf("toggle_physics description must say a drag ends in bouncing: %q", tool.Description)
		}
	}
	for _, want := range []string{"get_window_state", "toggle_physics", "list_monitors"} {
		if !names[want] {
			t.Fatalf("missing tool %q in %v", want, names)
		}
	}
}
