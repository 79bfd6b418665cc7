package mcp

import (
	"context"
	"fmt"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winvelocity/internal/ipc"
)

const (
	ServerName    = "winvelocity"
	ServerVersion = "0.1.0"
)

// Control is the subset of the IPC client the tools call.
type Control interface {
	GetStatus() (*ipc.StatusData, error)
	Toggle() (*ipc.StatusData, error)
	GetMonitors() (*ipc.MonitorsData, error)
}

// Server exposes a running instance to MCP clients.
type Server struct {
	mcpServer *mcpsdk.Server
	control   Control
	logger    *slog.Logger
}

// NewServer creates an MCP server that forwards to control.
func NewServer(control Control, logger *slog.Logger) (*Server, error) {
	if control == nil {
		return nil, fmt.Errorf("control is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		control: control,
		logger:  logger,
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_window_state",
		Description: "Report the physics window's interaction mode, body position and velocity in meters, and the last window position in pixels.",
	}, s.handleGetWindowState)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_physics",
		Description: "Toggle the window between static and bouncing. Takes effect on the next simulation tick. During a drag the drag ends and the window starts bouncing without a launch impulse.",
	}, s.handleTogglePhysics)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_monitors",
		Description: "List connected monitors and which one is primary. The physics boundary sits on the primary monitor.",
	}, s.handleListMonitors)
}
