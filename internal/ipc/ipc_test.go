package ipc

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/1broseidon/winvelocity/internal/platform"
	"github.com/1broseidon/winvelocity/internal/sim"
)

type fakeController struct {
	mu      sync.Mutex
	snap    sim.Snapshot
	toggles int
}

func (f *fakeController) Snapshot() sim.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeController) Toggle() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toggles++
}

type fakeDisplays struct {
	displays []platform.Display
	err      error
}

func (f fakeDisplays) Displays() ([]platform.Display, error) {
	return f.displays, f.err
}

func startServer(t *testing.T, ctrl Controller, displays DisplaySource) *Client {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wv.sock")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv, err := NewServer(path, ctrl, displays, logger)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return NewClientWithPath(path)
}

func TestPing(t *testing.T) {
	client := startServer(t, &fakeController{}, nil)
	if err := client.Ping(); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestGetStatus(t *testing.T) {
	ctrl := &fakeController{snap: sim.Snapshot{Mode: "bouncing", Dynamic: true, Ticks: 42, Decorations: 10}}
	client := startServer(t, ctrl, nil)

	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if !status.Running {
		t.Fatalf("expected running")
	}
	if status.Snapshot.Mode != "bouncing" || !status.Snapshot.Dynamic || status.Snapshot.Ticks != 42 {
		t.Fatalf("unexpected snapshot %+v", status.Snapshot)
	}
}

func TestToggle(t *testing.T) {
	ctrl := &fakeController{snap: sim.Snapshot{Mode: "static"}}
	client := startServer(t, ctrl, nil)

	for i := 0; i < 2; i++ {
		if _, err := client.Toggle(); err != nil {
			t.Fatalf("Toggle: %v", err)
		}
	}
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	if ctrl.toggles != 2 {
		t.Fatalf("expected 2 toggles, got %d", ctrl.toggles)
	}
}

func TestGetMonitors(t *testing.T) {
	displays := fakeDisplays{displays: []platform.Display{
		{ID: 0, Name: "DP-1", Bounds: platform.Rect{Width: 1920, Height: 1080}, Primary: true},
		{ID: 1, Name: "HDMI-1", Bounds: platform.Rect{X: 1920, Width: 1280, Height: 1024}},
	}}
	client := startServer(t, &fakeController{}, displays)

	data, err := client.GetMonitors()
	if err != nil {
		t.Fatalf("GetMonitors: %v", err)
	}
	if len(data.Monitors) != 2 {
		t.Fatalf("expected 2 monitors, got %d", len(data.Monitors))
	}
	if m := data.Monitors[1]; m.Name != "HDMI-1" || m.X != 1920 || m.Primary {
		t.Fatalf("unexpected monitor %+v", m)
	}
	if !data.Monitors[0].Primary {
		t.Fatalf("expected first monitor primary")
	}
}

func TestGetMonitors_Errors(t *testing.T) {
	client := startServer(t, &fakeController{}, fakeDisplays{err: errors.New("randr unavailable")})
	_, err := client.GetMonitors()
	if err == nil || !strings.Contains(err.Error(), "randr unavailable") {
		t.Fatalf("expected backend error, got %v", err)
	}

	client = startServer(t, &fakeController{}, nil)
	if _, err := client.GetMonitors(); err == nil {
		t.Fatalf("expected error without display source")
	}
}

func TestUnknownAndMalformedRequests(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wv.sock")
	srv, err := NewServer(path, &fakeController{}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer srv.Stop()

	tests := []struct {
		name string
		line string
		want string
	}{
		{"unknown command", `{"command":"EXPLODE"}`, "Unknown command"},
		{"not json", `hello`, "Invalid request"},
		{"no command", `{}`, "command is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := net.Dial("unix", path)
			if err != nil {
				t.Fatalf("dial: %v", err)
			}
			defer conn.Close()
			if _, err := conn.Write([]byte(tt.line + "\n")); err != nil {
				t.Fatalf("write: %v", err)
			}
			reply, err := io.ReadAll(conn)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if !strings.Contains(string(reply), `"status":"ERROR"`) || !strings.Contains(string(reply), tt.want) {
				t.Fatalf("unexpected reply %s", reply)
			}
		})
	}
}

func TestClient_NoServer(t *testing.T) {
	client := NewClientWithPath(filepath.Join(t.TempDir(), "missing.sock"))
	if err := client.Ping(); err == nil {
		t.Fatalf("expected connection error")
	}
}

func TestNewServer_Validates(t *testing.T) {
	if _, err := NewServer("", &fakeController{}, nil, nil); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := NewServer(filepath.Join(t.TempDir(), "x.sock"), nil, nil, nil); err == nil {
		t.Fatalf("expected error for nil controller")
	}
}

func TestNextAcceptDelay(t *testing.T) {
	tests := []struct {
		prev time.Duration
		want time.Duration
	}{
		{prev: 0, want: minAcceptDelay},
		{prev: minAcceptDelay, want: 2 * minAcceptDelay},
		{prev: 600 * time.Millisecond, want: maxAcceptDelay},
		{prev: maxAcceptDelay, want: maxAcceptDelay},
	}
	for _, tt := range tests {
		if got := nextAcceptDelay(tt.prev); got != tt.want {
			t.Errorf("nextAcceptDelay(%v) = %v, want %v", tt.prev, got, tt.want)
		}
	}
}

// failingListener fails every Accept until it is closed.
type failingListener struct {
	mu      sync.Mutex
	accepts int
	closed  bool
}

func (l *failingListener) Accept() (net.Conn, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accepts++
	if l.closed {
		return nil, net.ErrClosed
	}
	return nil, errors.New("too many open files")
}

func (l *failingListener) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

func (l *failingListener) Addr() net.Addr { return &net.UnixAddr{Name: "fake", Net: "unix"} }

func (l *failingListener) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.accepts
}

func TestAcceptLoop_BacksOffOnErrors(t *testing.T) {
	ln := &failingListener{}
	srv := &Server{
		socketPath: filepath.Join(t.TempDir(), "wv.sock"),
		listener:   ln,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	srv.wg.Add(1)
	go srv.acceptLoop()

	time.Sleep(50 * time.Millisecond)
	srv.Stop()

	// 5+10+20+40ms of backoff fits in the window; a busy loop would make thousands of calls.
	if n := ln.count(); n > 10 {
		t.Fatalf("expected accept retries to back off, got %d calls", n)
	}
}
