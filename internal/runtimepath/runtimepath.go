// Package runtimepath locates per-user runtime files such as the control socket.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	socketName = "winvelocity.sock"
	envSocket  = "WINVELOCITY_SOCKET"
)

// Dir returns the per-user runtime directory, trying in order:
//
//	$XDG_RUNTIME_DIR
//	/run/user/<uid>
//	/tmp/winvelocity-<uid> (created 0700)
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}

	tmpDir := fmt.Sprintf("/tmp/winvelocity-%d", uid)
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// SocketPath returns the control socket path. WINVELOCITY_SOCKET overrides it.
func SocketPath() (string, error) {
	if p := os.Getenv(envSocket); p != "" {
		return p, nil
	}
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, socketName), nil
}
