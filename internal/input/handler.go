package input

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/winvelocity/internal/sim"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
)

// Handler translates X11 events on the application window into simulation events.
// Callbacks run on the X event loop goroutine and only push to the queue.
type Handler struct {
	xu     *xgbutil.XUtil
	win    xproto.Window
	queue  *sim.Queue
	logger *slog.Logger

	size sizeTracker
}

var ignoreModsOnce sync.Once

// NewHandler creates a handler for win.
func NewHandler(xu *xgbutil.XUtil, win xproto.Window, queue *sim.Queue, logger *slog.Logger) *Handler {
	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		xu:     xu,
		win:    win,
		queue:  queue,
		logger: logger,
	}
}

// BindToggle toggles physics when keySequence is pressed while the window has focus.
func (h *Handler) BindToggle(keySequence string) error {
	err := keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		h.push(sim.EventToggle)
	}).Connect(h.xu, h.win, keySequence, false)
	if err != nil {
		return fmt.Errorf("bind toggle key %q: %w", keySequence, err)
	}
	return nil
}

// BindDrag reports presses and releases of the drag button inside the window.
func (h *Handler) BindDrag(buttonStr string) error {
	_, button, err := mousebind.ParseString(h.xu, buttonStr)
	if err != nil {
		return fmt.Errorf("parse drag button %q: %w", buttonStr, err)
	}

	// Raw button events: a release carries the released button in its state mask, so
	// modifier-keyed bindings would not match it.
	xevent.ButtonPressFun(func(xu *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		if ev.Detail == button {
			h.push(sim.EventPress)
		}
	}).Connect(h.xu, h.win)
	xevent.ButtonReleaseFun(func(xu *xgbutil.XUtil, ev xevent.ButtonReleaseEvent) {
		if ev.Detail == button {
			h.push(sim.EventRelease)
		}
	}).Connect(h.xu, h.win)
	return nil
}

// WatchWindow reports size changes and close requests.
func (h *Handler) WatchWindow() error {
	protocols, err := xprop.Atm(h.xu, "WM_PROTOCOLS")
	if err != nil {
		return fmt.Errorf("intern WM_PROTOCOLS: %w", err)
	}
	deleteWindow, err := xprop.Atm(h.xu, "WM_DELETE_WINDOW")
	if err != nil {
		return fmt.Errorf("intern WM_DELETE_WINDOW: %w", err)
	}

	xevent.ConfigureNotifyFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		if ev.Window != h.win {
			return
		}
		if h.size.update(ev.Width, ev.Height) {
			h.logger.Debug("window resized", "width", ev.Width, "height", ev.Height)
			h.push(sim.EventResize)
		}
	}).Connect(h.xu, h.win)

	xevent.ClientMessageFun(func(xu *xgbutil.XUtil, ev xevent.ClientMessageEvent) {
		if isDeleteRequest(ev.Type, ev.Format, ev.Data.Data32, protocols, deleteWindow) {
			h.push(sim.EventClose)
		}
	}).Connect(h.xu, h.win)

	xevent.DestroyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		if ev.Window == h.win {
			h.push(sim.EventClose)
		}
	}).Connect(h.xu, h.win)

	return nil
}

func (h *Handler) push(kind sim.EventKind) {
	h.logger.Debug("input event", "kind", kind)
	h.queue.Push(sim.Event{Kind: kind})
}

// sizeTracker filters ConfigureNotify events down to actual size changes; moves also
// produce ConfigureNotify.
type sizeTracker struct {
	width  uint16
	height uint16
	seen   bool
}

func (s *sizeTracker) update(width, height uint16) bool {
	if s.seen && s.width == width && s.height == height {
		return false
	}
	s.width, s.height, s.seen = width, height, true
	return true
}

func isDeleteRequest(msgType xproto.Atom, format byte, data []uint32, protocols, deleteWindow xproto.Atom) bool {
	return msgType == protocols && format == 32 && len(data) > 0 && xproto.Atom(data[0]) == deleteWindow
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	unique[0] = struct{}{}

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		unique[mask] = struct{}{}
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
