package main

import (
	"time"

	"github.com/mstarongithub/way2gay/internal/core"
	"github.com/swaywm/go-wlroots/wlroots"
)

// compositorSeat is the core.Seat adapter over wlroots' single seat and
// cursor, wrapping the same keyboard-enter/cursor-image plumbing
// server.go's tinywl-derived focusTopLevel/processCursorMotion used to
// do inline against the ad hoc topLevelList.
type compositorSeat struct {
	server        *Server
	focusedOutput *core.Output
}

func (s *compositorSeat) Focus(surface *wlroots.Surface) {
	target := surface
	if target == nil {
		target = s.frontPendingSurface()
	}
	if target == nil {
		return
	}
	s.focusSurface(*target)
}

// frontPendingSurface recomputes what "focus(None)" should mean: the
// most-recently-focused view pending on whichever output the seat is
// currently looking at.
func (s *compositorSeat) frontPendingSurface() *wlroots.Surface {
	if s.focusedOutput == nil {
		return nil
	}
	views := s.focusedOutput.Stacks().Pending.Focus.Views()
	if len(views) == 0 {
		return nil
	}
	surface := views[0].Impl.Surface()
	return &surface
}

func (s *compositorSeat) focusSurface(surface wlroots.Surface) {
	server := s.server
	prevSurface := server.seat.KeyboardState().FocusedSurface()
	if prevSurface == surface {
		return
	}

	if !prevSurface.Nil() {
		if prevTopLevel, err := prevSurface.XDGTopLevel(); err == nil {
			prevTopLevel.SetActivated(false)
		}
	}

	if topLevel, err := surface.XDGTopLevel(); err == nil {
		topLevel.Base().SceneTree().Node().RaiseToTop()
		topLevel.SetActivated(true)
		if view, ok := topLevel.Base().Data().(*core.View); ok {
			view.RaiseFocus()
		}
	}

	server.seat.NotifyKeyboardEnter(surface, server.seat.Keyboard())
}

func (s *compositorSeat) FocusOutput(o *core.Output) { s.focusedOutput = o }

func (s *compositorSeat) FocusedOutput() *core.Output { return s.focusedOutput }

// RefreshCursor re-hit-tests the cursor's current position against the
// (now committed) scene graph and re-sends pointer enter/motion, the
// same logic processCursorMotion's passthrough branch runs on every
// pointer event, now also run once per transaction commit since a
// commit can move whatever's under the cursor without any pointer
// input at all (e.g. a window closing underneath it).
func (s *compositorSeat) RefreshCursor() {
	server := s.server
	res, ok := server.root.At(server.cursor.X(), server.cursor.Y())
	if !ok {
		server.cursor.SetXCursor(server.cursorMgr, "default")
		server.seat.ClearPointerFocus()
		return
	}
	if res.Surface.Nil() {
		server.seat.ClearPointerFocus()
		return
	}
	server.seat.NotifyPointerEnter(res.Surface, res.SX, res.SY)
	server.seat.NotifyPointerMotion(uint32(time.Now().UnixMilli()), res.SX, res.SY)
}

var _ core.Seat = (*compositorSeat)(nil)
