package core

import (
	"github.com/sirupsen/logrus"
	"github.com/swaywm/go-wlroots/wlroots"
)

// OutputLayoutBridge owns the geometric arrangement of outputs (spec
// §4.3). On any layout change it republishes a fresh configuration; the
// listener is detachable so OutputConfigProtocol.Apply can make several
// programmatic edits without each one recursively republishing.
type OutputLayoutBridge struct {
	Layout      wlroots.OutputLayout
	SceneLayout wlroots.SceneOutputLayout

	publish func()
	attached bool
	listener wlroots.Listener
}

// NewOutputLayoutBridge wires a change listener onto layout that calls
// publish whenever the arrangement changes.
func NewOutputLayoutBridge(layout wlroots.OutputLayout, sceneLayout wlroots.SceneOutputLayout, publish func()) *OutputLayoutBridge {
	b := &OutputLayoutBridge{Layout: layout, SceneLayout: sceneLayout, publish: publish}
	b.attach()
	return b
}

func (b *OutputLayoutBridge) attach() {
	if b.attached {
		return
	}
	b.listener = b.Layout.OnChange(func(wlroots.OutputLayout) {
		b.publish()
	})
	b.attached = true
}

// Detach removes the change listener, for the duration of a
// programmatic edit (OutputConfigProtocol.Apply). Reattach must be
// called on every exit path, including error ones.
func (b *OutputLayoutBridge) Detach() {
	if !b.attached {
		return
	}
	b.listener.Destroy()
	b.attached = false
}

// Reattach restores the change listener after a Detach.
func (b *OutputLayoutBridge) Reattach() {
	b.attach()
}

// AddAuto places o in the layout left-to-right, auto-positioning it,
// and returns the coordinates the layout assigned.
func (b *OutputLayoutBridge) AddAuto(o *Output) (x, y int32) {
	lOut := b.Layout.AddOutputAuto(o.Wlr)
	sOut := b.SceneLayout.Scene().NewOutput(o.Wlr)
	b.SceneLayout.AddOutput(lOut, sOut)
	ox, oy := b.Layout.OutputCoords(o.Wlr)
	return int32(ox), int32(oy)
}

// AddAt places o at an explicit position, used by OutputConfigProtocol
// when a client proposes a concrete (x, y).
func (b *OutputLayoutBridge) AddAt(o *Output, x, y int32) {
	lOut := b.Layout.Add(o.Wlr, x, y)
	sOut := b.SceneLayout.Scene().NewOutput(o.Wlr)
	b.SceneLayout.AddOutput(lOut, sOut)
}

// Remove drops o from the layout entirely.
func (b *OutputLayoutBridge) Remove(o *Output) {
	b.Layout.Remove(o.Wlr)
}

func logLayout() *logrus.Entry {
	return logrus.WithField("component", "output-layout")
}

var _ OutputLayout = (*OutputLayoutBridge)(nil)
