package core

import "github.com/swaywm/go-wlroots/wlroots"

// ViewState is one phase's snapshot of a view's placement.
type ViewState struct {
	Output     *Output
	Tags       uint32
	Float      bool
	Fullscreen bool
	Box        Box
}

// ViewImpl is the per-protocol glue the core does not own (XDG-shell,
// layer-shell popups reparented under a view, or the X11 bridge). The
// core calls these to drive a view through a transaction without
// knowing which wire protocol backs it.
type ViewImpl interface {
	// NeedsConfigure reports whether this view's inflight state differs
	// from what was last configured and therefore needs a fresh
	// configure before the transaction can commit.
	NeedsConfigure() bool
	// Configure sends a configure for the view's current inflight state
	// and returns the serial the client is expected to ack.
	Configure() uint32
	// SaveSurfaceTree snapshots the surface tree so the old content can
	// keep being displayed (cross-faded or just held) until the new
	// buffer arrives.
	SaveSurfaceTree()
	// SendFrameDone notifies the client's frame callback immediately,
	// for views that are not expected to submit a new buffer this
	// transaction.
	SendFrameDone()
	// ApplyGeometry pushes a committed box to the underlying surface
	// once current has been updated.
	ApplyGeometry(Box)
	// Close tears down the underlying protocol object. Called once,
	// when the view is reclaimed.
	Close()
	// IsX11 reports whether this view is backed by the Xwayland bridge,
	// which is exempt from the configure-ack count because X11 clients
	// cannot be made to guarantee frame-perfect resizes.
	IsX11() bool
	// Surface returns the live wlroots surface backing this view, so a
	// Seat implementation can hand it to the keyboard/pointer without
	// needing its own protocol-specific bookkeeping.
	Surface() wlroots.Surface
}

// View is the core's bookkeeping object for one mapped (or mapping)
// surface. Per spec invariant I1, at all times it sits on exactly one
// focus_stack and one wm_stack in each of the three phases.
type View struct {
	Impl ViewImpl

	Mapped     bool
	Destroying bool

	Pending, Inflight, Current ViewState

	FloatBox         Box
	PostFullscreenBox Box
	InflightSerial   uint32

	Tree      SceneTree
	PopupTree SceneTree

	links [3][2]Link
}

// NewView wires up a fresh view's intrusive links and binds them back to
// it. It starts parked on nothing; the caller (Root.BindView) links it
// onto hidden.pending before returning it to policy.
func NewView(impl ViewImpl, tree, popupTree SceneTree) *View {
	v := &View{Impl: impl, Tree: tree, PopupTree: popupTree}
	for ph := 0; ph < 3; ph++ {
		for k := 0; k < 2; k++ {
			v.links[ph][k].view = v
		}
	}
	return v
}

// Link returns the intrusive link for (phase, kind).
func (v *View) Link(ph Phase, kind StackKind) *Link {
	return &v.links[ph][kind]
}

// State returns the state snapshot for ph.
func (v *View) State(ph Phase) *ViewState {
	switch ph {
	case PhasePending:
		return &v.Pending
	case PhaseInflight:
		return &v.Inflight
	default:
		return &v.Current
	}
}

// SetPendingOutput moves the view's pending focus_stack and wm_stack
// links onto the target output (or the hidden area if target is nil)
// and updates pending.Output to match. Per spec §4.5/§6 this is the one
// blessed way to change which output a pending view belongs to; it
// never touches inflight or current.
func (v *View) SetPendingOutput(target *Output, hidden *PhaseStacks) {
	v.Pending.Output = target
	var dst *PhaseStacks
	if target != nil {
		dst = &target.stacks
	} else {
		dst = hidden
	}
	v.Link(PhasePending, StackFocus).RelinkBack(dst.Stack(PhasePending, StackFocus))
	v.Link(PhasePending, StackWM).RelinkBack(dst.Stack(PhasePending, StackWM))
}

// RaiseFocus moves v to the front of its own pending and current
// focus_stacks without changing which output (or the hidden area) it
// belongs to. Called on every keyboard focus change so a focus_stack's
// order reflects real recency, per spec §3's "focus_stack: per-output
// order of views by recency of keyboard focus" — the fullscreen
// tie-break and any most-recently-focused-first UI depend on it.
func (v *View) RaiseFocus() {
	for _, ph := range [2]Phase{PhasePending, PhaseCurrent} {
		l := v.Link(ph, StackFocus)
		if l.head != nil {
			l.RelinkFront(l.head)
		}
	}
}

// ClampToOutput clamps pending.Box to the given output's effective
// resolution, used on the float-transition path in Collecting.
func (v *View) ClampToOutput(resolution Box) {
	v.Pending.Box = v.Pending.Box.Clamp(resolution)
}

// UpdateCurrent copies inflight into current and asks the protocol glue
// to apply the resulting geometry to the live surface. Called once per
// view during Committing.
func (v *View) UpdateCurrent() {
	v.Current = v.Inflight
	if v.Impl != nil {
		v.Impl.ApplyGeometry(v.Current.Box)
	}
}

// Close reclaims a view whose Destroying flag was observed on the hidden
// inflight focus_stack during a commit.
func (v *View) Close() {
	if v.Impl != nil {
		v.Impl.Close()
	}
}
