package core

import (
	"github.com/sirupsen/logrus"
	"github.com/swaywm/go-wlroots/wlroots"
)

// Seat is the external collaborator the core drives during focus
// recomputation and cursor refresh (spec §6).
type Seat interface {
	// Focus asks the seat to recompute keyboard focus. A nil surface
	// means "recompute against current pending state" (spec's
	// focus(None) call in Collecting step 1); a non-nil surface
	// requests focusing that surface directly.
	Focus(surface *wlroots.Surface)
	// FocusOutput retargets the seat's notion of "current output",
	// used on hotplug. A nil output means no output is focused.
	FocusOutput(o *Output)
	// FocusedOutput reports the seat's current output, or nil.
	FocusedOutput() *Output
	// RefreshCursor re-evaluates cursor image/position, called once
	// per commit since move/resize targets may have been retargeted.
	RefreshCursor()
}

// IdleInhibitor is poked once per commit (spec §4.5.3.5); the core does
// not own inhibitor bookkeeping, only triggers a recheck.
type IdleInhibitor interface {
	Recheck()
}

// ConfigPublisher is handed every output whenever the layout changes or
// a config apply completes. The implementation in this repository
// stores and broadcasts an IPC snapshot of the outputs; it does not
// republish output-management or xdg-output protocol state.
type ConfigPublisher interface {
	PublishConfiguration(all []*Output)
}

// OutputLayout is the geometric-arrangement collaborator add_output,
// remove_output, and OutputConfigProtocol.Apply drive (spec §4.3).
// *OutputLayoutBridge is the production implementation.
type OutputLayout interface {
	AddAuto(o *Output) (x, y int32)
	AddAt(o *Output, x, y int32)
	Remove(o *Output)
	Detach()
	Reattach()
}

// Root is the process-singleton coordinator: scene graph, outputs, and
// the transaction pipeline (spec §3).
type Root struct {
	scene        *SceneTopology
	registry     OutputRegistry
	layout       OutputLayout
	hitTester    *HitTester
	OutputConfig *OutputConfigProtocol

	seats         []Seat
	idleInhibitor IdleInhibitor
	configPub     ConfigPublisher
	timer         Timer

	txState               TxState
	inflightLayoutDemands int
	inflightConfigures    int
	pendingDirty          bool
}

// NewRoot builds the scene topology over sceneRoot and wires the output
// layout bridge, hit tester, and output-config protocol around it.
// timer is the host event loop's deadline primitive for the 200ms
// configure wait.
func NewRoot(sceneRoot SceneTree, layout wlroots.OutputLayout, sceneLayout wlroots.SceneOutputLayout, timer Timer, pub ConfigPublisher) *Root {
	r := &Root{timer: timer, configPub: pub}
	r.scene = NewSceneTopology(sceneRoot)
	r.layout = NewOutputLayoutBridge(layout, sceneLayout, r.onLayoutChanged)
	r.hitTester = NewHitTester(r.scene)
	r.OutputConfig = newOutputConfigProtocol(r)
	return r
}

// Deinit tears down the timer and layout listener. Destruction reverses
// creation order (spec §5 resource discipline).
func (r *Root) Deinit() {
	r.timer.Disarm()
	r.layout.Detach()
}

// AddSeat registers a seat with the engine's focus/cursor bookkeeping.
func (r *Root) AddSeat(s Seat) { r.seats = append(r.seats, s) }

// SetIdleInhibitor installs the collaborator poked once per commit.
func (r *Root) SetIdleInhibitor(i IdleInhibitor) { r.idleInhibitor = i }

// Scene exposes the scene topology (for view/layer-surface construction
// callers that need the Hidden or Outputs tiers directly).
func (r *Root) Scene() *SceneTopology { return r.scene }

// Registry exposes the output registry.
func (r *Root) Registry() *OutputRegistry { return &r.registry }

// Layout exposes the output-layout bridge.
func (r *Root) Layout() OutputLayout { return r.layout }

// State reports the transaction engine's current position and counters,
// used by the REPL's "inspect transaction" verb.
func (r *Root) State() (TxState, int, int, bool) {
	return r.txState, r.inflightLayoutDemands, r.inflightConfigures, r.pendingDirty
}

// At maps a layout coordinate to the topmost interactive node.
func (r *Root) At(lx, ly float64) (AtResult, bool) {
	return r.hitTester.At(lx, ly)
}

// OnTimerExpire is the host event loop's timer callback.
func (r *Root) OnTimerExpire() { r.onConfigureTimeout() }

func (r *Root) onLayoutChanged() {
	if r.configPub != nil {
		r.configPub.PublishConfiguration(r.registry.All())
	}
}

// BindView parks a newly-mapped view on the hidden holding area's front
// (most-recently-focused position) per the view lifecycle (spec §3):
// every view enters the system mapped to hidden.
func (r *Root) BindView(v *View) {
	TagView(v.Tree, v)
	hidden := &r.scene.HiddenStacks
	v.Pending.Output = nil
	v.Link(PhasePending, StackFocus).RelinkFront(&hidden.Pending.Focus)
	v.Link(PhasePending, StackWM).RelinkFront(&hidden.Pending.WM)
	reparentScene(v.Tree, r.scene.Hidden)
	reparentScene(v.PopupTree, r.scene.Hidden)
}

// AddOutput implements spec §4.2's add_output, auto-placing o in the
// layout left to right.
func (r *Root) AddOutput(o *Output) {
	if !r.registry.addActive(o) {
		return
	}

	x, y := r.layout.AddAuto(o)
	o.Tree.Node().SetEnabled(true)
	o.Tree.Node().SetPosition(x, y)
	r.promoteIfFirstOutput(o)
}

// AddOutputAt implements add_output for a caller that already knows
// the wanted position (OutputConfigProtocol.Apply, honouring a
// client's proposed x/y). Unlike AddOutput it still repositions o when
// o is already active, since the request may be moving an already
// enabled output rather than newly enabling one.
func (r *Root) AddOutputAt(o *Output, x, y int32) {
	newlyActive := r.registry.addActive(o)

	r.layout.AddAt(o, x, y)
	o.Tree.Node().SetEnabled(true)
	o.Tree.Node().SetPosition(x, y)

	if !newlyActive {
		r.ApplyPending()
		return
	}
	r.promoteIfFirstOutput(o)
}

// promoteIfFirstOutput promotes every hidden pending view onto o and
// focuses it on every seat if o is the only active output (spec §4.2's
// 0->1 promotion), then applies the pending transaction either way.
func (r *Root) promoteIfFirstOutput(o *Output) {
	if len(r.registry.Active()) != 1 {
		r.ApplyPending()
		return
	}

	hidden := &r.scene.HiddenStacks
	o.Pending.Tags = r.scene.HiddenTags
	for _, v := range hidden.Pending.Focus.Views() {
		v.SetPendingOutput(o, hidden)
	}
	if !hidden.Empty() {
		logrus.Error("hidden stacks non-empty after promoting the first output; invariant I2 violated")
	}

	for _, s := range r.seats {
		s.FocusOutput(o)
	}
	r.ApplyPending()
}

// RemoveOutput implements spec §4.2's remove_output.
func (r *Root) RemoveOutput(o *Output) {
	if !r.registry.removeActive(o) {
		return
	}

	r.cancelLayoutDemand(o)

	hidden := &r.scene.HiddenStacks
	for _, v := range o.stacks.Inflight.Focus.Views() {
		v.Inflight.Output = nil
		reparentScene(v.Tree, r.scene.Hidden)
		reparentScene(v.PopupTree, r.scene.Hidden)
	}
	for _, v := range o.stacks.Current.Focus.Views() {
		v.Current.Output = nil
		reparentScene(v.Tree, r.scene.Hidden)
		reparentScene(v.PopupTree, r.scene.Hidden)
	}
	hidden.Inflight.Focus.PrependAllFrom(&o.stacks.Inflight.Focus)
	hidden.Inflight.WM.PrependAllFrom(&o.stacks.Inflight.WM)
	hidden.Current.Focus.PrependAllFrom(&o.stacks.Current.Focus)
	hidden.Current.WM.PrependAllFrom(&o.stacks.Current.WM)

	fallback := r.registry.First()
	if fallback != nil {
		for _, v := range o.stacks.Pending.Focus.Views() {
			v.SetPendingOutput(fallback, hidden)
		}
	} else {
		r.scene.HiddenTags = o.Pending.Tags
		for _, v := range o.stacks.Pending.Focus.Views() {
			v.SetPendingOutput(nil, hidden)
		}
	}

	o.destroyLayerSurfaces()

	for _, s := range r.seats {
		if s.FocusedOutput() == o {
			s.FocusOutput(fallback)
		}
	}

	r.layout.Remove(o)
	o.Tree.Node().SetEnabled(false)

	r.ApplyPending()
}

func (r *Root) cancelLayoutDemand(o *Output) {
	wasAwaiting := r.txState == TxAwaitingLayout && o.LayoutDemand != nil
	o.LayoutDemand = nil
	if o.LayoutGenerator != nil {
		o.LayoutGenerator.Close()
		o.LayoutGenerator = nil
	}
	if wasAwaiting {
		if r.inflightLayoutDemands > 0 {
			r.inflightLayoutDemands--
		}
		if r.inflightLayoutDemands == 0 {
			r.sendConfigures()
		}
	}
}
