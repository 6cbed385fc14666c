package core

import (
	"time"

	"github.com/sirupsen/logrus"
)

// TxState is the transaction engine's state machine position (spec
// §4.5.1): Idle -> Collecting -> AwaitingLayout -> AwaitingConfigures ->
// Committing -> Idle.
type TxState int

const (
	TxIdle TxState = iota
	TxCollecting
	TxAwaitingLayout
	TxAwaitingConfigures
	TxCommitting
)

func (s TxState) String() string {
	switch s {
	case TxIdle:
		return "idle"
	case TxCollecting:
		return "collecting"
	case TxAwaitingLayout:
		return "awaiting-layout"
	case TxAwaitingConfigures:
		return "awaiting-configures"
	case TxCommitting:
		return "committing"
	default:
		return "unknown"
	}
}

// ConfigureTimeout is the deadline (spec §4.5.4) after which a
// transaction commits anyway, accepting a torn frame from whichever
// client failed to ack.
const ConfigureTimeout = 200 * time.Millisecond

// Timer is the one suspension point the transaction engine needs: a
// single-shot, re-armable deadline driven by the host event loop.
type Timer interface {
	// Arm schedules the timeout to fire once after d. Returns an error
	// if the arm failed (spec's TimerArmFailure), in which case the
	// engine commits immediately rather than risk never firing.
	Arm(d time.Duration) error
	// Disarm cancels a pending deadline. Safe to call when not armed.
	Disarm()
}

// ApplyPending is the transaction pipeline's single entry point (spec
// §4.5). If a transaction is already in flight it latches
// pending_state_dirty and returns; the running transaction will re-enter
// once it commits (invariant I6).
func (r *Root) ApplyPending() {
	if r.txState != TxIdle {
		r.pendingDirty = true
		return
	}
	r.txState = TxCollecting
	r.collect()
	if r.inflightLayoutDemands == 0 {
		r.sendConfigures()
		return
	}
	r.txState = TxAwaitingLayout
}

// collect performs the pending -> inflight snapshot, in the exact order
// spec §4.5.2 mandates, without suspension.
func (r *Root) collect() {
	// Step 1: let every seat recompute focus against pending state
	// before anything else moves. A seat implementation that mutates
	// pending and calls ApplyPending reentrantly here just latches
	// pendingDirty (step 2's safeguard); the snapshot below still runs
	// to completion, and the dirty re-entry happens after this
	// transaction commits.
	for _, seat := range r.seats {
		seat.Focus(nil)
	}

	hidden := &r.scene.HiddenStacks

	// Step 3: drain hidden pending views into hidden inflight.
	for _, v := range hidden.Pending.Focus.Views() {
		if v.Pending.Output != nil {
			logrus.WithField("view", v).Error("hidden pending view has a pending output; invariant I2 violated")
		}
		v.Inflight = v.Pending
		v.Inflight.Output = nil
		v.Link(PhaseInflight, StackFocus).RelinkBack(&hidden.Inflight.Focus)
	}
	for _, v := range hidden.Pending.WM.Views() {
		v.Link(PhaseInflight, StackWM).RelinkBack(&hidden.Inflight.WM)
	}

	active := r.registry.Active()

	// Step 4: per-output pending -> inflight, fullscreen election,
	// float-box bookkeeping.
	for _, o := range active {
		prevInflightFS := o.Inflight.Fullscreen
		o.Pending.Fullscreen = nil

		for _, v := range o.stacks.Pending.Focus.Views() {
			if v.Pending.Output != o {
				logrus.WithField("view", v).Error("pending focus_stack view output mismatch; invariant I2 violated")
			}

			if v.Current.Float && !v.Pending.Float {
				v.FloatBox = v.Current.Box
			} else if !v.Current.Float && v.Pending.Float {
				v.Pending.Box = v.FloatBox
				v.ClampToOutput(o.Resolution())
			}

			if o.Pending.Fullscreen == nil && v.Pending.Fullscreen && (v.Pending.Tags&o.Pending.Tags) != 0 {
				o.Pending.Fullscreen = v
			}

			v.Link(PhaseInflight, StackFocus).RelinkBack(&o.stacks.Inflight.Focus)
			v.Inflight = v.Pending
		}

		if prevInflightFS != nil && prevInflightFS != o.Pending.Fullscreen {
			prevInflightFS.Pending.Box = prevInflightFS.PostFullscreenBox
			prevInflightFS.ClampToOutput(o.Resolution())
			prevInflightFS.Inflight.Box = prevInflightFS.Pending.Box
		}

		for _, v := range o.stacks.Pending.WM.Views() {
			v.Link(PhaseInflight, StackWM).RelinkBack(&o.stacks.Inflight.WM)
		}

		o.Inflight.Tags = o.Pending.Tags
	}

	// Step 5: second pass, fullscreen migrating between outputs.
	for _, o := range active {
		if o.Pending.Fullscreen == o.Inflight.Fullscreen {
			continue
		}
		if v := o.Pending.Fullscreen; v != nil {
			v.PostFullscreenBox = v.Current.Box
			v.Pending.Box = o.Resolution()
			v.Inflight.Box = v.Pending.Box
		}
		o.Inflight.Fullscreen = o.Pending.Fullscreen
	}

	// Step 6: start layout demands for outputs with tileable views.
	r.inflightLayoutDemands = 0
	for _, o := range active {
		if o.LayoutGenerator == nil {
			continue
		}
		count := 0
		for _, v := range o.stacks.Inflight.WM.Views() {
			if !v.Inflight.Float && !v.Inflight.Fullscreen && (v.Inflight.Tags&o.Inflight.Tags) != 0 {
				count++
			}
		}
		if count == 0 {
			continue
		}
		// TODO: skip re-issuing the demand if count is unchanged from
		// the output's last one, once the layout generator is proven
		// deterministic for a fixed input. Preserved as always-restart
		// for now.
		o.LayoutDemand = &LayoutDemand{Count: count}
		o.LayoutGenerator.StartLayoutDemand(count)
		r.inflightLayoutDemands++
	}
}

// NotifyLayoutDemandDone is called by a per-output layout generator as
// each demand it was asked to start resolves (success or error).
func (r *Root) NotifyLayoutDemandDone(o *Output) {
	if r.txState != TxAwaitingLayout {
		return
	}
	o.LayoutDemand = nil
	r.applyLayoutBoxes(o)
	if r.inflightLayoutDemands > 0 {
		r.inflightLayoutDemands--
	}
	if r.inflightLayoutDemands == 0 {
		r.sendConfigures()
	}
}

// applyLayoutBoxes zips the geometry a completed layout demand produced
// onto the same tileable inflight views collect's step 6 counted, in
// wm_stack order.
func (r *Root) applyLayoutBoxes(o *Output) {
	if o.LayoutGenerator == nil {
		return
	}
	boxes := o.LayoutGenerator.Boxes()
	i := 0
	for _, v := range o.stacks.Inflight.WM.Views() {
		if v.Inflight.Float || v.Inflight.Fullscreen || (v.Inflight.Tags&o.Inflight.Tags) == 0 {
			continue
		}
		if i < len(boxes) {
			v.Inflight.Box = boxes[i]
			v.Pending.Box = boxes[i]
		}
		i++
	}
	if i != len(boxes) {
		logrus.WithFields(logrus.Fields{"tileable": i, "boxes": len(boxes)}).Warn("layout generator returned a different box count than the demand it was started with")
	}
}

// sendConfigures walks every inflight view, configures the ones that
// need it, and arms the timeout. Transitions straight to Committing if
// nothing needs to be waited on.
func (r *Root) sendConfigures() {
	r.txState = TxAwaitingConfigures
	r.inflightConfigures = 0

	for _, v := range r.allInflightViews() {
		if v.Impl == nil {
			continue
		}
		if v.Impl.NeedsConfigure() {
			v.InflightSerial = v.Impl.Configure()
			if !v.Impl.IsX11() {
				r.inflightConfigures++
			}
			v.Impl.SaveSurfaceTree()
		} else {
			v.Impl.SendFrameDone()
		}
	}

	if r.inflightConfigures == 0 {
		r.commit()
		return
	}

	if err := r.timer.Arm(ConfigureTimeout); err != nil {
		logrus.WithError(err).Error("arming transaction timeout timer")
		r.inflightConfigures = 0
		r.commit()
	}
}

// NotifyConfigured is called as each view's client acks its configure.
func (r *Root) NotifyConfigured(v *View) {
	if r.txState != TxAwaitingConfigures {
		return
	}
	if r.inflightConfigures == 0 {
		return
	}
	r.inflightConfigures--
	if r.inflightConfigures == 0 {
		r.timer.Disarm()
		r.commit()
	}
}

// onConfigureTimeout is the timer callback: spec's ConfigureAckMissing
// policy, a warning and an immediate commit with whatever configures
// landed.
func (r *Root) onConfigureTimeout() {
	if r.txState != TxAwaitingConfigures {
		return
	}
	logrus.WithField("inflight_configures", r.inflightConfigures).Warn("transaction configure timeout; committing with imperfect frame")
	r.inflightConfigures = 0
	r.commit()
}

// allInflightViews collects every view across every active output's
// inflight focus_stack plus the hidden area's.
func (r *Root) allInflightViews() []*View {
	out := r.scene.HiddenStacks.Inflight.Focus.Views()
	for _, o := range r.registry.Active() {
		out = append(out, o.stacks.Inflight.Focus.Views()...)
	}
	return out
}

// commit promotes inflight to current (spec §4.5.3) and returns to Idle,
// re-entering ApplyPending immediately if pending mutated meanwhile.
func (r *Root) commit() {
	r.txState = TxCommitting

	reclaim := r.commitHidden()
	for _, o := range r.registry.Active() {
		r.commitOutput(o)
	}
	for _, s := range r.seats {
		s.RefreshCursor()
	}
	for _, v := range reclaim {
		v.Close()
		v.Link(PhaseCurrent, StackFocus).Unlink()
		v.Link(PhaseCurrent, StackWM).Unlink()
	}
	if r.idleInhibitor != nil {
		r.idleInhibitor.Recheck()
	}

	r.txState = TxIdle
	if r.pendingDirty {
		r.pendingDirty = false
		r.ApplyPending()
	}
}

// commitHidden promotes hidden's inflight stacks to current, reparenting
// every view under the hidden tree (invariant I3), and returns the
// subset marked Destroying for reclamation once the commit finishes.
func (r *Root) commitHidden() []*View {
	hidden := &r.scene.HiddenStacks
	var reclaim []*View

	for _, v := range hidden.Inflight.Focus.Views() {
		if v.Inflight.Output != nil {
			logrus.WithField("view", v).Error("hidden inflight focus_stack view has a non-nil output; invariant I2 violated")
		}
		v.Current.Output = nil
		reparentScene(v.Tree, r.scene.Hidden)
		reparentScene(v.PopupTree, r.scene.Hidden)
		v.UpdateCurrent()
		v.Link(PhaseCurrent, StackFocus).RelinkBack(&hidden.Current.Focus)
		if v.Destroying {
			reclaim = append(reclaim, v)
		}
	}
	for _, v := range hidden.Inflight.WM.Views() {
		v.Link(PhaseCurrent, StackWM).RelinkBack(&hidden.Current.WM)
	}
	return reclaim
}

// commitOutput promotes one active output's inflight to current.
func (r *Root) commitOutput(o *Output) {
	if changed := o.Current.Tags != o.Inflight.Tags; changed {
		logOutput(o).WithFields(logrus.Fields{"from": o.Current.Tags, "to": o.Inflight.Tags}).Debug("output tags changed")
	}
	o.Current.Tags = o.Inflight.Tags

	for _, v := range o.stacks.Inflight.Focus.Views() {
		if v.Inflight.Output != o {
			logOutput(o).WithField("view", v).Error("inflight focus_stack view output mismatch; invariant I2 violated")
		}
		v.InflightSerial = 0

		leavingFullscreen := o.Current.Fullscreen == v && o.Inflight.Fullscreen != v
		changedOutput := v.Current.Output != v.Inflight.Output

		parent := o.Layers.Layout
		if v.Inflight.Float {
			parent = o.Layers.Float
		}
		if changedOutput || leavingFullscreen {
			reparentScene(v.Tree, parent)
		}
		reparentScene(v.PopupTree, o.Layers.Popups)
		// Redundant with the reparent above in the common case; kept
		// as-specified (spec §9 design note: do not infer intent to
		// simplify).
		if v.Current.Float != v.Inflight.Float {
			reparentScene(v.Tree, parent)
		}

		v.UpdateCurrent()

		enabled := (v.Current.Tags & o.Current.Tags) != 0
		v.Tree.Node().SetEnabled(enabled)
		v.PopupTree.Node().SetEnabled(enabled)

		if o.Inflight.Fullscreen != v {
			// TODO: lowering to bottom on every commit may over-damage;
			// acceptable for now.
			v.Tree.Node().LowerToBottom()
		}

		v.Link(PhaseCurrent, StackFocus).RelinkBack(&o.stacks.Current.Focus)
	}
	for _, v := range o.stacks.Inflight.WM.Views() {
		v.Link(PhaseCurrent, StackWM).RelinkBack(&o.stacks.Current.WM)
	}

	if o.Inflight.Fullscreen != o.Current.Fullscreen {
		if v := o.Inflight.Fullscreen; v != nil {
			reparentScene(v.Tree, o.Layers.Fullscreen)
		}
		o.Current.Fullscreen = o.Inflight.Fullscreen
		o.Layers.Fullscreen.Node().SetEnabled(o.Current.Fullscreen != nil)
	}

	if o.StatusPublisher != nil {
		o.StatusPublisher.Publish(o)
	}
}
