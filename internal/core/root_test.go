package core

import (
	"testing"

	"github.com/swaywm/go-wlroots/wlroots"
)

// fakeOutputLayout is a bare in-memory stand-in for *OutputLayoutBridge,
// tracking just enough (which outputs are placed, at what position) for
// AddOutput/AddOutputAt/RemoveOutput to be exercised without a live
// wlroots display.
type fakeOutputLayout struct {
	placed         map[*Output]struct{ x, y int32 }
	detachCalls    int
	reattachCalls  int
	nextAutoX      int32
}

func newFakeOutputLayout() *fakeOutputLayout {
	return &fakeOutputLayout{placed: map[*Output]struct{ x, y int32 }{}}
}

func (l *fakeOutputLayout) AddAuto(o *Output) (x, y int32) {
	x, y = l.nextAutoX, 0
	l.nextAutoX += 100
	l.placed[o] = struct{ x, y int32 }{x, y}
	return x, y
}

func (l *fakeOutputLayout) AddAt(o *Output, x, y int32) {
	l.placed[o] = struct{ x, y int32 }{x, y}
}

func (l *fakeOutputLayout) Remove(o *Output) { delete(l.placed, o) }
func (l *fakeOutputLayout) Detach()          { l.detachCalls++ }
func (l *fakeOutputLayout) Reattach()        { l.reattachCalls++ }

// newTestRootWithLayout builds on newTestRoot, additionally wiring a
// fakeOutputLayout so AddOutput/AddOutputAt/RemoveOutput can be driven
// end-to-end.
func newTestRootWithLayout() (*Root, *SceneTopology, *fakeSeat, *fakeOutputLayout) {
	r, scene, seat, _ := newTestRoot()
	layout := newFakeOutputLayout()
	r.layout = layout
	return r, scene, seat, layout
}

func bindHiddenView(r *Root, scene *SceneTopology) (*View, *fakeViewImpl) {
	impl := &fakeViewImpl{}
	v := NewView(impl, scene.Outputs.TreeCreate(), scene.Outputs.TreeCreate())
	r.BindView(v)
	return v, impl
}

func TestAddOutputPromotesHiddenViewsOnFirstActivation(t *testing.T) {
	r, scene, seat, layout := newTestRootWithLayout()

	v, _ := bindHiddenView(r, scene)

	o := NewOutput(wlroots.Output{}, scene)
	r.AddOutput(o)

	if len(r.registry.Active()) != 1 || r.registry.Active()[0] != o {
		t.Fatalf("Active() = %v, want [o]", r.registry.Active())
	}
	if _, ok := layout.placed[o]; !ok {
		t.Fatal("output was not placed in the layout")
	}
	node := o.Tree.Node().(*fakeSceneNode)
	if !node.enabled {
		t.Fatal("output tree was not enabled by AddOutput")
	}
	if v.Pending.Output != o {
		t.Fatalf("hidden view was not promoted onto the new output: Pending.Output = %v, want %v", v.Pending.Output, o)
	}
	if !scene.HiddenStacks.Empty() {
		t.Fatal("hidden stacks should be empty after promoting the first output")
	}
	if seat.focusedOutput != o {
		t.Fatal("seat was not focused onto the new output")
	}
	if r.txState != TxIdle {
		t.Fatalf("txState = %v, want TxIdle after AddOutput's ApplyPending", r.txState)
	}
}

func TestAddOutputSecondOutputDoesNotRepromote(t *testing.T) {
	r, scene, _, _ := newTestRootWithLayout()

	a := NewOutput(wlroots.Output{}, scene)
	r.AddOutput(a)

	v, _ := bindHiddenView(r, scene)

	b := NewOutput(wlroots.Output{}, scene)
	r.AddOutput(b)

	if len(r.registry.Active()) != 2 {
		t.Fatalf("Active() = %d entries, want 2", len(r.registry.Active()))
	}
	if v.Pending.Output != nil {
		t.Fatalf("view bound after the first output already existed should stay hidden, got Pending.Output = %v", v.Pending.Output)
	}
}

func TestAddOutputIsIdempotent(t *testing.T) {
	r, scene, seat, layout := newTestRootWithLayout()
	o := NewOutput(wlroots.Output{}, scene)

	r.AddOutput(o)
	firstPlacement := layout.placed[o]
	seat.focusedOutput = nil

	r.AddOutput(o)

	if len(r.registry.Active()) != 1 {
		t.Fatalf("Active() = %d entries, want 1 after adding the same output twice", len(r.registry.Active()))
	}
	if layout.placed[o] != firstPlacement {
		t.Fatal("re-adding an already active output should not reposition it")
	}
	if seat.focusedOutput != nil {
		t.Fatal("re-adding an already active output should not re-run first-output promotion")
	}
}

func TestRemoveOutputHotplugDownToZeroThenUp(t *testing.T) {
	r, scene, seat, layout := newTestRootWithLayout()

	o := NewOutput(wlroots.Output{}, scene)
	r.AddOutput(o)

	v, _ := bindHiddenView(r, scene)
	v.SetPendingOutput(o, &scene.HiddenStacks)
	r.ApplyPending()
	if v.Current.Output != o {
		t.Fatalf("view did not commit onto o, Current.Output = %v", v.Current.Output)
	}

	r.RemoveOutput(o)

	if len(r.registry.Active()) != 0 {
		t.Fatalf("Active() = %d entries, want 0 after removing the only output", len(r.registry.Active()))
	}
	if v.Current.Output != nil {
		t.Fatalf("Current.Output = %v, want nil after its output was removed", v.Current.Output)
	}
	if _, ok := layout.placed[o]; ok {
		t.Fatal("removed output should no longer be placed in the layout")
	}
	if seat.focusedOutput != nil {
		t.Fatal("seat should be defocused once the last output is removed")
	}

	o2 := NewOutput(wlroots.Output{}, scene)
	r.AddOutput(o2)

	if v.Pending.Output != o2 {
		t.Fatalf("view evacuated to hidden did not get re-promoted onto the new output, Pending.Output = %v", v.Pending.Output)
	}
}

func TestRemoveOutputFallsBackToRemainingOutput(t *testing.T) {
	r, scene, _, _ := newTestRootWithLayout()

	a := NewOutput(wlroots.Output{}, scene)
	r.AddOutput(a)
	b := NewOutput(wlroots.Output{}, scene)
	r.AddOutput(b)

	v, _ := bindHiddenView(r, scene)
	v.SetPendingOutput(a, &scene.HiddenStacks)
	r.ApplyPending()

	r.RemoveOutput(a)

	if v.Pending.Output != b {
		t.Fatalf("view pending on the removed output did not fall back to the remaining output, got %v", v.Pending.Output)
	}
	if len(r.registry.Active()) != 1 || r.registry.Active()[0] != b {
		t.Fatalf("Active() = %v, want [b]", r.registry.Active())
	}
}

// TestRemoveOutputEvacuatesOnlyDivergedPhase reproduces the scenario
// where a view's inflight and current stack membership have diverged
// across two active outputs mid-transaction: only the phase whose
// stack actually links to the output being removed should have its
// Output field cleared.
func TestRemoveOutputEvacuatesOnlyDivergedPhase(t *testing.T) {
	r, scene, _, _ := newTestRootWithLayout()

	a := NewOutput(wlroots.Output{}, scene)
	r.AddOutput(a)
	n := NewOutput(wlroots.Output{}, scene)
	r.registry.outputs = append(r.registry.outputs, n)
	n.active = true

	// v1 has already been reassigned inflight-wise off of a onto n, but
	// its current-side stack membership is still on a (collect() ran,
	// commit() has not).
	implV1 := &fakeViewImpl{}
	v1 := NewView(implV1, scene.Outputs.TreeCreate(), scene.Outputs.TreeCreate())
	v1.Inflight.Output = n
	v1.Link(PhaseInflight, StackFocus).RelinkBack(&n.Stacks().Inflight.Focus)
	v1.Link(PhaseInflight, StackWM).RelinkBack(&n.Stacks().Inflight.WM)
	v1.Current.Output = a
	v1.Link(PhaseCurrent, StackFocus).RelinkBack(&a.Stacks().Current.Focus)
	v1.Link(PhaseCurrent, StackWM).RelinkBack(&a.Stacks().Current.WM)

	// v2 has just been reassigned inflight-wise onto a, while it is
	// still current-linked to n.
	implV2 := &fakeViewImpl{}
	v2 := NewView(implV2, scene.Outputs.TreeCreate(), scene.Outputs.TreeCreate())
	v2.Inflight.Output = a
	v2.Link(PhaseInflight, StackFocus).RelinkBack(&a.Stacks().Inflight.Focus)
	v2.Link(PhaseInflight, StackWM).RelinkBack(&a.Stacks().Inflight.WM)
	v2.Current.Output = n
	v2.Link(PhaseCurrent, StackFocus).RelinkBack(&n.Stacks().Current.Focus)
	v2.Link(PhaseCurrent, StackWM).RelinkBack(&n.Stacks().Current.WM)

	// Hold the engine where that scenario leaves it, so RemoveOutput's
	// ApplyPending only latches a follow-up instead of committing.
	r.txState = TxAwaitingConfigures

	r.RemoveOutput(a)

	if v1.Inflight.Output != n {
		t.Fatalf("v1.Inflight.Output = %v, want unchanged n (never linked to a's inflight stack)", v1.Inflight.Output)
	}
	if v1.Current.Output != nil {
		t.Fatalf("v1.Current.Output = %v, want nil (it was linked to a's current stack)", v1.Current.Output)
	}

	if v2.Inflight.Output != nil {
		t.Fatalf("v2.Inflight.Output = %v, want nil (it was linked to a's inflight stack)", v2.Inflight.Output)
	}
	if v2.Current.Output != n {
		t.Fatalf("v2.Current.Output = %v, want unchanged n (never linked to a's current stack)", v2.Current.Output)
	}

	if v2.Link(PhaseCurrent, StackFocus).head != &n.Stacks().Current.Focus {
		t.Fatal("v2 should still be linked onto n's current focus stack, untouched by a's removal")
	}
}
