package core

import (
	"testing"

	"github.com/swaywm/go-wlroots/wlroots"
)

func newTestOutputConfigProtocol(r *Root, accept map[*Output]bool) *OutputConfigProtocol {
	commit := func(h HeadConfig) bool {
		if accept == nil {
			return true
		}
		ok, seen := accept[h.Output]
		return !seen || ok
	}
	return &OutputConfigProtocol{
		root:         r,
		testHead:     commit,
		commitHead:   commit,
		warnRejected: func(h HeadConfig) {},
	}
}

func TestOutputConfigTestRejectsIfAnyHeadFails(t *testing.T) {
	r, scene, _, _ := newTestRootWithLayout()
	a := NewOutput(wlroots.Output{}, scene)
	b := NewOutput(wlroots.Output{}, scene)

	p := newTestOutputConfigProtocol(r, map[*Output]bool{a: true, b: false})

	if p.Test([]HeadConfig{{Output: a, Enabled: true}, {Output: b, Enabled: true}}) {
		t.Fatal("Test() = true, want false when any head is rejected")
	}
}

func TestOutputConfigTestAcceptsWhenAllHeadsPass(t *testing.T) {
	r, scene, _, _ := newTestRootWithLayout()
	a := NewOutput(wlroots.Output{}, scene)

	p := newTestOutputConfigProtocol(r, map[*Output]bool{a: true})

	if !p.Test([]HeadConfig{{Output: a, Enabled: true}}) {
		t.Fatal("Test() = false, want true when every head passes")
	}
}

func TestOutputConfigApplyEnablesHeadAndActivatesOutput(t *testing.T) {
	r, scene, _, layout := newTestRootWithLayout()
	o := NewOutput(wlroots.Output{}, scene)
	p := newTestOutputConfigProtocol(r, nil)

	ok := p.Apply([]HeadConfig{{Output: o, Enabled: true, X: 50, Y: 75}})

	if !ok {
		t.Fatal("Apply() = false, want true")
	}
	active := r.registry.Active()
	if len(active) != 1 || active[0] != o {
		t.Fatalf("Active() = %v, want [o] after enabling via output-config apply", active)
	}
	got, ok2 := layout.placed[o]
	if !ok2 || got.x != 50 || got.y != 75 {
		t.Fatalf("placed[o] = %+v, want x=50 y=75", got)
	}
	node := o.Tree.Node().(*fakeSceneNode)
	if !node.enabled || node.x != 50 || node.y != 75 {
		t.Fatalf("output tree = enabled=%v pos=(%d,%d), want enabled at (50,75)", node.enabled, node.x, node.y)
	}
}

func TestOutputConfigApplyDisableRemovesOutput(t *testing.T) {
	r, scene, _, layout := newTestRootWithLayout()
	o := NewOutput(wlroots.Output{}, scene)
	r.AddOutput(o)

	p := newTestOutputConfigProtocol(r, nil)
	ok := p.Apply([]HeadConfig{{Output: o, Enabled: false}})

	if !ok {
		t.Fatal("Apply() = false, want true")
	}
	if len(r.registry.Active()) != 0 {
		t.Fatalf("Active() = %d entries, want 0 after disabling the only output", len(r.registry.Active()))
	}
	if _, stillPlaced := layout.placed[o]; stillPlaced {
		t.Fatal("disabled output should have been removed from the layout")
	}
}

func TestOutputConfigApplyReenableAfterDisableReactivates(t *testing.T) {
	r, scene, _, _ := newTestRootWithLayout()
	o := NewOutput(wlroots.Output{}, scene)
	r.AddOutput(o)

	p := newTestOutputConfigProtocol(r, nil)
	if !p.Apply([]HeadConfig{{Output: o, Enabled: false}}) {
		t.Fatal("disable Apply() = false, want true")
	}
	if len(r.registry.Active()) != 0 {
		t.Fatal("output should be inactive after the disable apply")
	}

	if !p.Apply([]HeadConfig{{Output: o, Enabled: true, X: 0, Y: 0}}) {
		t.Fatal("re-enable Apply() = false, want true")
	}

	active := r.registry.Active()
	if len(active) != 1 || active[0] != o {
		t.Fatalf("Active() = %v, want [o] after re-enabling a previously disabled output", active)
	}
}

func TestOutputConfigApplyPartialFailureKeepsAcceptedHeadEffects(t *testing.T) {
	r, scene, _, layout := newTestRootWithLayout()
	good := NewOutput(wlroots.Output{}, scene)
	bad := NewOutput(wlroots.Output{}, scene)

	p := newTestOutputConfigProtocol(r, map[*Output]bool{good: true, bad: false})

	ok := p.Apply([]HeadConfig{
		{Output: good, Enabled: true, X: 10, Y: 20},
		{Output: bad, Enabled: true, X: 200, Y: 0},
	})

	if ok {
		t.Fatal("Apply() = true, want false when one head is rejected")
	}
	active := r.registry.Active()
	if len(active) != 1 || active[0] != good {
		t.Fatalf("Active() = %v, want [good]; the accepted head's effect should survive a partial failure", active)
	}
	if _, placed := layout.placed[bad]; placed {
		t.Fatal("rejected head should not have been placed in the layout")
	}
}
