package core

import (
	"testing"

	"github.com/swaywm/go-wlroots/wlroots"
)

func TestRaiseFocusMovesViewToFrontOfItsOwnFocusStacks(t *testing.T) {
	scene := NewSceneTopology(newFakeSceneTree())
	o := NewOutput(wlroots.Output{}, scene)

	a := NewView(&fakeViewImpl{}, scene.Outputs.TreeCreate(), scene.Outputs.TreeCreate())
	b := NewView(&fakeViewImpl{}, scene.Outputs.TreeCreate(), scene.Outputs.TreeCreate())
	c := NewView(&fakeViewImpl{}, scene.Outputs.TreeCreate(), scene.Outputs.TreeCreate())

	for _, ph := range [2]Phase{PhasePending, PhaseCurrent} {
		for _, v := range []*View{a, b, c} {
			v.Link(ph, StackFocus).RelinkBack(o.stacks.Stack(ph, StackFocus))
		}
	}

	c.RaiseFocus()

	for _, ph := range [2]Phase{PhasePending, PhaseCurrent} {
		views := o.stacks.Stack(ph, StackFocus).Views()
		if len(views) != 3 || views[0] != c {
			t.Fatalf("phase %v: front of focus_stack = %v, want c in front, got order %v", ph, views[0], views)
		}
	}
}

func TestRaiseFocusOnUnlinkedViewIsANoOp(t *testing.T) {
	v := NewView(&fakeViewImpl{}, nil, nil)
	v.RaiseFocus()

	for _, ph := range [2]Phase{PhasePending, PhaseCurrent} {
		if v.Link(ph, StackFocus).Linked() {
			t.Fatalf("phase %v: view became linked after RaiseFocus on a never-linked view", ph)
		}
	}
}
