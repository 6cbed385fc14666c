package core

import (
	"testing"

	"github.com/swaywm/go-wlroots/wlroots"
)

func TestOutputRegistryRegisterIsIdempotent(t *testing.T) {
	var r OutputRegistry
	o := &Output{}

	r.Register(o)
	r.Register(o)

	if len(r.All()) != 1 {
		t.Fatalf("All() = %d entries, want 1 after registering twice", len(r.All()))
	}
}

func TestOutputRegistryUnregisterRemovesOnlyThatOutput(t *testing.T) {
	var r OutputRegistry
	a, b := &Output{}, &Output{}
	r.Register(a)
	r.Register(b)

	r.Unregister(a)

	all := r.All()
	if len(all) != 1 || all[0] != b {
		t.Fatalf("All() = %v, want [b]", all)
	}
}

func TestOutputRegistryAddActiveIdempotence(t *testing.T) {
	var r OutputRegistry
	o := &Output{}

	if !r.addActive(o) {
		t.Fatal("addActive() = false on first add, want true")
	}
	if r.addActive(o) {
		t.Fatal("addActive() = true on second add, want false (P9 idempotence)")
	}
	if len(r.Active()) != 1 {
		t.Fatalf("Active() = %d entries, want 1", len(r.Active()))
	}
}

func TestOutputRegistryRemoveActiveIdempotence(t *testing.T) {
	var r OutputRegistry
	o := &Output{}
	r.addActive(o)

	if !r.removeActive(o) {
		t.Fatal("removeActive() = false on first remove, want true")
	}
	if r.removeActive(o) {
		t.Fatal("removeActive() = true on second remove, want false (P9 idempotence)")
	}
	if len(r.Active()) != 0 {
		t.Fatalf("Active() = %d entries, want 0", len(r.Active()))
	}
}

func TestOutputRegistryFirstReturnsNilWhenEmpty(t *testing.T) {
	var r OutputRegistry
	if got := r.First(); got != nil {
		t.Fatalf("First() = %v, want nil", got)
	}
}

func TestOutputRegistryFirstReturnsEarliestActive(t *testing.T) {
	var r OutputRegistry
	a, b := &Output{}, &Output{}
	r.addActive(a)
	r.addActive(b)

	if got := r.First(); got != a {
		t.Fatalf("First() = %v, want a", got)
	}
}

func TestNewOutputBuildsDisabledLayeredTree(t *testing.T) {
	scene := NewSceneTopology(newFakeSceneTree())
	o := NewOutput(wlroots.Output{}, scene)

	node := o.Tree.Node().(*fakeSceneNode)
	if node.enabled {
		t.Fatal("output tree starts enabled, want disabled until AddOutput")
	}
	fsNode := o.Layers.Fullscreen.Node().(*fakeSceneNode)
	if fsNode.enabled {
		t.Fatal("fullscreen layer starts enabled, want disabled until a fullscreen commit")
	}
}
