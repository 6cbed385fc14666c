package core

import "testing"

func TestHitTesterFindsTaggedAncestor(t *testing.T) {
	scene := NewSceneTopology(newFakeSceneTree())
	ht := NewHitTester(scene)

	viewTree := scene.Outputs.TreeCreate()
	v := &View{}
	TagView(viewTree, v)

	// The buffer node under a view's tree is itself untagged; the tag
	// lives on the subtree root, so At must walk up to find it.
	viewTree.TreeCreate()

	res, ok := ht.At(5, 5)
	if !ok {
		t.Fatal("At() = false, want a hit against the interactive content root")
	}
	if res.Node.Kind != NodeKindView || res.Node.View != v {
		t.Fatalf("res.Node = %+v, want the tagged view", res.Node)
	}
}

func TestHitTesterMissesUntaggedNode(t *testing.T) {
	scene := NewSceneTopology(newFakeSceneTree())
	ht := NewHitTester(scene)

	if _, ok := ht.At(5, 5); ok {
		t.Fatal("At() = true against an interactive content root with no tagged descendants")
	}
}
