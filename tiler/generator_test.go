package tiler

import "testing"

func TestGeneratorFreshTreeHasNoLeavesToPlace(t *testing.T) {
	tree := NewTree(Vector2i{X: 1920, Y: 1080})
	g := NewGenerator(&tree, tree.Resolution)

	g.StartLayoutDemand(0)
	if len(g.Boxes()) != 0 {
		t.Fatalf("len(boxes) = %d, want 0 (a fresh tree holds only the empty placeholder leaf)", len(g.Boxes()))
	}
}

func TestGeneratorSingleAppTakesHalfAgainstThePlaceholderLeaf(t *testing.T) {
	// AddApp always splits against the tree's permanent empty
	// placeholder leaf (id 0), so even one real app only ever gets
	// half the space until a second real app replaces the placeholder.
	tree := NewTree(Vector2i{X: 1920, Y: 1080})
	tree.AddApp("a")
	g := NewGenerator(&tree, tree.Resolution)

	g.StartLayoutDemand(1)
	boxes := g.Boxes()
	if len(boxes) != 1 {
		t.Fatalf("len(boxes) = %d, want 1", len(boxes))
	}
	if boxes[0].Width != 1920 || boxes[0].Height != 540 {
		t.Fatalf("boxes[0] = %+v, want half the vertical resolution", boxes[0])
	}
}

func TestGeneratorSplitsBetweenTwoApps(t *testing.T) {
	tree := NewTree(Vector2i{X: 1000, Y: 1000})
	tree.AddApp("a")
	tree.AddApp("b")
	g := NewGenerator(&tree, tree.Resolution)

	g.StartLayoutDemand(2)
	boxes := g.Boxes()
	if len(boxes) != 2 {
		t.Fatalf("len(boxes) = %d, want 2", len(boxes))
	}
	total := boxes[0].Width + boxes[1].Width
	if total != 1000 {
		t.Fatalf("combined width = %d, want 1000", total)
	}
}

func TestGeneratorWarnsOnCountMismatchButStillReturnsBoxes(t *testing.T) {
	tree := NewTree(Vector2i{X: 800, Y: 600})
	tree.AddApp("a")
	g := NewGenerator(&tree, tree.Resolution)

	g.StartLayoutDemand(5)
	if len(g.Boxes()) != 1 {
		t.Fatalf("len(boxes) = %d, want 1 (tree's actual leaf count)", len(g.Boxes()))
	}
}

func TestGeneratorSetResolutionAffectsNextDemand(t *testing.T) {
	tree := NewTree(Vector2i{X: 100, Y: 100})
	tree.AddApp("a")
	g := NewGenerator(&tree, tree.Resolution)
	g.SetResolution(Vector2i{X: 200, Y: 200})

	g.StartLayoutDemand(1)
	boxes := g.Boxes()
	if len(boxes) != 1 {
		t.Fatalf("len(boxes) = %d, want 1", len(boxes))
	}
	if boxes[0].Width != 200 || boxes[0].Height != 100 {
		t.Fatalf("boxes[0] = %+v, want the resized resolution's width and half its height", boxes[0])
	}
}
