package core

import "testing"

func linkedViews(h *listHead) []*View {
	return h.Views()
}

func TestListPushAndUnlink(t *testing.T) {
	var head listHead
	a := &View{}
	b := &View{}
	la := &Link{view: a}
	lb := &Link{view: b}

	head.PushBack(la)
	head.PushBack(lb)

	if head.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", head.Len())
	}
	views := linkedViews(&head)
	if len(views) != 2 || views[0] != a || views[1] != b {
		t.Fatalf("Views() = %v, want [a b]", views)
	}

	la.Unlink()
	if head.Len() != 1 {
		t.Fatalf("Len() after unlink = %d, want 1", head.Len())
	}
	if la.Linked() {
		t.Fatal("la.Linked() = true after Unlink")
	}
	views = linkedViews(&head)
	if len(views) != 1 || views[0] != b {
		t.Fatalf("Views() after unlink = %v, want [b]", views)
	}
}

func TestLinkRelinkBackMovesBetweenOwners(t *testing.T) {
	var src, dst listHead
	a := &View{}
	la := &Link{view: a}
	src.PushBack(la)

	la.RelinkBack(&dst)

	if src.Len() != 0 {
		t.Fatalf("src.Len() = %d, want 0", src.Len())
	}
	if dst.Len() != 1 {
		t.Fatalf("dst.Len() = %d, want 1", dst.Len())
	}
	if dst.Front() != la {
		t.Fatal("dst.Front() is not la after relink")
	}
}

func TestLinkRelinkFrontOrdering(t *testing.T) {
	var dst listHead
	a, b, c := &View{}, &View{}, &View{}
	la, lb, lc := &Link{view: a}, &Link{view: b}, &Link{view: c}

	dst.PushBack(la)
	lb.RelinkFront(&dst)
	lc.RelinkFront(&dst)

	views := linkedViews(&dst)
	if len(views) != 3 || views[0] != c || views[1] != b || views[2] != a {
		t.Fatalf("Views() = %v, want [c b a]", views)
	}
}

func TestPrependAllFromPreservesOrderAndEmptiesSrc(t *testing.T) {
	var src, dst listHead
	a, b := &View{}, &View{}
	la, lb := &Link{view: a}, &Link{view: b}
	src.PushBack(la)
	src.PushBack(lb)

	existing := &View{}
	lExisting := &Link{view: existing}
	dst.PushBack(lExisting)

	dst.PrependAllFrom(&src)

	if src.Len() != 0 {
		t.Fatalf("src.Len() after PrependAllFrom = %d, want 0", src.Len())
	}
	views := linkedViews(&dst)
	if len(views) != 3 || views[0] != a || views[1] != b || views[2] != existing {
		t.Fatalf("Views() = %v, want [a b existing]", views)
	}
}

func TestPrependAllFromEmptySrcIsNoop(t *testing.T) {
	var src, dst listHead
	existing := &View{}
	dst.PushBack(&Link{view: existing})

	dst.PrependAllFrom(&src)

	if dst.Len() != 1 {
		t.Fatalf("dst.Len() = %d, want 1", dst.Len())
	}
}

func TestUnlinkNotLinkedIsNoop(t *testing.T) {
	l := &Link{}
	l.Unlink()
	if l.Linked() {
		t.Fatal("Linked() = true for a link never pushed")
	}
}
