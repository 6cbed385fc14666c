package tiler

import (
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/mstarongithub/way2gay/internal/core"
)

// Generator adapts a Tree into a core.LayoutGenerator: it turns the
// tree's current leaf arrangement into a flat, ordered slice of boxes
// sized against whatever resolution the output last reported.
//
// The tree itself is mutated elsewhere (AddApp/RemoveApp/SwapApp,
// keyed by app ID) as views come and go; the generator only ever reads
// it. StartLayoutDemand is synchronous — there's no async solver here,
// so it computes and caches boxes immediately and the count it was
// given is used solely to warn on mismatch, the same way
// Root.NotifyLayoutDemandDone is expected to be called
// right after.
type Generator struct {
	tree   *Tree
	demand int
	boxes  []core.Box
}

// NewGenerator wraps t, laying out against res.
func NewGenerator(t *Tree, res Vector2i) *Generator {
	t.lock.Lock()
	t.Resolution = res
	t.lock.Unlock()
	return &Generator{tree: t}
}

// SetResolution updates the space the tree lays leaves out against,
// e.g. after an output mode change.
func (g *Generator) SetResolution(res Vector2i) {
	g.tree.lock.Lock()
	g.tree.Resolution = res
	g.tree.lock.Unlock()
}

// StartLayoutDemand walks the tree and computes one box per non-empty
// leaf, in ascending leaf-ID order, warning if that count doesn't
// match what the caller says it's about to configure.
func (g *Generator) StartLayoutDemand(count int) {
	g.demand = count
	bound := core.Box{X: 0, Y: 0, Width: int32(g.tree.Resolution.X), Height: int32(g.tree.Resolution.Y)}

	g.tree.lock.Lock()
	leaves := collectLeaves(&g.tree.Root, bound)
	g.tree.lock.Unlock()

	sort.Slice(leaves, func(i, j int) bool { return leaves[i].id < leaves[j].id })
	g.boxes = make([]core.Box, 0, len(leaves))
	for _, l := range leaves {
		g.boxes = append(g.boxes, l.box)
	}

	if len(g.boxes) != count {
		logrus.WithFields(logrus.Fields{"tree": len(g.boxes), "demand": count}).
			Warn("tiler: layout demand count does not match the tree's live leaf count")
	}
}

// Boxes returns the geometry computed by the most recent
// StartLayoutDemand call.
func (g *Generator) Boxes() []core.Box { return g.boxes }

// Close is a no-op; the tree outlives any one demand and is torn down
// by whoever owns the output, not the generator.
func (g *Generator) Close() {}

// AddApp inserts a new leaf for appId into the tree, splitting whatever
// container currently holds keyboard focus.
func (g *Generator) AddApp(appId string) {
	g.tree.AddApp(appId)
}

// RemoveApp removes appId's leaf from the tree. popParent controls
// whether the vacated container's sibling gets absorbed into the
// parent, the same choice Tree.RemoveApp exposes.
func (g *Generator) RemoveApp(appId string, popParent bool) {
	g.tree.RemoveApp(appId, popParent)
}

type placedLeaf struct {
	id  int
	box core.Box
}

// collectLeaves recursively splits bound according to each branch's
// Direction and AspectLeft, returning one entry per non-empty leaf.
func collectLeaves(n *Node, bound core.Box) []placedLeaf {
	switch n.Type {
	case NodeTypeLeaf:
		if n.Leaf == nil || n.Leaf.IsEmpty {
			return nil
		}
		return []placedLeaf{{id: n.Leaf.leafID, box: bound}}
	case NodeTypeBranch:
		left, right := splitBox(bound, n.Branch.Direction, n.Branch.AspectLeft)
		out := collectLeaves(&n.Branch.ChildLeft, left)
		out = append(out, collectLeaves(&n.Branch.ChildRight, right)...)
		return out
	default:
		return nil
	}
}

// splitBox divides bound into two along direction, giving the left (or
// top) side aspectLeft percent of the space.
func splitBox(bound core.Box, dir Direction, aspectLeft int) (core.Box, core.Box) {
	if aspectLeft <= 0 {
		aspectLeft = 50
	}
	if aspectLeft > 100 {
		aspectLeft = 100
	}
	if dir == DirectionHorizontal {
		leftW := bound.Width * int32(aspectLeft) / 100
		left := core.Box{X: bound.X, Y: bound.Y, Width: leftW, Height: bound.Height}
		right := core.Box{X: bound.X + leftW, Y: bound.Y, Width: bound.Width - leftW, Height: bound.Height}
		return left, right
	}
	topH := bound.Height * int32(aspectLeft) / 100
	top := core.Box{X: bound.X, Y: bound.Y, Width: bound.Width, Height: topH}
	bottom := core.Box{X: bound.X, Y: bound.Y + topH, Width: bound.Width, Height: bound.Height - topH}
	return top, bottom
}
