package core

import "github.com/swaywm/go-wlroots/wlroots"

// fakeSceneTree and fakeSceneNode are an in-memory SceneTree/SceneNode
// pair used by the tests below to drive the transaction engine and
// scene topology without a live wlroots display. At() ignores real
// geometry and always descends into the most-recently-created child,
// which is enough to exercise the tagged-ancestor walk in hittest.go.
type fakeSceneTree struct {
	node *fakeSceneNode
}

func newFakeSceneTree() SceneTree {
	return fakeSceneTree{node: &fakeSceneNode{}}
}

func (t fakeSceneTree) TreeCreate() SceneTree {
	child := fakeSceneTree{node: &fakeSceneNode{parent: t}}
	t.node.children = append(t.node.children, child)
	return child
}

func (t fakeSceneTree) Node() SceneNode { return t.node }

type fakeSceneNode struct {
	enabled   bool
	x, y      int32
	parent    SceneTree
	children  []fakeSceneTree
	data      NodeMeta
	hasData   bool
	raised    int
	lowered   int
	destroyed bool
}

func (n *fakeSceneNode) SetEnabled(enabled bool) { n.enabled = enabled }
func (n *fakeSceneNode) SetPosition(x, y int32)  { n.x, n.y = x, y }
func (n *fakeSceneNode) RaiseToTop()             { n.raised++ }
func (n *fakeSceneNode) LowerToBottom()          { n.lowered++ }
func (n *fakeSceneNode) Destroy()                { n.destroyed = true }

func (n *fakeSceneNode) Reparent(parent SceneTree) {
	n.parent = parent
}

func (n *fakeSceneNode) SetData(meta NodeMeta) {
	n.data = meta
	n.hasData = true
}

func (n *fakeSceneNode) Data() (NodeMeta, bool) {
	return n.data, n.hasData
}

func (n *fakeSceneNode) Parent() (SceneTree, bool) {
	if n.parent == nil {
		return nil, false
	}
	return n.parent, true
}

func (n *fakeSceneNode) At(lx, ly float64) (SceneNode, float64, float64, bool) {
	if len(n.children) == 0 {
		return n, lx, ly, true
	}
	return n.children[len(n.children)-1].node.At(lx, ly)
}

func (n *fakeSceneNode) BufferSurface() (wlroots.Surface, bool) {
	return wlroots.Surface{}, false
}
