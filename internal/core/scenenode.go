package core

import "github.com/swaywm/go-wlroots/wlroots"

// SceneNode is the subset of a scene node's behavior the core relies
// on: reparenting, enabling, stacking order, and the tagged user-data
// contract of spec §3. It exists so the transaction engine and scene
// topology can be driven in tests without a live wlroots display; the
// only production implementation wraps wlroots.SceneNode (wlrSceneNode
// below).
type SceneNode interface {
	SetEnabled(enabled bool)
	SetPosition(x, y int32)
	Reparent(parent SceneTree)
	RaiseToTop()
	LowerToBottom()
	Destroy()
	SetData(meta NodeMeta)
	Data() (NodeMeta, bool)
	Parent() (SceneTree, bool)
	// At hit-tests the subtree rooted at this node, returning the
	// topmost hit node and surface-local coordinates.
	At(lx, ly float64) (SceneNode, float64, float64, bool)
	// BufferSurface returns the wlroots surface backing this node, if
	// it is a buffer node with one attached.
	BufferSurface() (wlroots.Surface, bool)
}

// SceneTree is the subset of a scene subtree's behavior the core needs:
// creating children and reaching its root node.
type SceneTree interface {
	TreeCreate() SceneTree
	Node() SceneNode
}

// wlrSceneTree adapts a wlroots.SceneTree to the SceneTree interface.
type wlrSceneTree struct {
	tree wlroots.SceneTree
}

// WrapSceneTree adapts a real wlroots scene tree (typically
// scene.Tree()) for use as the core's scene root.
func WrapSceneTree(tree wlroots.SceneTree) SceneTree {
	return wlrSceneTree{tree: tree}
}

func (t wlrSceneTree) TreeCreate() SceneTree {
	return wlrSceneTree{tree: t.tree.TreeCreate()}
}

func (t wlrSceneTree) Node() SceneNode {
	return wlrSceneNode{node: t.tree.Node()}
}

// NewXDGSurfaceTree creates the real wlroots scene subtree that renders
// an XDG-shell surface's buffer, parented under parent. Callers outside
// this package (server.go's map handler) need this because
// wlroots.SceneTree.NewXDGSurface has no equivalent on the fake trees
// tests build; against a fake it just behaves like a plain child.
func NewXDGSurfaceTree(parent SceneTree, xdgSurface wlroots.XDGSurface) SceneTree {
	wt, ok := parent.(wlrSceneTree)
	if !ok {
		return parent.TreeCreate()
	}
	return wlrSceneTree{tree: wt.tree.NewXDGSurface(xdgSurface)}
}

// wlrSceneNode adapts a wlroots.SceneNode to the SceneNode interface.
type wlrSceneNode struct {
	node wlroots.SceneNode
}

func (n wlrSceneNode) SetEnabled(enabled bool)  { n.node.SetEnabled(enabled) }
func (n wlrSceneNode) SetPosition(x, y int32)   { n.node.SetPosition(x, y) }
func (n wlrSceneNode) RaiseToTop()              { n.node.RaiseToTop() }
func (n wlrSceneNode) LowerToBottom()           { n.node.LowerToBottom() }
func (n wlrSceneNode) Destroy()                 { n.node.Destroy() }

func (n wlrSceneNode) Reparent(parent SceneTree) {
	wt, ok := parent.(wlrSceneTree)
	if !ok {
		return
	}
	n.node.Reparent(wt.tree)
}

func (n wlrSceneNode) SetData(meta NodeMeta) {
	n.node.SetData(meta)
}

func (n wlrSceneNode) Data() (NodeMeta, bool) {
	meta, ok := n.node.Data().(NodeMeta)
	return meta, ok
}

func (n wlrSceneNode) Parent() (SceneTree, bool) {
	parent := n.node.Parent()
	if parent.Nil() {
		return nil, false
	}
	return wlrSceneTree{tree: parent}, true
}

func (n wlrSceneNode) At(lx, ly float64) (SceneNode, float64, float64, bool) {
	hit, sx, sy := n.node.At(lx, ly)
	if hit.Nil() {
		return nil, 0, 0, false
	}
	return wlrSceneNode{node: hit}, sx, sy, true
}

func (n wlrSceneNode) BufferSurface() (wlroots.Surface, bool) {
	if n.node.Type() != wlroots.SceneNodeBuffer {
		return wlroots.Surface{}, false
	}
	sceneSurface := n.node.SceneBuffer().SceneSurface()
	if sceneSurface.Nil() {
		return wlroots.Surface{}, false
	}
	return sceneSurface.Surface(), true
}
