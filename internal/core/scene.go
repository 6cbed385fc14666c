package core

import "github.com/swaywm/go-wlroots/wlroots"

// NodeKind tags which kind of owner a scene node's metadata belongs to
// (spec §3 contract 4: "nodes carry user-opaque metadata").
type NodeKind int

const (
	NodeKindView NodeKind = iota
	NodeKindLayerSurface
	NodeKindLockSurface
	NodeKindXwaylandOverrideRedirect
)

// NodeMeta is the tagged-variant metadata attached to every interactive
// scene node. Exactly one of the pointer fields is non-nil, selected by
// Kind.
type NodeMeta struct {
	Kind NodeKind

	View             *View
	LayerSurface     *LayerSurface
	LockSurface      *LockSurface
	XwaylandOverride *XwaylandOverrideRedirect
}

// AtResult is what HitTester.At returns: the topmost interactive node
// under a layout coordinate, its surface, and the surface-local
// coordinates of the hit.
type AtResult struct {
	Surface wlroots.Surface
	SX, SY  float64
	Node    NodeMeta
}

// SceneTopology owns the fixed three-tier top-level layout described in
// spec §4.1: interactive content (outputs, optionally X11
// override-redirect), drag icons, and the always-disabled hidden
// holding area.
type SceneTopology struct {
	root SceneTree

	InteractiveContent       SceneTree
	Outputs                  SceneTree
	XwaylandOverrideRedirect SceneTree
	DragIcons                SceneTree
	Hidden                   SceneTree

	// HiddenStacks is the hidden area's own phase/focus/wm bookkeeping,
	// parking views attached to no output (spec invariant I2, I3).
	HiddenStacks PhaseStacks
	// HiddenTags is restored onto the next output to appear after the
	// last one was removed (spec §4.2 remove_output step 4).
	HiddenTags uint32
}

// NewSceneTopology constructs the three top-level tiers as children of
// root, in Z-order bottom to top, and disables Hidden permanently.
func NewSceneTopology(root SceneTree) *SceneTopology {
	t := &SceneTopology{root: root}
	t.InteractiveContent = root.TreeCreate()
	t.Outputs = t.InteractiveContent.TreeCreate()
	t.DragIcons = root.TreeCreate()
	t.Hidden = root.TreeCreate()
	t.Hidden.Node().SetEnabled(false)
	return t
}

// EnableXwaylandOverrideRedirect adds the optional X11 override-redirect
// tier as a sibling of Outputs under InteractiveContent. Only called
// when the xwayland build tag is active.
func (t *SceneTopology) EnableXwaylandOverrideRedirect() SceneTree {
	return t.InteractiveContent.TreeCreate()
}

// reparentScene moves tree under a new parent without touching its
// content, per the scene-graph contract's first guarantee (spec §3).
func reparentScene(tree SceneTree, parent SceneTree) {
	tree.Node().Reparent(parent)
}

// TagView stamps a view's tree root with View metadata, so it resolves
// during hit-testing and the variant can be recovered without a type
// switch on the protocol object itself.
func TagView(tree SceneTree, v *View) {
	tree.Node().SetData(NodeMeta{Kind: NodeKindView, View: v})
}

// TagLayerSurface stamps a layer-surface's tree root.
func TagLayerSurface(tree SceneTree, ls *LayerSurface) {
	tree.Node().SetData(NodeMeta{Kind: NodeKindLayerSurface, LayerSurface: ls})
}

// TagLockSurface stamps a session-lock surface's tree root.
func TagLockSurface(tree SceneTree, ls *LockSurface) {
	tree.Node().SetData(NodeMeta{Kind: NodeKindLockSurface, LockSurface: ls})
}

// TagXwaylandOverrideRedirect stamps an override-redirect X11 surface's
// tree root.
func TagXwaylandOverrideRedirect(tree SceneTree, x *XwaylandOverrideRedirect) {
	tree.Node().SetData(NodeMeta{Kind: NodeKindXwaylandOverrideRedirect, XwaylandOverride: x})
}

// LayerSurface, LockSurface and XwaylandOverrideRedirect are the
// external per-protocol view-alikes named by spec §3's tagged variant.
// The core only needs enough of each to reparent and disable their
// trees; everything else is out of scope (per-view surface protocol
// handling, §1).
type LayerSurface struct {
	Tree   SceneTree
	Output *Output
}

type LockSurface struct {
	Tree SceneTree
}

type XwaylandOverrideRedirect struct {
	Tree SceneTree
}
