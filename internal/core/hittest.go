package core

import "github.com/swaywm/go-wlroots/wlroots"

// HitTester answers "what's under this layout coordinate" for input
// routing (spec §4.4). It only ever looks at InteractiveContent: drag
// icons are never hit-tested and the hidden tier is disabled, so the
// scene walk already excludes both.
type HitTester struct {
	scene *SceneTopology
}

// NewHitTester builds a hit tester over scene's interactive content.
func NewHitTester(scene *SceneTopology) *HitTester {
	return &HitTester{scene: scene}
}

// At maps a layout coordinate to the topmost interactive node whose
// input region contains it, plus surface-local coordinates. It returns
// false if the coordinate misses every interactive subtree, or if the
// hit node (and its ancestors) carry no metadata.
func (h *HitTester) At(lx, ly float64) (AtResult, bool) {
	node, sx, sy, ok := h.scene.InteractiveContent.Node().At(lx, ly)
	if !ok {
		return AtResult{}, false
	}

	meta, ok := ancestorMeta(node)
	if !ok {
		return AtResult{}, false
	}

	var surface wlroots.Surface
	if s, ok := node.BufferSurface(); ok {
		surface = s
	}

	return AtResult{Surface: surface, SX: sx, SY: sy, Node: meta}, true
}

// ancestorMeta walks up from node to the scene root looking for the
// nearest tagged ancestor (a view's tree root, a layer surface's tree
// root, etc). Buffer nodes themselves are untagged; the tag lives on
// the subtree root they were added under.
func ancestorMeta(node SceneNode) (NodeMeta, bool) {
	cur := node
	for cur != nil {
		if meta, ok := cur.Data(); ok {
			return meta, true
		}
		parent, ok := cur.Parent()
		if !ok {
			break
		}
		cur = parent.Node()
	}
	return NodeMeta{}, false
}
