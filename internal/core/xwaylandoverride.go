//go:build xwayland

package core

// NewXwaylandOverrideRedirect builds an override-redirect X11 surface's
// scene subtree under the dedicated legacy-layout tier and tags it for
// hit-testing. Only exists in builds with the xwayland tag.
func NewXwaylandOverrideRedirect(scene *SceneTopology) *XwaylandOverrideRedirect {
	tree := scene.XwaylandOverrideRedirect.TreeCreate()
	x := &XwaylandOverrideRedirect{Tree: tree}
	TagXwaylandOverrideRedirect(tree, x)
	return x
}
