package core

// LayerTier selects which of an output's eight layer subtrees a new
// layer surface belongs under.
type LayerTier int

const (
	LayerBackground LayerTier = iota
	LayerBottom
	LayerTop
	LayerOverlay
)

func (o *Output) treeForTier(tier LayerTier) SceneTree {
	switch tier {
	case LayerBackground:
		return o.Layers.Background
	case LayerBottom:
		return o.Layers.Bottom
	case LayerTop:
		return o.Layers.Top
	default:
		return o.Layers.Overlay
	}
}

// NewLayerSurface builds a layer-shell surface's scene subtree under
// the requested tier of o, tags it for hit-testing, and registers it so
// RemoveOutput tears it down along with the rest of o.
func NewLayerSurface(o *Output, tier LayerTier) *LayerSurface {
	tree := o.treeForTier(tier).TreeCreate()
	ls := &LayerSurface{Tree: tree, Output: o}
	TagLayerSurface(tree, ls)
	o.AddLayerSurface(ls)
	return ls
}

// Retier moves a layer surface between the four layer-shell z-bands
// (e.g. on a layer_surface_v1 set_layer request).
func (ls *LayerSurface) Retier(tier LayerTier) {
	reparentScene(ls.Tree, ls.Output.treeForTier(tier))
}
