package main

import (
	"github.com/mstarongithub/way2gay/internal/core"
	"github.com/sirupsen/logrus"
	"github.com/swaywm/go-wlroots/wlroots"
)

func layerTierOf(l wlroots.LayerShellV1Layer) core.LayerTier {
	switch l {
	case wlroots.LayerShellV1LayerBackground:
		return core.LayerBackground
	case wlroots.LayerShellV1LayerBottom:
		return core.LayerBottom
	case wlroots.LayerShellV1LayerTop:
		return core.LayerTop
	default:
		return core.LayerOverlay
	}
}

// handleNewLayerSurface binds a fresh layer_surface_v1 into the
// requested output's tier, the layer-shell counterpart of
// handleMapXDGToplevel: build the scene subtree, tag it, and let the
// installed LayerArranger place it the next time layers are arranged.
func (server *Server) handleNewLayerSurface(surface wlroots.LayerSurfaceV1) {
	outputWlr := surface.Output()
	var o *core.Output
	if outputWlr.Nil() {
		o = server.root.Registry().First()
	} else {
		o = server.coreOutputs[outputWlr.Name()]
	}
	if o == nil {
		logrus.WithField("surface", surface).Warn("layer surface requested with no output available")
		surface.Destroy()
		return
	}

	ls := core.NewLayerSurface(o, layerTierOf(surface.Layer()))
	surface.SetData(ls)

	surface.OnMap(func(wlroots.LayerSurfaceV1) {
		o.ArrangeLayers()
	})
	surface.OnUnmap(func(wlroots.LayerSurfaceV1) {
		o.ArrangeLayers()
	})
	surface.OnDestroy(func(wlroots.LayerSurfaceV1) {
		ls.Tree.Node().Destroy()
		o.ArrangeLayers()
	})
	surface.OnSetLayer(func(_ wlroots.LayerSurfaceV1, layer wlroots.LayerShellV1Layer) {
		ls.Retier(layerTierOf(layer))
		o.ArrangeLayers()
	})

	o.ArrangeLayers()
}
