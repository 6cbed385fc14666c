//go:build xwayland

package core

// XwaylandTierEnabled reports whether this build carries the X11
// override-redirect scene tier (spec §9: feature-gated at compile
// time).
const XwaylandTierEnabled = true

// InitXwayland adds the override-redirect tier as a sibling of Outputs
// under InteractiveContent.
func (t *SceneTopology) InitXwayland() {
	t.XwaylandOverrideRedirect = t.EnableXwaylandOverrideRedirect()
}
