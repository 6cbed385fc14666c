//go:build !xwayland

package core

// XwaylandTierEnabled reports whether this build carries the X11
// override-redirect scene tier (spec §9: feature-gated at compile
// time). This build has X11 support compiled out, so the tier simply
// does not exist.
const XwaylandTierEnabled = false

// InitXwayland is a no-op in builds without X11 support.
func (t *SceneTopology) InitXwayland() {}
