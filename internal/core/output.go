package core

import (
	"github.com/sirupsen/logrus"
	"github.com/swaywm/go-wlroots/wlroots"
	"gitlab.com/mstarongitlab/goutils/sliceutils"
)

// OutputPhaseState is one phase's tags/fullscreen snapshot for an
// output. The focus_stack/wm_stack half of the same phase lives in
// Output.stacks, since those are intrusive lists rather than plain
// fields.
type OutputPhaseState struct {
	Tags       uint32
	Fullscreen *View
}

// OutputLayers are the per-output layer-shell and view subtrees,
// bottom to top, each a direct child of Output.Tree.
type OutputLayers struct {
	Background SceneTree
	Bottom     SceneTree
	Layout     SceneTree
	Float      SceneTree
	Top        SceneTree
	Fullscreen SceneTree
	Overlay    SceneTree
	Popups     SceneTree
}

// LayoutDemand is an outstanding request to an output's layout
// generator, live only while Output.Inflight is being computed.
type LayoutDemand struct {
	Count int
}

// LayoutGenerator is the external, per-output collaborator that turns a
// tileable-view count into geometry. Completion (success or error) is
// reported back asynchronously via Root.NotifyLayoutDemandDone.
type LayoutGenerator interface {
	StartLayoutDemand(count int)
	// Boxes returns the geometry computed by the most recently completed
	// demand, one box per tileable slot in the same order
	// StartLayoutDemand's count enumerated them. Called once, right
	// after Root.NotifyLayoutDemandDone, before the next
	// demand may be started.
	Boxes() []Box
	Close()
}

// LayerArranger positions layer-shell surfaces and the background rect
// for an output. The arrangement algorithm itself is an external
// collaborator (spec §1 Non-goals); the core only calls it.
type LayerArranger interface {
	ArrangeLayers(o *Output)
	UpdateBackgroundRect(o *Output)
}

// StatusPublisher reports an output's committed state over whatever
// wire protocol cares (tags bitmask, urgency), once per commit.
type StatusPublisher interface {
	Publish(o *Output)
}

// Output is the core's bookkeeping object for one physical or virtual
// display, wrapping the wlroots output handle plus the three phase
// snapshots spec.md §3 requires.
type Output struct {
	Wlr    wlroots.Output
	Tree   SceneTree
	Layers OutputLayers

	Pending, Inflight, Current OutputPhaseState
	stacks                     PhaseStacks

	LayoutDemand    *LayoutDemand
	LayoutGenerator LayoutGenerator
	StatusPublisher StatusPublisher
	Arranger        LayerArranger

	LayerSurfaces []*LayerSurface

	// active is true once the output has been placed in the layout and
	// is receiving views; false for an all_outputs entry that has not
	// (or no longer) is active.
	active bool
}

// ArrangeLayers delegates layer-surface placement to the installed
// LayerArranger, if any.
func (o *Output) ArrangeLayers() {
	if o.Arranger != nil {
		o.Arranger.ArrangeLayers(o)
	}
}

// UpdateBackgroundRect delegates background-rect recomputation to the
// installed LayerArranger, if any.
func (o *Output) UpdateBackgroundRect() {
	if o.Arranger != nil {
		o.Arranger.UpdateBackgroundRect(o)
	}
}

// AddLayerSurface attaches a layer surface to this output's bookkeeping
// so it is torn down when the output is removed.
func (o *Output) AddLayerSurface(ls *LayerSurface) {
	ls.Output = o
	o.LayerSurfaces = append(o.LayerSurfaces, ls)
}

// destroyLayerSurfaces destroys every layer surface scene node attached
// to this output (spec §4.2 remove_output step 5).
func (o *Output) destroyLayerSurfaces() {
	for _, ls := range o.LayerSurfaces {
		ls.Tree.Node().Destroy()
	}
	o.LayerSurfaces = nil
}

// NewOutput builds the per-output scene subtree (§4, teacher's
// handleNewOutput) and its eight layer subtrees, disabled until
// AddOutput enables and positions it.
func NewOutput(wlr wlroots.Output, scene *SceneTopology) *Output {
	tree := scene.Outputs.TreeCreate()
	o := &Output{Wlr: wlr, Tree: tree}

	o.Layers.Background = tree.TreeCreate()
	o.Layers.Bottom = tree.TreeCreate()
	o.Layers.Layout = tree.TreeCreate()
	o.Layers.Float = tree.TreeCreate()
	o.Layers.Top = tree.TreeCreate()
	o.Layers.Fullscreen = tree.TreeCreate()
	o.Layers.Overlay = tree.TreeCreate()
	o.Layers.Popups = tree.TreeCreate()
	o.Layers.Fullscreen.Node().SetEnabled(false)

	tree.Node().SetEnabled(false)
	return o
}

// Stacks exposes the output's intrusive list heads.
func (o *Output) Stacks() *PhaseStacks { return &o.stacks }

// Resolution reports the output's effective logical resolution at the
// origin, used both for fullscreen placement and for clamping floats.
func (o *Output) Resolution() Box {
	w, h := o.Wlr.EffectiveResolution()
	return Box{X: 0, Y: 0, Width: int32(w), Height: int32(h)}
}

// OutputRegistry owns the all-time and active output lists (spec §4.2).
type OutputRegistry struct {
	allOutputs []*Output
	outputs    []*Output
}

// All returns every output the backend has ever advertised that still
// exists. Used only to publish configurations.
func (r *OutputRegistry) All() []*Output { return r.allOutputs }

// Active returns the currently active (enabled, laid out) outputs.
func (r *OutputRegistry) Active() []*Output { return r.outputs }

// Register adds O to all_outputs without activating it. Called once per
// backend new_output event, before the per-output object decides
// whether to call Add.
func (r *OutputRegistry) Register(o *Output) {
	if len(sliceutils.Filter(r.allOutputs, func(x *Output) bool { return x == o })) > 0 {
		return
	}
	r.allOutputs = append(r.allOutputs, o)
}

// Unregister drops O from all_outputs. Called once the backend's
// destroy event fires, after Remove (if it was active).
func (r *OutputRegistry) Unregister(o *Output) {
	r.allOutputs = sliceutils.Filter(r.allOutputs, func(x *Output) bool { return x != o })
}

func (r *OutputRegistry) isActive(o *Output) bool {
	return len(sliceutils.Filter(r.outputs, func(x *Output) bool { return x == o })) > 0
}

// addActive appends o to the active list. Returns false (no-op) if o
// was already active, satisfying P9 idempotence for add_output.
func (r *OutputRegistry) addActive(o *Output) bool {
	if r.isActive(o) {
		return false
	}
	r.outputs = append(r.outputs, o)
	o.active = true
	return true
}

// removeActive drops o from the active list. Returns false (no-op) if o
// was not active, satisfying P9 idempotence for remove_output.
func (r *OutputRegistry) removeActive(o *Output) bool {
	if !r.isActive(o) {
		return false
	}
	r.outputs = sliceutils.Filter(r.outputs, func(x *Output) bool { return x != o })
	o.active = false
	return true
}

// First returns the first active output, or nil if none.
func (r *OutputRegistry) First() *Output {
	if len(r.outputs) == 0 {
		return nil
	}
	return r.outputs[0]
}

func logOutput(o *Output) *logrus.Entry {
	return logrus.WithField("output", o.Wlr.Name())
}
