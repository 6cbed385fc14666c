package core

import (
	"github.com/sirupsen/logrus"
	"github.com/swaywm/go-wlroots/wlroots"
)

// HeadConfig is one proposed head in an output-management test/apply
// request: enabled, mode, position, transform, scale, adaptive sync.
type HeadConfig struct {
	Output *Output

	Enabled bool
	Mode    wlroots.OutputMode
	// Width/Height/Refresh are used when Mode is not one of the
	// output's advertised modes (a custom mode request).
	Width, Height, Refresh int32

	X, Y         int32
	Transform    wlroots.OutputTransform
	Scale        float32
	AdaptiveSync bool
}

func buildOutputState(h HeadConfig) wlroots.OutputState {
	state := wlroots.NewOutputState()
	state.StateInit()
	state.StateSetEnabled(h.Enabled)
	if h.Enabled {
		switch {
		case h.Mode.Valid():
			state.SetMode(h.Mode)
		case h.Width != 0 && h.Height != 0:
			state.SetCustomMode(h.Width, h.Height, h.Refresh)
		}
		state.SetTransform(h.Transform)
		state.SetScale(h.Scale)
		state.SetAdaptiveSyncEnabled(h.AdaptiveSync)
	}
	return state
}

// OutputConfigProtocol handles external apply/test requests against the
// output layout (spec §4.6), conforming to the standard
// wlr_output_manager_v1 test/apply contract. testHead/commitHead are
// swapped out in tests to avoid driving the real wlroots output state
// machinery.
type OutputConfigProtocol struct {
	root *Root

	testHead     func(h HeadConfig) bool
	commitHead   func(h HeadConfig) bool
	warnRejected func(h HeadConfig)
}

func newOutputConfigProtocol(r *Root) *OutputConfigProtocol {
	return &OutputConfigProtocol{
		root: r,
		testHead: func(h HeadConfig) bool {
			state := buildOutputState(h)
			ok := h.Output.Wlr.TestState(state)
			state.Finish()
			return ok
		},
		commitHead: func(h HeadConfig) bool {
			state := buildOutputState(h)
			ok := h.Output.Wlr.CommitState(state)
			state.Finish()
			return ok
		},
		warnRejected: func(h HeadConfig) {
			logOutput(h.Output).Warn("output config apply: head rejected commit")
		},
	}
}

// Test builds each proposed head's state and asks the output whether it
// would accept it, without mutating anything. Any rejection fails the
// whole test.
func (p *OutputConfigProtocol) Test(heads []HeadConfig) bool {
	for _, h := range heads {
		if !p.testHead(h) {
			return false
		}
	}
	return true
}

// Apply commits each proposed head. Heads that are accepted keep their
// effect even if a later head in the same request is rejected (the
// protocol permits partial effects); the caller learns overall success
// via the returned bool and should report `failed` to the requester if
// false.
func (p *OutputConfigProtocol) Apply(heads []HeadConfig) bool {
	p.root.layout.Detach()
	defer p.root.layout.Reattach()

	success := true
	for _, h := range heads {
		accepted := p.commitHead(h)
		if !accepted {
			p.warnRejected(h)
			success = false
			continue
		}

		if h.Enabled {
			p.root.AddOutputAt(h.Output, h.X, h.Y)
			h.Output.UpdateBackgroundRect()
			h.Output.ArrangeLayers()
		} else {
			p.root.RemoveOutput(h.Output)
		}
	}

	p.root.ApplyPending()

	if p.root.configPub != nil {
		p.root.configPub.PublishConfiguration(p.root.registry.All())
	}

	if !success {
		logrus.Warn("output config apply: one or more heads failed")
	}
	return success
}
