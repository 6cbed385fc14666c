package main

import (
	"github.com/mstarongithub/way2gay/internal/core"
	"github.com/sirupsen/logrus"
	"github.com/swaywm/go-wlroots/wlroots"
)

// headConfigsFromRequest translates a wlr_output_manager_v1 test/apply
// request's proposed heads into core.HeadConfig, dropping any head whose
// output is not (or no longer) one of ours.
func headConfigsFromRequest(server *Server, heads []wlroots.OutputConfigurationHeadV1) []core.HeadConfig {
	result := make([]core.HeadConfig, 0, len(heads))
	for _, h := range heads {
		co, ok := server.coreOutputs[h.Output().Name()]
		if !ok {
			logrus.WithField("output", h.Output().Name()).Warn("output manager request references an unknown output")
			continue
		}
		width, height, refresh := h.CustomMode()
		result = append(result, core.HeadConfig{
			Output:       co,
			Enabled:      h.Enabled(),
			Mode:         h.Mode(),
			Width:        width,
			Height:       height,
			Refresh:      refresh,
			X:            h.X(),
			Y:            h.Y(),
			Transform:    h.Transform(),
			Scale:        h.Scale(),
			AdaptiveSync: h.AdaptiveSyncEnabled(),
		})
	}
	return result
}

// handleOutputManagerTest answers a wlr_output_manager_v1 test request:
// would every proposed head be accepted, with nothing actually applied.
func (server *Server) handleOutputManagerTest(cfg wlroots.OutputConfigurationV1) {
	heads := headConfigsFromRequest(server, cfg.Heads())
	if server.root.OutputConfig.Test(heads) {
		cfg.SendSucceeded()
	} else {
		cfg.SendFailed()
	}
}

// handleOutputManagerApply commits a wlr_output_manager_v1 apply
// request through root.OutputConfig, so a client like kanshi or
// wdisplays drives the core's add_output/remove_output path. Neither
// the REPL nor the tool-mode CLI has output configuration verbs.
func (server *Server) handleOutputManagerApply(cfg wlroots.OutputConfigurationV1) {
	heads := headConfigsFromRequest(server, cfg.Heads())
	if server.root.OutputConfig.Apply(heads) {
		cfg.SendSucceeded()
	} else {
		cfg.SendFailed()
	}
}

// handleOutputPowerSetMode implements wlr_output_power_manager_v1's
// set_mode request (spec's "power-manager set-mode"). Unlike
// OutputConfigProtocol.Apply's enabled flag, DPMS off only blanks the
// output; it must not evict the output's views the way remove_output
// does, so this commits the hardware state directly instead of going
// through Root.
func (server *Server) handleOutputPowerSetMode(output wlroots.Output, mode wlroots.OutputPowerManagementV1Mode) {
	state := wlroots.NewOutputState()
	state.StateInit()
	state.StateSetEnabled(mode == wlroots.OutputPowerManagementV1ModeOn)
	output.CommitState(state)
	state.Finish()
}
