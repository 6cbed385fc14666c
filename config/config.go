// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package config

import (
	"os"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml"
)

type StartType int

const (
	// Tells way2gay to start a repl in parallel for interacting with it
	START_REPL = StartType(iota)
	// Tells way2gay to execute a specific command on startup
	START_SINGLE_COMMAND
	// Tells way2gay to start without any specific targets
	// Note: Good luck interacting with it :3
	START_NONE
)

// OutputConfig is one output's persisted defaults, as parsed from the
// [outputs] table. Nothing in the compositor applies them to an output
// or offers them as an OutputConfigProtocol proposal.
type OutputConfig struct {
	// X/Y position in the compositor's global layout space.
	X *int `toml:"x,omitempty"`
	Y *int `toml:"y,omitempty"`
	// Preferred mode, e.g. "1920x1080@60". Empty means let wlroots pick
	// the output's preferred mode.
	Mode string `toml:"mode,omitempty"`
	// Scale factor; 0 (unset) means 1.0.
	Scale float64 `toml:"scale,omitempty"`
	// Transform, one of wlroots' wl_output.transform names
	// ("normal", "90", "180", "270", "flipped", "flipped-90", ...).
	Transform string `toml:"transform,omitempty"`
	// AdaptiveSync requests variable refresh rate where supported.
	AdaptiveSync bool `toml:"adaptive_sync,omitempty"`
}

type Config struct {
	StartType StartType `envconfig:"START_TYPE,omitempty" toml:"start_type,omitempty"`
	// What command to execute on start. Only matters if StartType is set to START_SINGLE_COMMAND
	StartCommand *string `envconfig:"START_COMMAND,omitempty" toml:"start_command,omitempty"`
	// Per-output defaults, keyed by output name (e.g. "DP-1").
	Outputs map[string]OutputConfig `envconfig:"-" toml:"outputs,omitempty"`
}

// DefaultPath resolves the config file location under the XDG config
// home, creating the parent directory if it doesn't exist yet.
func DefaultPath() (string, error) {
	return xdg.ConfigFile("way2gay/config.toml")
}

// Load reads and parses a TOML config file at path. A missing file is
// not an error; Load returns a zero-value Config so way2gay can start
// with defaults on a fresh machine.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, err
	}

	conf := &Config{}
	if err := toml.Unmarshal(data, conf); err != nil {
		return nil, err
	}
	return conf, nil
}
