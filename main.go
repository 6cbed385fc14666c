// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package main

import (
	"flag"

	"github.com/mstarongithub/way2gay/config"
	"github.com/sirupsen/logrus"
)

var (
	configPath *string = flag.String(
		"config",
		"",
		"Path to the config file. Defaults to the XDG config location for way2gay",
	)
	toolMode *bool = flag.Bool(
		"tool",
		false,
		"Start as a tool instead of a compositor",
	)
	help *bool = flag.Bool(
		"help",
		false,
		"Show this help message (or the one for tool mode if -tool is set)",
	)
)

func main() {
	flag.Parse()

	path := *configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			logrus.WithError(err).Fatal("resolving default config path")
		}
	}

	conf, err := config.Load(path)
	if err != nil {
		logrus.WithError(err).WithField("path", path).Fatal("loading config")
	}

	if *toolMode {
		utilMain(conf)
		return
	}

	if *help {
		flag.Usage()
		return
	}

	wlMain(conf)
}
