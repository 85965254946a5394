// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config loads the optional tfstrap.yaml user configuration file and
// exposes typed getters over dotted key paths. Command flags consume these
// values as defaults; explicit flags always win.
package config
