// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"

	"github.com/tfctl/tfstrap/internal/config"
)

// RootDirSpec holds the resolved target directory and optional environment
// override (the RootDir::env form) used when deriving the backend identity.
type RootDirSpec struct {
	RootDir string
	Env     string
}

// Meta contains runtime metadata shared by commands. It carries CLI arguments,
// loaded configuration, context, the resolved target directory specification,
// and the starting working directory.
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context
	RootDirSpec
	StartingDir string
}
