// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/tfstrap/internal/meta"
)

// initCommandAction resolves the backend (provisioning it on a first run)
// and initializes the target directory against it.
func initCommandAction(ctx context.Context, cmd *cli.Command) error {
	rt, err := newRuntime(ctx, cmd)
	if err != nil {
		return err
	}
	return rt.resolveAndInit(ctx, cmd.Bool("force-copy"))
}

// initCommandBuilder constructs the cli.Command for "init".
func initCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "resolve the backend and initialize the stack against it",
		UsageText: "tfstrap init [RootDir[::env]] [options]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: []cli.Flag{
			appNameFlag,
			forceCopyFlag,
			tfBinFlag,
			NewBucketFlag("init"),
			NewEnvFlag("init"),
			NewRegionFlag("init"),
		},
		Action: initCommandAction,
	}
}
