// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/tfstrap/internal/meta"
)

// applyCommandAction resolves the backend, re-inits, and applies the stack.
func applyCommandAction(ctx context.Context, cmd *cli.Command) error {
	rt, err := newRuntime(ctx, cmd)
	if err != nil {
		return err
	}
	if err := rt.resolveAndInit(ctx, cmd.Bool("force-copy")); err != nil {
		return err
	}
	return rt.runner.Apply(ctx, rt.req.TargetDir, rt.vars())
}

// applyCommandBuilder constructs the cli.Command for "apply".
func applyCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "apply",
		Usage:     "resolve the backend and apply the stack",
		UsageText: "tfstrap apply [RootDir[::env]] [options]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: []cli.Flag{
			appNameFlag,
			forceCopyFlag,
			tfBinFlag,
			NewBucketFlag("apply"),
			NewEnvFlag("apply"),
			NewRegionFlag("apply"),
		},
		Action: applyCommandAction,
	}
}
