// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/tfstrap/internal/meta"
)

// planCommandAction resolves the backend, re-inits, and runs a plan with
// the current environment/region variables.
func planCommandAction(ctx context.Context, cmd *cli.Command) error {
	rt, err := newRuntime(ctx, cmd)
	if err != nil {
		return err
	}
	if err := rt.resolveAndInit(ctx, cmd.Bool("force-copy")); err != nil {
		return err
	}
	return rt.runner.Plan(ctx, rt.req.TargetDir, rt.vars())
}

// planCommandBuilder constructs the cli.Command for "plan".
func planCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "plan",
		Usage:     "resolve the backend and plan the stack",
		UsageText: "tfstrap plan [RootDir[::env]] [options]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: []cli.Flag{
			appNameFlag,
			forceCopyFlag,
			tfBinFlag,
			NewBucketFlag("plan"),
			NewEnvFlag("plan"),
			NewRegionFlag("plan"),
		},
		Action: planCommandAction,
	}
}
