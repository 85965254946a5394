// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/tfstrap/internal/log"
	"github.com/tfctl/tfstrap/internal/meta"
)

// bootstrapCommandAction provisions the backend storage unconditionally and
// publishes its record, without touching the top-level stack.
func bootstrapCommandAction(ctx context.Context, cmd *cli.Command) error {
	rt, err := newRuntime(ctx, cmd)
	if err != nil {
		return err
	}

	bucket, err := rt.orchestrator().Run(ctx, rt.req)
	if err != nil {
		return err
	}

	log.Infof("bootstrap completed; backend bucket %s is published for %s", bucket, rt.id.SafeName)
	log.Infof("run `tfstrap init %s` to initialize the stack against it", rt.req.TargetDir)
	return nil
}

// bootstrapCommandBuilder constructs the cli.Command for "bootstrap".
func bootstrapCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "bootstrap",
		Usage:     "provision the remote state backend and publish its record",
		UsageText: "tfstrap bootstrap [RootDir[::env]] [options]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: []cli.Flag{
			appNameFlag,
			tfBinFlag,
			NewBucketFlag("bootstrap"),
			NewEnvFlag("bootstrap"),
			NewRegionFlag("bootstrap"),
		},
		Action: bootstrapCommandAction,
	}
}
