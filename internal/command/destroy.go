// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/tfstrap/internal/log"
	"github.com/tfctl/tfstrap/internal/meta"
	"github.com/tfctl/tfstrap/internal/teardown"
)

// destroyCommandAction destroys the top-level stack. The backend bucket and
// its record survive, so the stack can be rebuilt against the same backend.
func destroyCommandAction(ctx context.Context, cmd *cli.Command) error {
	rt, err := newRuntime(ctx, cmd)
	if err != nil {
		return err
	}

	prompt := fmt.Sprintf("Destroy the %s stack in %s?", rt.id.SafeName, rt.req.TargetDir)
	if !Confirm(prompt, cmd.Bool("force")) {
		log.Infof("destroy cancelled; nothing was changed")
		return nil
	}

	return rt.manager().DestroyStack(ctx, teardown.Request{
		Identity:  rt.req,
		ForceCopy: cmd.Bool("force-copy"),
	})
}

// destroyCommandBuilder constructs the cli.Command for "destroy".
func destroyCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "destroy",
		Usage:     "destroy the stack, keeping the backend and its record",
		UsageText: "tfstrap destroy [RootDir[::env]] [options]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: []cli.Flag{
			appNameFlag,
			forceCopyFlag,
			forceFlag,
			tfBinFlag,
			NewBucketFlag("destroy"),
			NewEnvFlag("destroy"),
			NewRegionFlag("destroy"),
		},
		Action: destroyCommandAction,
	}
}
