// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/tfstrap/internal/log"
	"github.com/tfctl/tfstrap/internal/meta"
	"github.com/tfctl/tfstrap/internal/teardown"
)

// destroyAllCommandAction destroys the stack and then tears the backend
// itself down: record forgotten, bucket purged and removed. One combined
// confirmation covers both phases.
func destroyAllCommandAction(ctx context.Context, cmd *cli.Command) error {
	rt, err := newRuntime(ctx, cmd)
	if err != nil {
		return err
	}

	prompt := fmt.Sprintf(
		"Destroy the %s stack AND its backend bucket? All state history will be lost.",
		rt.id.SafeName)
	if !Confirm(prompt, cmd.Bool("force")) {
		log.Infof("destroy-all cancelled; nothing was changed")
		return nil
	}

	mgr := rt.manager()
	req := teardown.Request{
		Identity:  rt.req,
		ForceCopy: cmd.Bool("force-copy"),
	}
	if err := mgr.DestroyStack(ctx, req); err != nil {
		return err
	}

	err = mgr.DestroyBootstrap(ctx, req)
	if errors.Is(err, teardown.ErrCleanupIncomplete) {
		log.Warnf("teardown finished with leftovers: %v", err)
		return nil
	}
	return err
}

// destroyAllCommandBuilder constructs the cli.Command for "destroy-all".
func destroyAllCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "destroy-all",
		Usage:     "destroy the stack, the backend record, and the backend bucket",
		UsageText: "tfstrap destroy-all [RootDir[::env]] [options]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: []cli.Flag{
			appNameFlag,
			forceCopyFlag,
			forceFlag,
			tfBinFlag,
			NewBucketFlag("destroy-all"),
			NewEnvFlag("destroy-all"),
			NewRegionFlag("destroy-all"),
		},
		Action: destroyAllCommandAction,
	}
}
