// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/urfave/cli/v3"

	awsx "github.com/tfctl/tfstrap/internal/aws"
	"github.com/tfctl/tfstrap/internal/bootstrap"
	"github.com/tfctl/tfstrap/internal/identity"
	"github.com/tfctl/tfstrap/internal/log"
	"github.com/tfctl/tfstrap/internal/meta"
	"github.com/tfctl/tfstrap/internal/resolver"
	"github.com/tfctl/tfstrap/internal/store"
	"github.com/tfctl/tfstrap/internal/teardown"
	"github.com/tfctl/tfstrap/internal/tfexec"
)

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// runtime bundles the per-invocation collaborators. It is built once per
// command action, after flags are parsed; the identity inside is never
// cached across invocations.
type runtime struct {
	meta   meta.Meta
	id     identity.Identity
	awsCfg awsv2.Config
	store  *store.Client
	runner tfexec.Runner
	req    bootstrap.Request
}

// newRuntime derives the identity and wires the store and runner for one
// command invocation. The dir::env override on the RootDir argument beats
// the --env flag.
func newRuntime(ctx context.Context, cmd *cli.Command) (*runtime, error) {
	m := GetMeta(cmd)

	env := m.Env
	if env == "" {
		env = cmd.String("env")
	}
	region := cmd.String("region")

	cfg, err := awsx.LoadAWSConfig(ctx, awsx.WithRegion(region))
	if err != nil {
		return nil, &identity.Error{
			Reason: "unable to load AWS configuration",
			Err:    err,
		}
	}

	id, err := identity.Synthesize(ctx, awsx.NewSTS(cfg), identity.Options{
		AppNameOverride: cmd.String("app-name"),
		Environment:     env,
		PropsDir:        m.RootDir,
	})
	if err != nil {
		return nil, err
	}
	log.Debugf("runtime ready: env=%s region=%s target=%s", env, region, m.RootDir)

	return &runtime{
		meta:   m,
		id:     id,
		awsCfg: cfg,
		store:  store.New(awsx.NewSSM(cfg)),
		runner: tfexec.NewExec(cmd.String("tf-bin")),
		req: bootstrap.Request{
			Identity:       id,
			Region:         region,
			TargetDir:      m.RootDir,
			BucketOverride: cmd.String("bucket"),
		},
	}, nil
}

func (r *runtime) orchestrator() *bootstrap.Orchestrator {
	return &bootstrap.Orchestrator{Store: r.store, Runner: r.runner}
}

func (r *runtime) resolver() *resolver.Resolver {
	return &resolver.Resolver{Store: r.store, Bootstrap: r.orchestrator()}
}

func (r *runtime) manager() *teardown.Manager {
	return &teardown.Manager{
		Store:    r.store,
		Resolver: r.resolver(),
		Runner:   r.runner,
		Objects:  awsx.NewS3(r.awsCfg),
	}
}

// resolveAndInit runs the backend resolution state machine and re-inits the
// target directory against the resulting descriptor. Reconfigure is always
// passed so previously-initialized local state is never merged silently.
func (r *runtime) resolveAndInit(ctx context.Context, forceCopy bool) error {
	if _, err := r.resolver().Resolve(ctx, r.req); err != nil {
		return err
	}
	return r.runner.Init(ctx, r.req.TargetDir, tfexec.InitOptions{
		Reconfigure: true,
		ForceCopy:   forceCopy,
	})
}

func (r *runtime) vars() tfexec.Vars {
	return tfexec.Vars{Environment: r.id.Environment, Region: r.req.Region}
}
