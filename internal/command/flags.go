// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/tfstrap/internal/config"
)

var (
	appNameFlag *cli.StringFlag = &cli.StringFlag{
		Name:  "app-name",
		Usage: "application name override (skips the properties lookup)",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("TFSTRAP_APP_NAME"),
		),
	}

	forceFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "force",
		Aliases:     []string{"f"},
		Usage:       "skip the confirmation prompt for destructive commands",
		HideDefault: true,
	}

	forceCopyFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "force-copy",
		Usage:       "migrate local state into the resolved backend on init",
		HideDefault: true,
	}

	tfBinFlag *cli.StringFlag = &cli.StringFlag{
		Name:  "tf-bin",
		Usage: "IaC binary to invoke (terraform or tofu)",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("TFSTRAP_TF_BIN"),
		),
		Value:       "terraform",
		HideDefault: true,
	}
)

// NewEnvFlag constructs the --env flag, sourcing defaults from the
// environment and the user config file (namespaced first).
func NewEnvFlag(ns string) *cli.StringFlag {
	flag := &cli.StringFlag{
		Name:    "env",
		Aliases: []string{"e"},
		Usage:   "environment the stack belongs to",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("TFSTRAP_ENV"),
			cli.EnvVar("ENV"),
		),
		Value:       "dev",
		HideDefault: true,
	}
	return nameSpacedValueChainFlagFromConfigFile(ns, flag)
}

// NewRegionFlag constructs the --region flag. The AWS env chain is honored
// the same way the SDK would resolve it.
func NewRegionFlag(ns string) *cli.StringFlag {
	flag := &cli.StringFlag{
		Name:    "region",
		Aliases: []string{"r"},
		Usage:   "region the backend and stack live in",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("TFSTRAP_REGION"),
			cli.EnvVar("AWS_REGION"),
			cli.EnvVar("AWS_DEFAULT_REGION"),
		),
		Value:       "us-east-1",
		HideDefault: true,
	}
	return nameSpacedValueChainFlagFromConfigFile(ns, flag)
}

// NewBucketFlag constructs the --bucket override flag.
func NewBucketFlag(ns string) *cli.StringFlag {
	flag := &cli.StringFlag{
		Name:  "bucket",
		Usage: "state bucket name override",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("TFSTRAP_BUCKET"),
			cli.EnvVar("BUCKET_OVERRIDE"),
		),
	}
	return nameSpacedValueChainFlagFromConfigFile(ns, flag)
}

// nameSpacedValueChainFlagFromConfigFile adds namespaced and global config
// file sources to the given flag's Sources chain.
func nameSpacedValueChainFlagFromConfigFile(ns string, flag *cli.StringFlag) *cli.StringFlag {
	path := config.Config.Source
	if path == "" {
		return flag
	}

	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}
