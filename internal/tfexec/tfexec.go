// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tfexec

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tfctl/tfstrap/internal/log"
)

// DefaultBin is the binary invoked when no override is configured. An
// OpenTofu install works the same way via --tf-bin or TFSTRAP_TF_BIN.
const DefaultBin = "terraform"

// Vars carries the variables passed to plan/apply/destroy.
type Vars struct {
	Environment string
	Region      string
}

// InitOptions controls init behavior. Reconfigure is always set by callers
// resolving a backend, so previously-initialized local state is never
// silently merged; ForceCopy opts into migrating local state instead.
type InitOptions struct {
	Reconfigure bool
	ForceCopy   bool
}

// Runner is the narrow collaborator interface over the external IaC tool.
// Every operation is blocking and returns a typed error; no output is
// string-matched.
type Runner interface {
	Init(ctx context.Context, dir string, opts InitOptions) error
	Plan(ctx context.Context, dir string, vars Vars) error
	Apply(ctx context.Context, dir string, vars Vars) error
	Destroy(ctx context.Context, dir string, vars Vars) error
	Output(ctx context.Context, dir string) (map[string]string, error)
}

// Exec runs the real binary as a subprocess with stdio wired through.
type Exec struct {
	Bin string
}

// NewExec returns an Exec runner. An empty bin selects DefaultBin.
func NewExec(bin string) *Exec {
	if bin == "" {
		bin = DefaultBin
	}
	return &Exec{Bin: bin}
}

func (e *Exec) Init(ctx context.Context, dir string, opts InitOptions) error {
	return e.run(ctx, dir, initArgs(opts)...)
}

func (e *Exec) Plan(ctx context.Context, dir string, vars Vars) error {
	return e.run(ctx, dir, planArgs(vars)...)
}

func (e *Exec) Apply(ctx context.Context, dir string, vars Vars) error {
	return e.run(ctx, dir, applyArgs(vars)...)
}

func (e *Exec) Destroy(ctx context.Context, dir string, vars Vars) error {
	return e.run(ctx, dir, destroyArgs(vars)...)
}

// Output runs `output -json` in dir and returns the flattened key/value
// map. Values are read through gjson rather than re-parsing free-form text.
func (e *Exec) Output(ctx context.Context, dir string) (map[string]string, error) {
	cmd := exec.CommandContext(ctx, e.Bin, "output", "-json")
	cmd.Dir = dir
	cmd.Stderr = os.Stderr

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	log.Debugf("CMD: %s output -json (in %s)", e.Bin, dir)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s output failed in %s: %w", e.Bin, dir, err)
	}

	return parseOutputs(stdout.Bytes()), nil
}

func (e *Exec) run(ctx context.Context, dir string, args ...string) error {
	cmd := exec.CommandContext(ctx, e.Bin, args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	log.Infof("CMD: %s %s (in %s)", e.Bin, strings.Join(args, " "), dir)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s failed in %s: %w", e.Bin, args[0], dir, err)
	}
	return nil
}

func initArgs(opts InitOptions) []string {
	args := []string{"init", "-input=false"}
	if opts.Reconfigure {
		args = append(args, "-reconfigure")
	}
	if opts.ForceCopy {
		args = append(args, "-force-copy")
	}
	return args
}

func planArgs(vars Vars) []string {
	return append([]string{"plan", "-input=false"}, varArgs(vars)...)
}

func applyArgs(vars Vars) []string {
	return append([]string{"apply", "-auto-approve", "-input=false"}, varArgs(vars)...)
}

func destroyArgs(vars Vars) []string {
	return append([]string{"destroy", "-auto-approve", "-input=false"}, varArgs(vars)...)
}

func varArgs(vars Vars) []string {
	return []string{
		"-var", "environment=" + vars.Environment,
		"-var", "region=" + vars.Region,
	}
}

// parseOutputs flattens `output -json` into name -> value strings. Complex
// values come back in their raw JSON form.
func parseOutputs(data []byte) map[string]string {
	outputs := map[string]string{}
	gjson.ParseBytes(data).ForEach(func(key, value gjson.Result) bool {
		v := value.Get("value")
		if v.Exists() {
			outputs[key.String()] = v.String()
		}
		return true
	})
	return outputs
}
