// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tfctl/tfstrap/internal/descriptor"
	"github.com/tfctl/tfstrap/internal/identity"
	"github.com/tfctl/tfstrap/internal/log"
	"github.com/tfctl/tfstrap/internal/tfexec"
)

// dirName is the bootstrap configuration directory, searched for under the
// target directory first and the working directory second.
const dirName = "bootstrap"

// bucketOutput is the output value the bootstrap configuration may expose to
// name the bucket it created.
const bucketOutput = "bucket_name"

// Error indicates the bootstrap workflow could not provision the storage
// resource. It is always fatal; no partial retry is attempted.
type Error struct {
	Step string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bootstrap %s: %v", e.Step, e.Err)
	}
	return "bootstrap " + e.Step
}

func (e *Error) Unwrap() error { return e.Err }

// RecordStore is the slice of the backend record store the orchestrator
// publishes through.
type RecordStore interface {
	Publish(ctx context.Context, name, descriptor, bucket string) error
}

// Request carries everything one bootstrap run needs. No field is read from
// globals; the identity is computed once by the caller and passed in.
type Request struct {
	Identity       identity.Identity
	Region         string
	TargetDir      string
	BucketOverride string
}

// Orchestrator runs the one-time provisioning workflow: apply the bootstrap
// configuration, determine the bucket it created, publish the backend
// record, and write the descriptor into the target directory.
type Orchestrator struct {
	Store  RecordStore
	Runner tfexec.Runner
}

// Run provisions the durable storage resource and publishes its descriptor.
// Re-running when the resource already exists is safe; whether that is a
// no-op or an update is the IaC tool's call, not ours. Returns the bucket
// name backing the record.
func (o *Orchestrator) Run(ctx context.Context, req Request) (string, error) {
	dir, err := FindDir(req.TargetDir)
	if err != nil {
		return "", err
	}
	log.Infof("found bootstrap directory at %s; running init and apply", dir)

	// Bootstrap always starts from a clean local-state assumption: drop any
	// stale descriptor and pin the bootstrap state to a local backend.
	if err := descriptor.Erase(dir); err != nil {
		return "", &Error{Step: "cleanup", Err: err}
	}
	if err := descriptor.WriteLocal(dir); err != nil {
		return "", &Error{Step: "cleanup", Err: err}
	}

	vars := tfexec.Vars{Environment: req.Identity.Environment, Region: req.Region}
	if err := o.Runner.Init(ctx, dir, tfexec.InitOptions{Reconfigure: true}); err != nil {
		return "", &Error{Step: "init", Err: err}
	}
	if err := o.Runner.Apply(ctx, dir, vars); err != nil {
		return "", &Error{Step: "apply", Err: err}
	}
	log.Infof("bootstrap apply completed in %s", dir)

	bucket := o.resolveBucket(ctx, dir, req)

	content := descriptor.Build(bucket, req.Region, req.Identity.AccountID, req.Identity.SafeName)
	name := req.Identity.ParameterName()
	if err := o.Store.Publish(ctx, name, content, bucket); err != nil {
		return "", &Error{Step: "publish", Err: err}
	}
	log.Infof("stored backend configuration in parameter %s", name)

	// The descriptor lands in the target directory, not the bootstrap one;
	// bootstrap's own state stays on its separate local lifecycle.
	if err := descriptor.Write(req.TargetDir, content); err != nil {
		return "", &Error{Step: "write descriptor", Err: err}
	}

	return bucket, nil
}

// resolveBucket picks the bucket name: explicit override, then the bootstrap
// configuration's own output, then the deterministic default.
func (o *Orchestrator) resolveBucket(ctx context.Context, dir string, req Request) string {
	if req.BucketOverride != "" {
		return req.BucketOverride
	}
	outputs, err := o.Runner.Output(ctx, dir)
	if err != nil {
		log.Debugf("bootstrap outputs unavailable: %v", err)
	} else if bucket := outputs[bucketOutput]; bucket != "" {
		return bucket
	}
	return req.Identity.DefaultBucket()
}

// FindDir locates the bootstrap configuration directory: <target>/bootstrap
// first, then ./bootstrap. A miss on both is fatal.
func FindDir(targetDir string) (string, error) {
	candidates := []string{filepath.Join(targetDir, dirName), dirName}
	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, nil
		}
	}
	return "", &Error{
		Step: "locate",
		Err:  fmt.Errorf("no bootstrap directory in %v", candidates),
	}
}
