// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package teardown

import (
	"context"
	"errors"
	"fmt"

	"github.com/tfctl/tfstrap/internal/bootstrap"
	"github.com/tfctl/tfstrap/internal/descriptor"
	"github.com/tfctl/tfstrap/internal/log"
	"github.com/tfctl/tfstrap/internal/purge"
	"github.com/tfctl/tfstrap/internal/resolver"
	"github.com/tfctl/tfstrap/internal/store"
	"github.com/tfctl/tfstrap/internal/tfexec"
)

// ErrCleanupIncomplete marks the one non-fatal teardown outcome: record and
// contents are gone but the empty bucket itself could not be deleted. The
// command layer reports it instead of failing the run.
var ErrCleanupIncomplete = errors.New("bucket cleanup incomplete")

// RecordStore is the slice of the backend record store teardown needs.
type RecordStore interface {
	Lookup(ctx context.Context, name string) store.Result
	LookupBucketName(ctx context.Context, name string) store.Result
	Forget(ctx context.Context, name string) error
}

// BackendResolver resolves the backend before the stack destroy; resources
// must be destroyed against the same backend they were created with.
type BackendResolver interface {
	Resolve(ctx context.Context, req bootstrap.Request) (resolver.Outcome, error)
}

// Request carries one teardown invocation's inputs.
type Request struct {
	Identity  bootstrap.Request
	ForceCopy bool
}

// Manager owns the two destructive operations: the top-level stack destroy
// and the bootstrap storage teardown. Confirmation gating happens in the
// command layer before either is called.
type Manager struct {
	Store    RecordStore
	Resolver BackendResolver
	Runner   tfexec.Runner
	Objects  purge.ObjectAPI
}

// DestroyStack resolves the backend, re-inits against it, and destroys the
// top-level stack in the target directory. Any failure is fatal; no retry.
func (m *Manager) DestroyStack(ctx context.Context, req Request) error {
	log.Infof("destroying top-level stack in %s", req.Identity.TargetDir)

	if _, err := m.Resolver.Resolve(ctx, req.Identity); err != nil {
		return err
	}
	if err := m.Runner.Init(ctx, req.Identity.TargetDir, tfexec.InitOptions{
		Reconfigure: true,
		ForceCopy:   req.ForceCopy,
	}); err != nil {
		return err
	}
	vars := tfexec.Vars{
		Environment: req.Identity.Identity.Environment,
		Region:      req.Identity.Region,
	}
	if err := m.Runner.Destroy(ctx, req.Identity.TargetDir, vars); err != nil {
		return err
	}

	log.Infof("top-level stack destroyed")
	return nil
}

// DestroyBootstrap tears down the bootstrap storage: recover the bucket
// name, forget the record, erase any leftover bootstrap descriptor, purge
// the bucket, and finally delete it. Only the purge is fatal past the
// record deletion; a failed bucket delete is reported, not raised.
func (m *Manager) DestroyBootstrap(ctx context.Context, req Request) error {
	name := req.Identity.Identity.ParameterName()

	bucket := m.recoverBucketName(ctx, name, req)
	log.Infof("tearing down bootstrap storage %s", bucket)

	if err := m.Store.Forget(ctx, name); err != nil {
		return err
	}

	// Best effort: the bootstrap dir may be long gone on a re-run.
	if dir, err := bootstrap.FindDir(req.Identity.TargetDir); err == nil {
		if err := descriptor.Erase(dir); err != nil {
			return err
		}
	} else {
		log.Debugf("no bootstrap directory found, skipping descriptor cleanup")
	}

	if err := purge.Purge(ctx, m.Objects, bucket); err != nil {
		return err
	}

	if err := purge.DeleteBucket(ctx, m.Objects, bucket); err != nil {
		log.Warnf("%v", err)
		return fmt.Errorf("bucket %s could not be deleted, delete it manually: %w",
			bucket, ErrCleanupIncomplete)
	}

	log.Infof("bootstrap storage destroyed")
	return nil
}

// recoverBucketName prefers the explicit override, then the sibling bucket
// parameter, then a parse of the stored descriptor, then the deterministic
// default. Lookup failures here mean "nothing to recover", never an error.
func (m *Manager) recoverBucketName(ctx context.Context, name string, req Request) string {
	if req.Identity.BucketOverride != "" {
		return req.Identity.BucketOverride
	}
	if res := m.Store.LookupBucketName(ctx, name); res.State == store.Found && res.Value != "" {
		return res.Value
	}
	if res := m.Store.Lookup(ctx, name); res.State == store.Found {
		if bucket := descriptor.BucketFromDescriptor(res.Value); bucket != "" {
			return bucket
		}
	}
	return req.Identity.Identity.DefaultBucket()
}
