// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package bootstrap

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tfctl/tfstrap/internal/descriptor"
	"github.com/tfctl/tfstrap/internal/identity"
	"github.com/tfctl/tfstrap/internal/tfexec"
)

type fakeStore struct {
	published  bool
	name       string
	descriptor string
	bucket     string
	err        error
}

func (f *fakeStore) Publish(ctx context.Context, name, desc, bucket string) error {
	f.published = true
	f.name = name
	f.descriptor = desc
	f.bucket = bucket
	return f.err
}

type fakeRunner struct {
	calls      []string
	initOpts   tfexec.InitOptions
	applyVars  tfexec.Vars
	outputs    map[string]string
	initErr    error
	applyErr   error
	outputErr  error
	lastDir    string
	outputDirs []string
}

func (f *fakeRunner) Init(ctx context.Context, dir string, opts tfexec.InitOptions) error {
	f.calls = append(f.calls, "init")
	f.initOpts = opts
	f.lastDir = dir
	return f.initErr
}

func (f *fakeRunner) Plan(ctx context.Context, dir string, vars tfexec.Vars) error {
	f.calls = append(f.calls, "plan")
	return nil
}

func (f *fakeRunner) Apply(ctx context.Context, dir string, vars tfexec.Vars) error {
	f.calls = append(f.calls, "apply")
	f.applyVars = vars
	return f.applyErr
}

func (f *fakeRunner) Destroy(ctx context.Context, dir string, vars tfexec.Vars) error {
	f.calls = append(f.calls, "destroy")
	return nil
}

func (f *fakeRunner) Output(ctx context.Context, dir string) (map[string]string, error) {
	f.calls = append(f.calls, "output")
	f.outputDirs = append(f.outputDirs, dir)
	return f.outputs, f.outputErr
}

func testIdentity() identity.Identity {
	return identity.Identity{
		AppName:     "shop",
		Environment: "dev",
		AccountID:   "123456789012",
		SafeName:    "shopdev",
	}
}

// newTarget creates a target dir with a bootstrap subdirectory.
func newTarget(t *testing.T) string {
	t.Helper()
	target := t.TempDir()
	assert.NoError(t, os.Mkdir(filepath.Join(target, "bootstrap"), 0o755))
	return target
}

func TestRunHappyPath(t *testing.T) {
	target := newTarget(t)
	store := &fakeStore{}
	runner := &fakeRunner{outputs: map[string]string{"bucket_name": "custom-bucket"}}
	o := &Orchestrator{Store: store, Runner: runner}

	bucket, err := o.Run(context.Background(), Request{
		Identity:  testIdentity(),
		Region:    "us-east-1",
		TargetDir: target,
	})

	assert.NoError(t, err)
	assert.Equal(t, "custom-bucket", bucket)
	assert.Equal(t, []string{"init", "apply", "output"}, runner.calls)
	assert.True(t, runner.initOpts.Reconfigure)
	assert.Equal(t, tfexec.Vars{Environment: "dev", Region: "us-east-1"}, runner.applyVars)

	// Record published under the identity's key, with bucket alongside.
	assert.True(t, store.published)
	assert.Equal(t, "/terraform/backend/123456789012-shopdev", store.name)
	assert.Equal(t, "custom-bucket", store.bucket)
	assert.Contains(t, store.descriptor, "custom-bucket")

	// Descriptor lands in the target dir; bootstrap dir keeps its pinned
	// local backend.
	data, err := os.ReadFile(filepath.Join(target, descriptor.FileName))
	assert.NoError(t, err)
	assert.Equal(t, store.descriptor, string(data))

	bsData, err := os.ReadFile(filepath.Join(target, "bootstrap", descriptor.FileName))
	assert.NoError(t, err)
	assert.Contains(t, string(bsData), `backend "local"`)
}

func TestRunBucketFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		override string
		outputs  map[string]string
		outErr   error
		want     string
	}{
		{
			name:     "override wins over output",
			override: "forced-bucket",
			outputs:  map[string]string{"bucket_name": "output-bucket"},
			want:     "forced-bucket",
		},
		{
			name:    "output when no override",
			outputs: map[string]string{"bucket_name": "output-bucket"},
			want:    "output-bucket",
		},
		{
			name:    "default when output missing key",
			outputs: map[string]string{},
			want:    "123456789012-shopdev-tfstate",
		},
		{
			name:   "default when output fails",
			outErr: errors.New("no outputs"),
			want:   "123456789012-shopdev-tfstate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := newTarget(t)
			store := &fakeStore{}
			runner := &fakeRunner{outputs: tt.outputs, outputErr: tt.outErr}
			o := &Orchestrator{Store: store, Runner: runner}

			bucket, err := o.Run(context.Background(), Request{
				Identity:       testIdentity(),
				Region:         "us-east-1",
				TargetDir:      target,
				BucketOverride: tt.override,
			})

			assert.NoError(t, err)
			assert.Equal(t, tt.want, bucket)
			assert.Equal(t, tt.want, store.bucket)
		})
	}
}

func TestRunErasesStaleDescriptor(t *testing.T) {
	target := newTarget(t)
	bsDir := filepath.Join(target, "bootstrap")
	assert.NoError(t, descriptor.Write(bsDir, "stale remote descriptor"))

	o := &Orchestrator{Store: &fakeStore{}, Runner: &fakeRunner{}}
	_, err := o.Run(context.Background(), Request{
		Identity:  testIdentity(),
		Region:    "us-east-1",
		TargetDir: target,
	})
	assert.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(bsDir, descriptor.FileName))
	assert.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
}

func TestRunFatalErrors(t *testing.T) {
	tests := []struct {
		name   string
		runner *fakeRunner
		store  *fakeStore
		noDir  bool
	}{
		{
			name:   "missing bootstrap dir",
			runner: &fakeRunner{},
			store:  &fakeStore{},
			noDir:  true,
		},
		{
			name:   "init failure",
			runner: &fakeRunner{initErr: errors.New("init blew up")},
			store:  &fakeStore{},
		},
		{
			name:   "apply failure",
			runner: &fakeRunner{applyErr: errors.New("apply blew up")},
			store:  &fakeStore{},
		},
		{
			name:   "publish failure",
			runner: &fakeRunner{},
			store:  &fakeStore{err: errors.New("ssm down")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var target string
			if tt.noDir {
				target = t.TempDir()
				// Guard against a ./bootstrap dir in the test working directory.
				cwd, _ := os.Getwd()
				if _, err := os.Stat(filepath.Join(cwd, "bootstrap")); err == nil {
					t.Skip("bootstrap dir present in cwd")
				}
			} else {
				target = newTarget(t)
			}

			o := &Orchestrator{Store: tt.store, Runner: tt.runner}
			_, err := o.Run(context.Background(), Request{
				Identity:  testIdentity(),
				Region:    "us-east-1",
				TargetDir: target,
			})

			var bsErr *Error
			assert.ErrorAs(t, err, &bsErr)
		})
	}
}

func TestFindDirPrefersTarget(t *testing.T) {
	target := newTarget(t)
	dir, err := FindDir(target)
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(target, "bootstrap"), dir)
}
