// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package teardown

import (
	"context"
	"errors"
	"fmt"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"

	"github.com/tfctl/tfstrap/internal/bootstrap"
	"github.com/tfctl/tfstrap/internal/identity"
	"github.com/tfctl/tfstrap/internal/resolver"
	"github.com/tfctl/tfstrap/internal/store"
	"github.com/tfctl/tfstrap/internal/tfexec"
)

type fakeRecordStore struct {
	record     store.Result
	bucketName store.Result
	forgotten  []string
	forgetErr  error
	calls      []string
}

func (f *fakeRecordStore) Lookup(ctx context.Context, name string) store.Result {
	f.calls = append(f.calls, "lookup")
	return f.record
}

func (f *fakeRecordStore) LookupBucketName(ctx context.Context, name string) store.Result {
	f.calls = append(f.calls, "lookup-bucket")
	return f.bucketName
}

func (f *fakeRecordStore) Forget(ctx context.Context, name string) error {
	f.calls = append(f.calls, "forget")
	f.forgotten = append(f.forgotten, name)
	return f.forgetErr
}

type fakeResolver struct {
	resolved int
	err      error
}

func (f *fakeResolver) Resolve(ctx context.Context, req bootstrap.Request) (resolver.Outcome, error) {
	f.resolved++
	return resolver.Outcome{State: resolver.Resolved}, f.err
}

type fakeRunner struct {
	calls      []string
	initOpts   tfexec.InitOptions
	vars       tfexec.Vars
	destroyErr error
}

func (f *fakeRunner) Init(ctx context.Context, dir string, opts tfexec.InitOptions) error {
	f.calls = append(f.calls, "init")
	f.initOpts = opts
	return nil
}

func (f *fakeRunner) Plan(ctx context.Context, dir string, vars tfexec.Vars) error {
	f.calls = append(f.calls, "plan")
	return nil
}

func (f *fakeRunner) Apply(ctx context.Context, dir string, vars tfexec.Vars) error {
	f.calls = append(f.calls, "apply")
	return nil
}

func (f *fakeRunner) Destroy(ctx context.Context, dir string, vars tfexec.Vars) error {
	f.calls = append(f.calls, "destroy")
	f.vars = vars
	return f.destroyErr
}

func (f *fakeRunner) Output(ctx context.Context, dir string) (map[string]string, error) {
	return nil, nil
}

// fakeObjects records call ordering; contents do not matter here, the purge
// behavior itself is covered in the purge package tests.
type fakeObjects struct {
	calls        []string
	deleteBktErr error
}

func (f *fakeObjects) ListObjectsV2(ctx context.Context, params *s3v2.ListObjectsV2Input, optFns ...func(*s3v2.Options)) (*s3v2.ListObjectsV2Output, error) {
	f.calls = append(f.calls, "list-objects")
	return &s3v2.ListObjectsV2Output{IsTruncated: awsv2.Bool(false)}, nil
}

func (f *fakeObjects) ListObjectVersions(ctx context.Context, params *s3v2.ListObjectVersionsInput, optFns ...func(*s3v2.Options)) (*s3v2.ListObjectVersionsOutput, error) {
	f.calls = append(f.calls, "list-versions")
	return &s3v2.ListObjectVersionsOutput{IsTruncated: awsv2.Bool(false)}, nil
}

func (f *fakeObjects) DeleteObjects(ctx context.Context, params *s3v2.DeleteObjectsInput, optFns ...func(*s3v2.Options)) (*s3v2.DeleteObjectsOutput, error) {
	f.calls = append(f.calls, "delete-objects")
	return &s3v2.DeleteObjectsOutput{}, nil
}

func (f *fakeObjects) DeleteBucket(ctx context.Context, params *s3v2.DeleteBucketInput, optFns ...func(*s3v2.Options)) (*s3v2.DeleteBucketOutput, error) {
	f.calls = append(f.calls, "delete-bucket:"+awsv2.ToString(params.Bucket))
	if f.deleteBktErr != nil {
		return nil, f.deleteBktErr
	}
	return &s3v2.DeleteBucketOutput{}, nil
}

func testRequest(t *testing.T) Request {
	t.Helper()
	return Request{
		Identity: bootstrap.Request{
			Identity: identity.Identity{
				AppName:     "shop",
				Environment: "dev",
				AccountID:   "123456789012",
				SafeName:    "shopdev",
			},
			Region:    "us-east-1",
			TargetDir: t.TempDir(),
		},
	}
}

func newManager(rs *fakeRecordStore, res *fakeResolver, run *fakeRunner, obj *fakeObjects) *Manager {
	return &Manager{Store: rs, Resolver: res, Runner: run, Objects: obj}
}

func TestDestroyStack(t *testing.T) {
	res := &fakeResolver{}
	run := &fakeRunner{}
	m := newManager(&fakeRecordStore{}, res, run, &fakeObjects{})

	req := testRequest(t)
	req.ForceCopy = true
	err := m.DestroyStack(context.Background(), req)

	assert.NoError(t, err)
	assert.Equal(t, 1, res.resolved, "destroy needs the backend resolved first")
	assert.Equal(t, []string{"init", "destroy"}, run.calls)
	assert.True(t, run.initOpts.Reconfigure)
	assert.True(t, run.initOpts.ForceCopy)
	assert.Equal(t, tfexec.Vars{Environment: "dev", Region: "us-east-1"}, run.vars)
}

func TestDestroyStackFatalOnToolFailure(t *testing.T) {
	run := &fakeRunner{destroyErr: errors.New("destroy blew up")}
	m := newManager(&fakeRecordStore{}, &fakeResolver{}, run, &fakeObjects{})

	assert.Error(t, m.DestroyStack(context.Background(), testRequest(t)))
}

func TestDestroyBootstrapHappyPath(t *testing.T) {
	rs := &fakeRecordStore{
		bucketName: store.Result{State: store.Found, Value: "recorded-bucket"},
	}
	obj := &fakeObjects{}
	m := newManager(rs, &fakeResolver{}, &fakeRunner{}, obj)

	err := m.DestroyBootstrap(context.Background(), testRequest(t))

	assert.NoError(t, err)
	assert.Equal(t, []string{"/terraform/backend/123456789012-shopdev"}, rs.forgotten)

	// Record goes first, bucket delete last.
	assert.Equal(t, "forget", rs.calls[len(rs.calls)-1])
	assert.Equal(t, "delete-bucket:recorded-bucket", obj.calls[len(obj.calls)-1])
}

func TestRecoverBucketName(t *testing.T) {
	legacyDescriptor := `terraform {
  backend "s3" {
    bucket = "parsed-bucket"
  }
}
`
	tests := []struct {
		name     string
		override string
		rs       *fakeRecordStore
		want     string
	}{
		{
			name:     "override wins",
			override: "forced-bucket",
			rs: &fakeRecordStore{
				bucketName: store.Result{State: store.Found, Value: "recorded-bucket"},
			},
			want: "forced-bucket",
		},
		{
			name: "sibling parameter preferred",
			rs: &fakeRecordStore{
				bucketName: store.Result{State: store.Found, Value: "recorded-bucket"},
				record:     store.Result{State: store.Found, Value: legacyDescriptor},
			},
			want: "recorded-bucket",
		},
		{
			name: "descriptor parse for legacy records",
			rs: &fakeRecordStore{
				bucketName: store.Result{State: store.Absent},
				record:     store.Result{State: store.Found, Value: legacyDescriptor},
			},
			want: "parsed-bucket",
		},
		{
			name: "default when nothing recoverable",
			rs: &fakeRecordStore{
				bucketName: store.Result{State: store.Absent},
				record:     store.Result{State: store.Absent},
			},
			want: "123456789012-shopdev-tfstate",
		},
		{
			name: "transient lookups mean nothing to recover",
			rs: &fakeRecordStore{
				bucketName: store.Result{State: store.Transient},
				record:     store.Result{State: store.Transient},
			},
			want: "123456789012-shopdev-tfstate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newManager(tt.rs, &fakeResolver{}, &fakeRunner{}, &fakeObjects{})
			req := testRequest(t)
			req.Identity.BucketOverride = tt.override

			got := m.recoverBucketName(context.Background(), req.Identity.Identity.ParameterName(), req)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDestroyBootstrapForgetFailureIsFatal(t *testing.T) {
	rs := &fakeRecordStore{forgetErr: errors.New("access denied")}
	obj := &fakeObjects{}
	m := newManager(rs, &fakeResolver{}, &fakeRunner{}, obj)

	err := m.DestroyBootstrap(context.Background(), testRequest(t))

	assert.Error(t, err)
	assert.NotContains(t, fmt.Sprint(obj.calls), "delete-bucket", "no bucket mutation after a fatal step")
}

func TestDestroyBootstrapBucketDeleteFailureIsReported(t *testing.T) {
	rs := &fakeRecordStore{bucketName: store.Result{State: store.Found, Value: "b"}}
	obj := &fakeObjects{deleteBktErr: errors.New("still not empty")}
	m := newManager(rs, &fakeResolver{}, &fakeRunner{}, obj)

	err := m.DestroyBootstrap(context.Background(), testRequest(t))

	assert.ErrorIs(t, err, ErrCleanupIncomplete)
	assert.Equal(t, []string{"/terraform/backend/123456789012-shopdev"}, rs.forgotten,
		"record deletion stays done even when the bucket survives")
}
