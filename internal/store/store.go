// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"errors"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	ssmv2 "github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/aws/smithy-go"

	"github.com/tfctl/tfstrap/internal/log"
)

// bucketSuffix is appended to the record key to form the sibling parameter
// holding the bucket name, so teardown never has to re-extract it from the
// descriptor text.
const bucketSuffix = "/bucket"

// State classifies a Lookup outcome. Absent and Transient are distinct so
// each caller decides whether a transient store failure counts as absence.
type State int

const (
	Found State = iota
	Absent
	Transient
)

func (s State) String() string {
	switch s {
	case Found:
		return "found"
	case Absent:
		return "absent"
	case Transient:
		return "transient"
	}
	return "unknown"
}

// Result is the tri-state outcome of a record lookup. Value is only
// meaningful when State is Found.
type Result struct {
	State State
	Value string
}

// ParameterAPI is the slice of the SSM surface the store needs.
type ParameterAPI interface {
	GetParameter(ctx context.Context, params *ssmv2.GetParameterInput, optFns ...func(*ssmv2.Options)) (*ssmv2.GetParameterOutput, error)
	PutParameter(ctx context.Context, params *ssmv2.PutParameterInput, optFns ...func(*ssmv2.Options)) (*ssmv2.PutParameterOutput, error)
	DeleteParameter(ctx context.Context, params *ssmv2.DeleteParameterInput, optFns ...func(*ssmv2.Options)) (*ssmv2.DeleteParameterOutput, error)
}

// Client is the backend record store. Put always overwrites (the store is
// authoritative for current state, never appended to), so two concurrent
// first-time bootstraps race to last-writer-wins. Running a single
// bootstrapper at a time is an operational assumption, not something this
// client enforces.
type Client struct {
	api ParameterAPI
}

// New returns a Client over the given parameter API.
func New(api ParameterAPI) *Client {
	return &Client{api: api}
}

// Lookup fetches the record at name. A missing parameter is Absent; any
// other API failure is Transient, logged and left to the caller to map.
func (c *Client) Lookup(ctx context.Context, name string) Result {
	out, err := c.api.GetParameter(ctx, &ssmv2.GetParameterInput{
		Name:           awsv2.String(name),
		WithDecryption: awsv2.Bool(true),
	})
	if err != nil {
		var notFound *types.ParameterNotFound
		if errors.As(err, &notFound) {
			log.Debugf("parameter not found: %s", name)
			return Result{State: Absent}
		}
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			log.Warnf("parameter lookup failed (%s): %s", apiErr.ErrorCode(), name)
		} else {
			log.Warnf("parameter lookup failed: %s: %v", name, err)
		}
		return Result{State: Transient}
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return Result{State: Absent}
	}
	return Result{State: Found, Value: *out.Parameter.Value}
}

// LookupBucketName fetches the sibling bucket-name parameter for name.
func (c *Client) LookupBucketName(ctx context.Context, name string) Result {
	return c.Lookup(ctx, name+bucketSuffix)
}

// Put upserts the record at name. Overwrite is always set; the previous
// value, if any, is replaced wholesale.
func (c *Client) Put(ctx context.Context, name, value string) error {
	_, err := c.api.PutParameter(ctx, &ssmv2.PutParameterInput{
		Name:      awsv2.String(name),
		Value:     awsv2.String(value),
		Type:      types.ParameterTypeString,
		Overwrite: awsv2.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to put parameter %s: %w", name, err)
	}
	return nil
}

// Publish stores the backend descriptor and its bucket name under the
// record key. The descriptor parameter is written first; if the bucket
// parameter write fails the record is still usable (teardown falls back to
// parsing the descriptor).
func (c *Client) Publish(ctx context.Context, name, descriptor, bucket string) error {
	if err := c.Put(ctx, name, descriptor); err != nil {
		return err
	}
	if err := c.Put(ctx, name+bucketSuffix, bucket); err != nil {
		return err
	}
	return nil
}

// Delete removes the record at name. A missing parameter is success.
func (c *Client) Delete(ctx context.Context, name string) error {
	_, err := c.api.DeleteParameter(ctx, &ssmv2.DeleteParameterInput{
		Name: awsv2.String(name),
	})
	if err != nil {
		var notFound *types.ParameterNotFound
		if errors.As(err, &notFound) {
			log.Debugf("parameter already absent: %s", name)
			return nil
		}
		return fmt.Errorf("failed to delete parameter %s: %w", name, err)
	}
	log.Infof("deleted parameter %s", name)
	return nil
}

// Forget removes the record and its bucket-name sibling. Both deletions are
// idempotent; the first failure aborts so a re-run covers the rest.
func (c *Client) Forget(ctx context.Context, name string) error {
	if err := c.Delete(ctx, name); err != nil {
		return err
	}
	return c.Delete(ctx, name+bucketSuffix)
}
