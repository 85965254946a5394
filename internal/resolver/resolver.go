// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"context"

	"github.com/tfctl/tfstrap/internal/bootstrap"
	"github.com/tfctl/tfstrap/internal/descriptor"
	"github.com/tfctl/tfstrap/internal/log"
	"github.com/tfctl/tfstrap/internal/store"
)

// noneSentinel is a record value meaning "no backend"; legacy tooling wrote
// it instead of deleting the record. It counts as a miss.
const noneSentinel = "None"

// State tracks resolution progress. A Resolver runs once per invocation and
// never returns to Unresolved; nothing is persisted across runs.
type State int

const (
	Unresolved State = iota
	Checking
	Found
	Provisioning
	Resolved
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Checking:
		return "checking"
	case Found:
		return "found"
	case Provisioning:
		return "provisioning"
	case Resolved:
		return "resolved"
	}
	return "unknown"
}

// RecordStore is the read slice of the backend record store.
type RecordStore interface {
	Lookup(ctx context.Context, name string) store.Result
}

// Bootstrapper provisions a backend and returns the bucket name.
type Bootstrapper interface {
	Run(ctx context.Context, req bootstrap.Request) (string, error)
}

// Outcome reports how resolution completed: whether the descriptor came
// from the store or a fresh bootstrap, and what it contains.
type Outcome struct {
	State      State
	FromStore  bool
	Descriptor string
}

// Resolver decides whether a backend already exists for an identity and
// either reuses it or provisions one.
type Resolver struct {
	Store     RecordStore
	Bootstrap Bootstrapper

	state State
}

// Resolve checks the record store for the identity's backend. On a hit the
// stored descriptor is written into the target directory; on a miss (or a
// transient lookup failure, since provisioning is the safe default) the
// bootstrap orchestrator takes over and writes the descriptor itself.
// After Resolve the caller re-inits the IaC tool with the reconfigure flag.
func (r *Resolver) Resolve(ctx context.Context, req bootstrap.Request) (Outcome, error) {
	name := req.Identity.ParameterName()

	r.state = Checking
	result := r.Store.Lookup(ctx, name)

	if result.State == store.Found && result.Value != "" && result.Value != noneSentinel {
		r.state = Found
		log.Infof("found backend configuration in parameter %s", name)
		if err := descriptor.Write(req.TargetDir, result.Value); err != nil {
			return Outcome{State: r.state}, err
		}
		r.state = Resolved
		return Outcome{State: r.state, FromStore: true, Descriptor: result.Value}, nil
	}

	r.state = Provisioning
	log.Infof("backend parameter %s not usable (%s); running bootstrap to create backend", name, result.State)
	if _, err := r.Bootstrap.Run(ctx, req); err != nil {
		return Outcome{State: r.state}, err
	}

	r.state = Resolved
	return Outcome{State: r.state}, nil
}
