// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package identity

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/tidwall/gjson"

	"github.com/tfctl/tfstrap/internal/log"
)

// recordPrefix is the parameter store keyspace every backend record lives
// under. Changing it orphans every record written by older builds.
const recordPrefix = "/terraform/backend"

// Identity is the (account, application, environment)-derived namespace for
// all resources touched in one invocation. It is recomputed from scratch on
// every run and never cached across invocations.
type Identity struct {
	AppName     string
	Environment string
	AccountID   string
	SafeName    string
}

// Error indicates the identity could not be derived: no application name was
// available, or the caller's cloud credentials could not be resolved. It is
// always fatal and always raised before any mutation.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("identity: %s: %v", e.Reason, e.Err)
	}
	return "identity: " + e.Reason
}

func (e *Error) Unwrap() error { return e.Err }

// CallerIdentityAPI is the slice of the STS surface needed to derive the
// account id from the currently configured credentials.
type CallerIdentityAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Options feeds Synthesize. PropsDir is where properties.<env>.json files are
// looked up; it is normally the target directory.
type Options struct {
	AppNameOverride string
	Environment     string
	PropsDir        string
}

// Synthesize derives the Identity for this invocation: application name from
// the explicit override or the environment-scoped properties file, the safe
// name from (app name + environment) lowercased, and the account id from STS
// GetCallerIdentity. It has no side effects and is deterministic for a given
// (override, environment, credentials) triple.
func Synthesize(ctx context.Context, api CallerIdentityAPI, opts Options) (Identity, error) {
	env := opts.Environment
	if env == "" {
		env = "dev"
	}

	appName := opts.AppNameOverride
	if appName == "" {
		appName = lookupAppName(opts.PropsDir, env)
	}
	if appName == "" {
		return Identity{}, &Error{
			Reason: fmt.Sprintf("unable to determine app name; ensure properties.%s.json exists and contains an 'app_name' field, or provide --app-name", env),
		}
	}

	out, err := api.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return Identity{}, &Error{
			Reason: "unable to determine account id; ensure AWS credentials are configured",
			Err:    err,
		}
	}
	var accountID string
	if out.Account != nil {
		accountID = *out.Account
	}
	if accountID == "" {
		return Identity{}, &Error{
			Reason: "unable to determine account id; ensure AWS credentials are configured",
		}
	}

	id := Identity{
		AppName:     appName,
		Environment: env,
		AccountID:   accountID,
		SafeName:    strings.ToLower(appName + env),
	}
	log.Debugf("identity synthesized: app=%s env=%s account=%s safe=%s",
		id.AppName, id.Environment, id.AccountID, id.SafeName)

	return id, nil
}

// ParameterName returns the parameter store key for this identity's backend
// record.
func (id Identity) ParameterName() string {
	return fmt.Sprintf("%s/%s-%s", recordPrefix, id.AccountID, id.SafeName)
}

// DefaultBucket returns the deterministic bucket name used when bootstrap
// does not expose one and no override is given.
func (id Identity) DefaultBucket() string {
	return fmt.Sprintf("%s-%s-tfstate", id.AccountID, id.SafeName)
}

// lookupAppName reads the app_name key from properties.<env>.json in dir.
// Any failure (missing file, bad JSON, missing key) yields "", which the
// caller turns into an identity error.
func lookupAppName(dir, env string) string {
	path := filepath.Join(dir, fmt.Sprintf("properties.%s.json", env))
	data, err := os.ReadFile(path)
	if err != nil {
		log.Debugf("properties lookup: %s: %v", path, err)
		return ""
	}
	return gjson.GetBytes(data, "app_name").String()
}
