// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package resolver is the backend resolution state machine: check the
// record store, reuse a published backend on a hit, provision one on a
// miss. The record's existence is the only signal either way.
package resolver
