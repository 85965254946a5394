// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package teardown destroys what the rest of the tool builds: the top-level
// stack first, then (for destroy-all) the backend record and the state
// bucket, versions and all.
package teardown
