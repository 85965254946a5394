// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package purge evacuates a possibly-versioned state bucket before
// deletion: current objects first, then every object version and delete
// marker, until the version listing comes back empty.
package purge
