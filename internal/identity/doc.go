// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package identity derives the stable (app name, environment, account)
// triple that namespaces every backend resource. Every command runs this
// first; nothing mutates until an Identity exists.
package identity
