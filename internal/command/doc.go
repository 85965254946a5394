// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package command wires the CLI surface: one builder per subcommand, a
// shared runtime that synthesizes the stack identity and AWS clients, and
// the confirmation gate for destructive operations.
package command // no-cloc
