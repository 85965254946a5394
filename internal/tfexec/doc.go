// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package tfexec invokes the external Terraform (or OpenTofu) binary. The
// Runner interface keeps the rest of the tool decoupled from subprocess
// mechanics so orchestration logic is testable without a binary.
package tfexec
