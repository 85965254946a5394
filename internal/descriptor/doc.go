// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package descriptor builds, writes and erases the backend.tf descriptor
// file consumed by Terraform. Content validity is Terraform's problem at
// init time; this package only guarantees the shape it generates itself.
package descriptor
