// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package bootstrap provisions the durable state bucket via a separate
// bootstrap Terraform configuration and publishes the resulting backend
// record for every later run to find.
package bootstrap
