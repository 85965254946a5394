// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package store persists backend records in the SSM parameter store. The
// existence of a record is the sole signal that a backend has been
// provisioned for an identity; absence always means "provision", never an
// error.
package store
