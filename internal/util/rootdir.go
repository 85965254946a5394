// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"os"
	"path/filepath"
	"strings"
)

// ParseRootDir resolves a target directory argument of the form "dir" or
// "dir::env". The env segment, when present, overrides the --env flag for
// backend identity derivation. The returned directory is absolute; an empty
// spec, a missing path, or a non-directory is an error.
func ParseRootDir(rootDir string) (string, string, error) {
	if rootDir == "" {
		return "", "", os.ErrInvalid
	}

	dir, env, _ := strings.Cut(rootDir, "::")

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", "", err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", "", err
	}
	if !info.IsDir() {
		return "", "", os.ErrInvalid
	}

	return abs, env, nil
}
