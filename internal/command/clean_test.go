// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestCleanFiles(t *testing.T) {
	root := t.TempDir()

	// Generated artifacts at two nesting levels.
	touch(t, filepath.Join(root, "backend.tf"))
	touch(t, filepath.Join(root, ".terraform.lock.hcl"))
	touch(t, filepath.Join(root, ".terraform", "providers", "cached.bin"))
	touch(t, filepath.Join(root, "bootstrap", "terraform.tfstate"))
	touch(t, filepath.Join(root, "bootstrap", "terraform.tfstate.backup"))

	// Author-owned files that must survive.
	touch(t, filepath.Join(root, "main.tf"))
	touch(t, filepath.Join(root, "bootstrap", "main.tf"))

	removed, err := cleanFiles(root)
	require.NoError(t, err)
	assert.Equal(t, 5, removed)

	_, err = os.Stat(filepath.Join(root, ".terraform"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "backend.tf"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "bootstrap", "terraform.tfstate"))
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(filepath.Join(root, "main.tf"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "bootstrap", "main.tf"))
	assert.NoError(t, err)
}

func TestCleanFilesEmptyTree(t *testing.T) {
	removed, err := cleanFiles(t.TempDir())
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestCleanFilesMissingRoot(t *testing.T) {
	_, err := cleanFiles(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
