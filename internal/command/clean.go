// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/tfstrap/internal/descriptor"
	"github.com/tfctl/tfstrap/internal/log"
	"github.com/tfctl/tfstrap/internal/meta"
)

// cleanDirNames are directories removed wholesale, subtree and all.
var cleanDirNames = map[string]bool{
	".terraform": true,
}

// cleanFileNames are individual files removed wherever they appear.
var cleanFileNames = map[string]bool{
	".terraform.lock.hcl":      true,
	descriptor.FileName:        true,
	"terraform.tfstate":        true,
	"terraform.tfstate.backup": true,
}

// cleanFiles walks root and deletes generated local artifacts: provider
// caches, lock files, materialized backend descriptors, and local state.
// It returns the number of entries removed.
func cleanFiles(root string) (int, error) {
	removed := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() && cleanDirNames[name] {
			if err := os.RemoveAll(path); err != nil {
				return fmt.Errorf("unable to remove %s: %w", path, err)
			}
			log.Debugf("removed %s", path)
			removed++
			return filepath.SkipDir
		}
		if !d.IsDir() && cleanFileNames[name] {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("unable to remove %s: %w", path, err)
			}
			log.Debugf("removed %s", path)
			removed++
		}
		return nil
	})
	return removed, err
}

// cleanCommandAction removes local generated files under the target
// directory. Remote state and the backend record are untouched.
func cleanCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	root := m.RootDir
	if root == "" {
		root = "."
	}

	prompt := fmt.Sprintf("Remove generated files under %s?", root)
	if !Confirm(prompt, cmd.Bool("force")) {
		log.Infof("clean cancelled; nothing was changed")
		return nil
	}

	removed, err := cleanFiles(root)
	if err != nil {
		return err
	}
	log.Infof("clean removed %d entries under %s", removed, root)
	return nil
}

// cleanCommandBuilder constructs the cli.Command for "clean".
func cleanCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "clean",
		Usage:     "remove locally generated files (.terraform, lock files, descriptors)",
		UsageText: "tfstrap clean [RootDir] [options]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: []cli.Flag{
			forceFlag,
		},
		Action: cleanCommandAction,
	}
}
