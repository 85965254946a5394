// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package descriptor

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/tfctl/tfstrap/internal/log"
)

// FileName is the fixed name of the descriptor file inside a working
// directory. Terraform picks it up on the next init.
const FileName = "backend.tf"

// Build renders the backend descriptor for an s3 remote state backend. The
// object key is templated on (account, region, safe name) so state objects
// from different identities never collide in a shared bucket.
func Build(bucket, region, account, safeName string) string {
	f := hclwrite.NewEmptyFile()
	tf := f.Body().AppendNewBlock("terraform", nil)
	be := tf.Body().AppendNewBlock("backend", []string{"s3"})
	body := be.Body()
	body.SetAttributeValue("bucket", cty.StringVal(bucket))
	body.SetAttributeValue("key", cty.StringVal(
		fmt.Sprintf("terraform.%s-%s-%s.tfstate", account, region, safeName)))
	body.SetAttributeValue("region", cty.StringVal(region))
	body.SetAttributeValue("encrypt", cty.BoolVal(true))
	body.SetAttributeValue("use_lockfile", cty.BoolVal(true))
	return string(f.Bytes())
}

// BuildLocal renders the pinned local backend used inside the bootstrap
// directory, so bootstrap's own state stays on a lifecycle decoupled from
// the bucket it provisions.
func BuildLocal() string {
	f := hclwrite.NewEmptyFile()
	tf := f.Body().AppendNewBlock("terraform", nil)
	be := tf.Body().AppendNewBlock("backend", []string{"local"})
	be.Body().SetAttributeValue("path", cty.StringVal("bootstrap.tfstate"))
	return string(f.Bytes())
}

// Write materializes content as <dir>/backend.tf, creating dir if needed.
// The file is fully overwritten on every resolution, never merged.
func Write(dir, content string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Infof("wrote %s", path)
	return nil
}

// WriteLocal writes the pinned local-backend descriptor into dir.
func WriteLocal(dir string) error {
	return Write(dir, BuildLocal())
}

// Erase removes the descriptor file from dir. A missing file is fine.
func Erase(dir string) error {
	path := filepath.Join(dir, FileName)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to erase %s: %w", path, err)
	}
	log.Infof("erased %s", path)
	return nil
}

// BucketFromDescriptor extracts the bucket attribute from a stored
// descriptor. Records written by current builds carry the bucket name in a
// sibling parameter; this parse path only covers records written by older
// tooling. Returns "" when the content does not parse or has no bucket.
func BucketFromDescriptor(content string) string {
	file, diags := hclparse.NewParser().ParseHCL([]byte(content), FileName)
	if diags.HasErrors() {
		log.Debugf("descriptor parse failed: %v", diags)
		return ""
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return ""
	}
	for _, block := range body.Blocks {
		if block.Type != "terraform" {
			continue
		}
		for _, inner := range block.Body.Blocks {
			if inner.Type != "backend" {
				continue
			}
			attr, ok := inner.Body.Attributes["bucket"]
			if !ok {
				continue
			}
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() || val.Type() != cty.String {
				continue
			}
			return val.AsString()
		}
	}
	return ""
}
