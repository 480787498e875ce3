package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/evoviz/phylosim/pkg/pipeline"
)

// artifactWriteParams bundles the inputs for writeArtifacts.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	output    string // output file (single format) or base path (multiple)
	base      string // fallback base name when output is empty
}

// writeArtifacts writes each rendered artifact to disk. With a single format
// the output flag names the file directly; with multiple formats it is
// treated as a base path and the format extension is appended.
func writeArtifacts(p artifactWriteParams) error {
	if len(p.formats) == 1 {
		path := p.output
		if path == "" {
			path = p.base + "." + p.formats[0]
		}
		return writeArtifact(path, p.artifacts[p.formats[0]])
	}

	base := basePath(p.output, p.base)
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}
		if err := writeArtifact(base+"."+format, data); err != nil {
			return err
		}
	}
	return nil
}

// writeArtifact writes one artifact, creating parent directories as needed.
func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printFile(path)
	return nil
}

// basePath derives the base output path. If output carries a known format
// extension it is stripped, so "tree.svg" and "tree" behave the same.
func basePath(output, fallback string) string {
	if output == "" {
		return fallback
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
