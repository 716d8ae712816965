package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/artifactgraphgo/internal/config"
	"github.com/vk/artifactgraphgo/internal/ctxlog"
	"github.com/vk/artifactgraphgo/internal/fsutil"
	"github.com/vk/artifactgraphgo/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load orchestrates the entire HCL loading process. It is agnostic to the
// origin of the paths and accepts any graph block from any file; blocks from
// every discovered file merge into one model. Redeclaring an artifact,
// builder, or condition name anywhere in the load set is an error.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	model := &config.Model{
		Artifacts: make(map[string]*config.ArtifactDefinition),
	}

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()
	declared := newDeclarationIndex()

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root schema.GraphConfig
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		// Translate and merge all discovered blocks into the model.
		for _, block := range root.Artifacts {
			if err := declared.claimArtifact(block.ID, file); err != nil {
				return nil, err
			}
			def, err := l.translateArtifact(ctx, block)
			if err != nil {
				return nil, err
			}
			model.Artifacts[def.ID] = def
		}
		for _, block := range root.Builders {
			if err := declared.claimBuilder(block.Name, file); err != nil {
				return nil, err
			}
			model.Builders = append(model.Builders, l.translateBuilder(block))
		}
		for _, block := range root.Conditions {
			if err := declared.claimCondition(block.Name, file); err != nil {
				return nil, err
			}
			model.Conditions = append(model.Conditions, l.translateCondition(block))
		}
	}

	logger.Debug("HCL loading complete.",
		"artifacts", len(model.Artifacts),
		"builders", len(model.Builders),
		"conditions", len(model.Conditions),
	)
	return model, nil
}

// findAllHCLFiles resolves the given paths to a flat, de-duplicated list of
// .hcl files. Directories are walked recursively; a path that does not
// exist is skipped rather than treated as an error.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			if _, wasSeen := seen[f]; !wasSeen {
				allFiles = append(allFiles, f)
				seen[f] = struct{}{}
			}
		}
	}
	return allFiles, nil
}

// declarationIndex remembers which file first declared each name so that a
// redeclaration anywhere in the load set fails naming both locations.
type declarationIndex struct {
	artifacts  map[string]string
	builders   map[string]string
	conditions map[string]string
}

func newDeclarationIndex() *declarationIndex {
	return &declarationIndex{
		artifacts:  make(map[string]string),
		builders:   make(map[string]string),
		conditions: make(map[string]string),
	}
}

func (d *declarationIndex) claimArtifact(id, file string) error {
	return claim(d.artifacts, "artifact", id, file)
}

func (d *declarationIndex) claimBuilder(name, file string) error {
	return claim(d.builders, "builder", name, file)
}

func (d *declarationIndex) claimCondition(name, file string) error {
	return claim(d.conditions, "condition", name, file)
}

func claim(seen map[string]string, kind, name, file string) error {
	if first, ok := seen[name]; ok {
		return fmt.Errorf("duplicate %s '%s': declared in both %s and %s", kind, name, first, file)
	}
	seen[name] = file
	return nil
}
