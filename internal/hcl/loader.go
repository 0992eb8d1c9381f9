package hcl

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/filtergrid/internal/config"
	"github.com/specialistvlad/filtergrid/internal/ctxlog"
	"github.com/specialistvlad/filtergrid/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	base fs.FS
}

// NewLoader creates a new HCL schema loader. Manifests found in base (for
// example the embedded built-in set) are loaded before any path passed to
// Load. base may be nil.
func NewLoader(base fs.FS) *Loader {
	return &Loader{base: base}
}

// collected holds the raw blocks of every parsed file, in load order.
type collected struct {
	types map[string]*attributeTypeBlock
	nodes []*nodeBlock
}

// Load parses the base manifests and every .hcl file reachable from paths,
// then translates them into a config.Model. Later definitions replace
// earlier ones with the same name.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	parser := hclparse.NewParser()
	raw := &collected{types: make(map[string]*attributeTypeBlock)}

	if l.base != nil {
		baseFiles, err := fs.Glob(l.base, "*.hcl")
		if err != nil {
			return nil, fmt.Errorf("failed to list built-in manifests: %w", err)
		}
		sort.Strings(baseFiles)
		for _, name := range baseFiles {
			src, err := fs.ReadFile(l.base, name)
			if err != nil {
				return nil, fmt.Errorf("failed to read built-in manifest %s: %w", name, err)
			}
			if err := l.parseSource(ctx, parser, raw, src, path.Join("builtin", name)); err != nil {
				return nil, err
			}
		}
		logger.Debug("Built-in manifests parsed.", "count", len(baseFiles))
	}

	hclFiles, err := fsutil.FindFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	for _, file := range hclFiles {
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read HCL file %s: %w", file, err)
		}
		if err := l.parseSource(ctx, parser, raw, src, file); err != nil {
			return nil, err
		}
	}

	model, err := l.translate(ctx, raw)
	if err != nil {
		return nil, err
	}
	logger.Debug("HCL loading complete.", "attribute_types", len(model.AttributeTypes), "node_types", len(model.NodeTypes))
	return model, nil
}

func (l *Loader) parseSource(ctx context.Context, parser *hclparse.Parser, raw *collected, src []byte, filename string) error {
	logger := ctxlog.FromContext(ctx)

	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
	if diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}
	if root.Remain != nil {
		if attrs, _ := root.Remain.JustAttributes(); len(attrs) > 0 {
			return fmt.Errorf("failed to decode HCL file %s: unexpected top-level attributes", filename)
		}
	}

	for _, t := range root.AttributeTypes {
		if _, exists := raw.types[t.Name]; exists {
			logger.Debug("Attribute type redefined.", "name", t.Name, "file", filename)
		}
		raw.types[t.Name] = t
	}
	for _, n := range root.Nodes {
		replaced := false
		for i, existing := range raw.nodes {
			if existing.Ref == n.Ref {
				logger.Debug("Node type redefined.", "ref", n.Ref, "file", filename)
				raw.nodes[i] = n
				replaced = true
				break
			}
		}
		if !replaced {
			raw.nodes = append(raw.nodes, n)
		}
	}
	return nil
}

// diagsError unwraps diagnostics into an error only when they contain errors.
func diagsError(diags hcl.Diagnostics) error {
	if diags.HasErrors() {
		return diags
	}
	return nil
}
