// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

// Package catalog loads the node and edge types a store under test declares
// support for, and derives which edge types each node type can take part in.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	gcerr "github.com/sigil-dev/graphcheck/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EdgeType declares an edge type and the node types at its two ends.
type EdgeType struct {
	Name string `yaml:"name"`
	End1 string `yaml:"end1"`
	End2 string `yaml:"end2"`
}

// Catalog is an immutable set of supported types. Edge types keep their
// declared order.
type Catalog struct {
	NodeTypes []string   `yaml:"node_types"`
	Edges     []EdgeType `yaml:"edge_types"`

	byName map[string]EdgeType
	atEnd1 map[string][]string
	atEnd2 map[string][]string
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, gcerr.Wrapf(err, gcerr.CodeCatalogLoadReadFailure, "reading catalog %s", path)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog. Unknown keys are rejected.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, gcerr.Wrapf(err, gcerr.CodeCatalogParseInvalid, "parsing catalog")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.index()
	return &c, nil
}

// New builds a catalog in code.
func New(nodeTypes []string, edges ...EdgeType) (*Catalog, error) {
	c := &Catalog{NodeTypes: nodeTypes, Edges: edges}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.index()
	return c, nil
}

// Validate rejects blank or duplicate names and, when node types are
// declared, edge ends that reference undeclared node types.
func (c *Catalog) Validate() error {
	declared := make(map[string]bool, len(c.NodeTypes))
	for _, nt := range c.NodeTypes {
		if nt == "" {
			return gcerr.New(gcerr.CodeCatalogValidateInvalid, "node type name must not be empty")
		}
		if declared[nt] {
			return gcerr.New(gcerr.CodeCatalogValidateInvalid,
				fmt.Sprintf("duplicate node type %q", nt), gcerr.FieldTypeName(nt))
		}
		declared[nt] = true
	}

	seen := make(map[string]bool, len(c.Edges))
	for i, et := range c.Edges {
		if et.Name == "" {
			return gcerr.New(gcerr.CodeCatalogValidateInvalid,
				fmt.Sprintf("edge_types[%d]: name must not be empty", i))
		}
		if seen[et.Name] {
			return gcerr.New(gcerr.CodeCatalogValidateInvalid,
				fmt.Sprintf("duplicate edge type %q", et.Name), gcerr.FieldTypeName(et.Name))
		}
		seen[et.Name] = true

		if et.End1 == "" || et.End2 == "" {
			return gcerr.New(gcerr.CodeCatalogValidateInvalid,
				fmt.Sprintf("edge type %q must declare both end types", et.Name), gcerr.FieldTypeName(et.Name))
		}
		if len(declared) == 0 {
			continue
		}
		for _, end := range []string{et.End1, et.End2} {
			if !declared[end] {
				return gcerr.New(gcerr.CodeCatalogValidateInvalid,
					fmt.Sprintf("edge type %q references undeclared node type %q", et.Name, end),
					gcerr.FieldTypeName(et.Name))
			}
		}
	}
	return nil
}

// index derives the per-node-type reverse maps. Edge type order is kept
// within each list.
func (c *Catalog) index() {
	c.byName = make(map[string]EdgeType, len(c.Edges))
	c.atEnd1 = make(map[string][]string)
	c.atEnd2 = make(map[string][]string)
	for _, et := range c.Edges {
		c.byName[et.Name] = et
		c.atEnd1[et.End1] = append(c.atEnd1[et.End1], et.Name)
		c.atEnd2[et.End2] = append(c.atEnd2[et.End2], et.Name)
	}
}

// EdgeTypes returns edge type names in declared order.
func (c *Catalog) EdgeTypes() []string {
	names := make([]string, len(c.Edges))
	for i, et := range c.Edges {
		names[i] = et.Name
	}
	return names
}

// Ends returns the end1 and end2 node types of an edge type.
func (c *Catalog) Ends(edgeType string) (end1, end2 string, err error) {
	et, ok := c.byName[edgeType]
	if !ok {
		return "", "", gcerr.New(gcerr.CodeCatalogEdgeTypeNotFound,
			fmt.Sprintf("unknown edge type %q", edgeType), gcerr.FieldTypeName(edgeType))
	}
	return et.End1, et.End2, nil
}

// EdgeTypesAt returns the edge types a node of nodeType can join as end1 and
// as end2.
func (c *Catalog) EdgeTypesAt(nodeType string) (end1, end2 []string) {
	return c.atEnd1[nodeType], c.atEnd2[nodeType]
}

// NodeTypeNames returns declared node types, or the distinct end types in
// first-seen order when none were declared.
func (c *Catalog) NodeTypeNames() []string {
	if len(c.NodeTypes) > 0 {
		return append([]string(nil), c.NodeTypes...)
	}
	var out []string
	seen := make(map[string]bool)
	for _, et := range c.Edges {
		for _, end := range []string{et.End1, et.End2} {
			if !seen[end] {
				seen[end] = true
				out = append(out, end)
			}
		}
	}
	return out
}
