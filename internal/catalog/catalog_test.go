// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sigil-dev/graphcheck/internal/catalog"
	gcerr "github.com/sigil-dev/graphcheck/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Testdata(t *testing.T) {
	c, err := catalog.Load(filepath.Join("testdata", "lineage.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"ProcessInput", "ProcessOutput", "ProcessPort", "DataSetGlossary"}, c.EdgeTypes())
	assert.Equal(t, []string{"Process", "DataSet", "Port", "Glossary"}, c.NodeTypeNames())

	end1, end2, err := c.Ends("ProcessPort")
	require.NoError(t, err)
	assert.Equal(t, "Process", end1)
	assert.Equal(t, "Port", end2)

	atEnd1, atEnd2 := c.EdgeTypesAt("Process")
	assert.Equal(t, []string{"ProcessInput", "ProcessOutput", "ProcessPort"}, atEnd1)
	assert.Empty(t, atEnd2)

	atEnd1, atEnd2 = c.EdgeTypesAt("DataSet")
	assert.Equal(t, []string{"DataSetGlossary"}, atEnd1)
	assert.Equal(t, []string{"ProcessInput", "ProcessOutput"}, atEnd2)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := catalog.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, gcerr.HasCode(err, gcerr.CodeCatalogLoadReadFailure))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		code gcerr.Code
	}{
		{
			name: "malformed",
			yaml: "edge_types: [",
			code: gcerr.CodeCatalogParseInvalid,
		},
		{
			name: "unknown key",
			yaml: "edge_typez: []",
			code: gcerr.CodeCatalogParseInvalid,
		},
		{
			name: "blank edge name",
			yaml: "edge_types:\n  - end1: A\n    end2: B\n",
			code: gcerr.CodeCatalogValidateInvalid,
		},
		{
			name: "duplicate edge",
			yaml: "edge_types:\n  - {name: E, end1: A, end2: B}\n  - {name: E, end1: A, end2: B}\n",
			code: gcerr.CodeCatalogValidateInvalid,
		},
		{
			name: "missing end",
			yaml: "edge_types:\n  - {name: E, end1: A}\n",
			code: gcerr.CodeCatalogValidateInvalid,
		},
		{
			name: "undeclared end",
			yaml: "node_types: [A]\nedge_types:\n  - {name: E, end1: A, end2: B}\n",
			code: gcerr.CodeCatalogValidateInvalid,
		},
		{
			name: "duplicate node type",
			yaml: "node_types: [A, A]\n",
			code: gcerr.CodeCatalogValidateInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Equal(t, tt.code, gcerr.CodeOf(err))
			assert.True(t, gcerr.IsInvalidInput(err))
		})
	}
}

func TestParse_UndeclaredNodeTypesAllowed(t *testing.T) {
	c, err := catalog.Parse([]byte("edge_types:\n  - {name: Link, end1: A, end2: A}\n"))
	require.NoError(t, err)

	atEnd1, atEnd2 := c.EdgeTypesAt("A")
	assert.Equal(t, []string{"Link"}, atEnd1)
	assert.Equal(t, []string{"Link"}, atEnd2)
	assert.Equal(t, []string{"A"}, c.NodeTypeNames())
}

func TestParse_Empty(t *testing.T) {
	c, err := catalog.New(nil)
	require.NoError(t, err)
	assert.Empty(t, c.EdgeTypes())

	atEnd1, atEnd2 := c.EdgeTypesAt("Anything")
	assert.Empty(t, atEnd1)
	assert.Empty(t, atEnd2)
}

func TestEnds_Unknown(t *testing.T) {
	c, err := catalog.New(nil, catalog.EdgeType{Name: "E", End1: "A", End2: "B"})
	require.NoError(t, err)

	_, _, err = c.Ends("Nope")
	require.Error(t, err)
	assert.True(t, gcerr.HasCode(err, gcerr.CodeCatalogEdgeTypeNotFound))
	assert.True(t, gcerr.IsNotFound(err))
}

func TestLoad_WrittenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("edge_types:\n  - {name: E, end1: A, end2: B}\n"), 0o600))

	c, err := catalog.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"E"}, c.EdgeTypes())
}

func TestParse_EmptyDocument(t *testing.T) {
	c, err := catalog.Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, c.EdgeTypes())
}
