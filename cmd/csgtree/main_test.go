package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/chazu/csgtree/internal/config"
	"github.com/chazu/csgtree/pkg/csg"
)

const bracket = "../../examples/bracket.csg"

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestTreeText(t *testing.T) {
	out, _, err := run(t, "", "tree", bracket)
	require.NoError(t, err)

	assert.Contains(t, out, "root: color(union(union(union(cube(4), ")
	assert.Contains(t, out, "background: translate(cube(")
	assert.NotContains(t, out, "highlight:")
}

func TestTreeYAML(t *testing.T) {
	out, _, err := run(t, "", "tree", "-o", "yaml", bracket)
	require.NoError(t, err)

	var doc csg.ResultDocument
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	require.NotNil(t, doc.Root)
	assert.Equal(t, "color", doc.Root.Kind)
	assert.Equal(t, "#ffa500", doc.Root.Color)
	require.Len(t, doc.Root.Children, 1)
	assert.Equal(t, "union", doc.Root.Children[0].Op)
	assert.Len(t, doc.Backgrounds, 1)
}

func TestTreeJSONFromStdin(t *testing.T) {
	out, _, err := run(t, "(difference (cube 10) (highlight (sphere 4)))", "tree", "--output", "json", "-")
	require.NoError(t, err)

	var doc csg.ResultDocument
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.NotNil(t, doc.Root)
	assert.Equal(t, "operation", doc.Root.Kind)
	assert.Equal(t, "difference", doc.Root.Op)
	require.Len(t, doc.Highlights, 1)
	assert.Equal(t, "leaf", doc.Highlights[0].Kind)
	require.NotNil(t, doc.Highlights[0].Bounds)
}

func TestTreeReportsErrors(t *testing.T) {
	_, errOut, err := run(t, "(union (cube 1)", "tree", "-")
	require.Error(t, err)
	assert.Contains(t, errOut, "error:")
}

func TestMeshTable(t *testing.T) {
	out, _, err := run(t, "", "mesh", "--cells", "24", "--segments", "12", bracket)
	require.NoError(t, err)

	assert.Contains(t, out, "#ffa500")
	assert.Contains(t, out, "background")
	assert.Equal(t, 4, strings.Count(out, "#ffa500"))
}

func TestMeshJSON(t *testing.T) {
	out, _, err := run(t, "(cube 2)", "mesh", "--cells", "16", "-o", "json", "-")
	require.NoError(t, err)

	var r struct {
		Meshes []struct {
			Label   string    `json:"label"`
			Role    string    `json:"role"`
			Indices []uint32  `json:"indices"`
			Normals []float32 `json:"normals"`
		} `json:"meshes"`
		Errors []any `json:"errors"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	require.Len(t, r.Meshes, 1)
	assert.Equal(t, "cube(1)", r.Meshes[0].Label)
	assert.Equal(t, "root", r.Meshes[0].Role)
	assert.NotEmpty(t, r.Meshes[0].Indices)
	assert.Empty(t, r.Errors)
}

func TestValidate(t *testing.T) {
	out, _, err := run(t, "", "validate", bracket)
	require.NoError(t, err)
	assert.Contains(t, out, "ok: ")

	out, _, err = run(t, "(union (cube 0) (sphere 1))", "validate", "-")
	require.Error(t, err)
	assert.Contains(t, out, "must be positive")
}

func TestInvalidConfig(t *testing.T) {
	_, _, err := run(t, "", "tree", "--kernel", "cgal", bracket)
	require.ErrorIs(t, err, config.ErrInvalid)

	_, _, err = run(t, "", "tree", "-o", "xml", bracket)
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestMissingFile(t *testing.T) {
	_, _, err := run(t, "", "tree", "does-not-exist.csg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read model")
}
