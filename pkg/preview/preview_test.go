package preview_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/csgtree/pkg/kernel/sdfx"
	"github.com/chazu/csgtree/pkg/preview"
	"github.com/chazu/csgtree/pkg/tessellate"
)

func newPreviewer() *preview.Previewer {
	return preview.New(sdfx.New(sdfx.WithMeshCells(32)), preview.WithSegments(16))
}

func evaluate(t *testing.T, source string) preview.Result {
	t.Helper()
	return newPreviewer().Evaluate(context.Background(), source)
}

func requireOK(t *testing.T, r preview.Result) {
	t.Helper()
	for _, e := range r.Errors {
		t.Errorf("error: %s", e)
	}
	require.True(t, r.OK())
}

func roles(r preview.Result) map[string]int {
	out := make(map[string]int)
	for _, m := range r.Meshes {
		out[m.Role]++
	}
	return out
}

// TestExampleBracket exercises the full pipeline on the shipped example:
// source -> engine -> tree -> csg terms -> meshes.
func TestExampleBracket(t *testing.T) {
	source, err := os.ReadFile("../../examples/bracket.csg")
	require.NoError(t, err)

	r := evaluate(t, string(source))
	requireOK(t, r)

	assert.Empty(t, r.Warnings)
	require.NotNil(t, r.CSG.Root)
	assert.Equal(t,
		"color(union(union(union(cube(4), translate(difference(cylinder(1), cylinder(2)))), "+
			"translate(difference(cylinder(1), cylinder(2)))), translate(cube(7))))",
		r.CSG.Root.String())
	assert.Len(t, r.CSG.Backgrounds, 1)

	require.Len(t, r.Meshes, 5)
	assert.Equal(t, map[string]int{tessellate.RoleRoot: 4, tessellate.RoleBackground: 1}, roles(r))
	for _, m := range r.Meshes {
		assert.NotEmpty(t, m.Vertices, m.Label)
		assert.NotEmpty(t, m.Normals, m.Label)
		assert.NotEmpty(t, m.Indices, m.Label)
		if m.Role == tessellate.RoleRoot {
			assert.Equal(t, "#ffa500", m.Color, m.Label)
			assert.Equal(t, 1.0, m.Opacity, m.Label)
		} else {
			assert.Equal(t, "#B4B4B4", m.Color, m.Label)
			assert.Less(t, m.Opacity, 1.0, m.Label)
		}
	}
}

func TestEmptySource(t *testing.T) {
	for _, source := range []string{"", "   \n\t", ";; just a comment\n; another"} {
		r := evaluate(t, source)
		requireOK(t, r)
		assert.Empty(t, r.Meshes)
		assert.Empty(t, r.Warnings)
		// JSON should serialize as [] not null.
		assert.NotNil(t, r.Meshes)
		assert.NotNil(t, r.Errors)
		assert.NotNil(t, r.Warnings)
	}
}

func TestSyntaxError(t *testing.T) {
	r := evaluate(t, "(+ 1 2)\n(union (cube 1)")

	require.NotEmpty(t, r.Errors)
	assert.NotEmpty(t, r.Errors[0].Message)
	assert.Empty(t, r.Meshes)
	assert.Nil(t, r.Tree)
}

func TestValidationErrorStopsPipeline(t *testing.T) {
	r := evaluate(t, "(union (cube 0 5 5) (sphere 1))")

	require.NotEmpty(t, r.Errors)
	assert.NotNil(t, r.Tree)
	assert.Nil(t, r.CSG.Root)
	assert.Empty(t, r.Meshes)
}

func TestHighlightIsCombinedAndListed(t *testing.T) {
	r := evaluate(t, "(difference (cube 10) (highlight (translate (vec3 5 5 5) (sphere 4))))")
	requireOK(t, r)

	require.Len(t, r.Meshes, 2)
	assert.Equal(t, tessellate.RoleRoot, r.Meshes[0].Role)
	assert.True(t, strings.HasPrefix(r.Meshes[0].Label, "difference("))
	assert.Equal(t, tessellate.RoleHighlight, r.Meshes[1].Role)
	assert.Equal(t, "#FF5151", r.Meshes[1].Color)
	assert.Equal(t, 0.5, r.Meshes[1].Opacity)
}

func TestDisabledProducesNothing(t *testing.T) {
	r := evaluate(t, "(disable (cube 1))")
	requireOK(t, r)

	assert.Nil(t, r.CSG.Root)
	assert.Empty(t, r.Meshes)
}

func TestRootOverride(t *testing.T) {
	r := evaluate(t, "(union (cube 10) (translate (vec3 20 0 0) (root (sphere 3))))")
	requireOK(t, r)

	require.Len(t, r.Meshes, 1)
	assert.Equal(t, "sphere(3)", r.Meshes[0].Label)
}

func TestMultipleRootOverridesWarn(t *testing.T) {
	r := evaluate(t, "(root (cube 1))\n(root (sphere 1))")
	requireOK(t, r)

	require.Len(t, r.Meshes, 1)
	assert.True(t, strings.HasPrefix(r.Meshes[0].Label, "sphere("))

	var found int
	for _, w := range r.Warnings {
		if strings.Contains(w.Message, "root modifier used 2 times") {
			found++
		}
	}
	assert.Equal(t, 2, found, "expected the warning from validation and from the builder")
}

func TestAdvancedUnsupportedByKernel(t *testing.T) {
	r := evaluate(t, "(hull (cube 1) (translate (vec3 5 0 0) (sphere 1)))")
	requireOK(t, r)

	assert.Empty(t, r.Meshes)
	var found bool
	for _, w := range r.Warnings {
		found = found || strings.Contains(w.Message, "not supported")
	}
	assert.True(t, found, "warnings: %v", r.Warnings)
}

func TestResizeWithSdfx(t *testing.T) {
	r := evaluate(t, "(resize (vec3 20 0 0) (cube 10))")
	requireOK(t, r)

	require.NotNil(t, r.CSG.Root)
	min, max := r.CSG.Root.Geometry().BoundingBox()
	assert.InDelta(t, 20, max[0]-min[0], 1e-6)
	assert.InDelta(t, 10, max[1]-min[1], 1e-6)
}

func TestColorPaletteWrapping(t *testing.T) {
	var b strings.Builder
	b.WriteString("(union\n")
	for i := 0; i < 9; i++ {
		fmt.Fprintf(&b, "  (translate (vec3 %d 0 0) (cube 1))\n", i*3)
	}
	b.WriteString(")")

	r := evaluate(t, b.String())
	requireOK(t, r)

	require.Len(t, r.Meshes, 9)
	for _, m := range r.Meshes {
		assert.NotEmpty(t, m.Color, m.Label)
	}
	assert.Equal(t, r.Meshes[0].Color, r.Meshes[8].Color)
	assert.NotEqual(t, r.Meshes[0].Color, r.Meshes[1].Color)
}

func TestCompileSkipsTessellation(t *testing.T) {
	r := newPreviewer().Compile("(union (cube 1) (background (sphere 1)))")
	requireOK(t, r)

	assert.Empty(t, r.Meshes)
	require.NotNil(t, r.CSG.Root)
	assert.Equal(t, "cube(1)", r.CSG.Root.String())
	assert.Len(t, r.CSG.Backgrounds, 1)
}

func TestRapidEvaluation(t *testing.T) {
	// Rapid sequential calls exercise the generation counter and the
	// recovery between error and success states.
	p := newPreviewer()
	sources := []string{
		"(cube 1)",
		"(union (cube 1)",
		"",
		"(undefined-func 1 2 3)",
		"(difference (cube 2) (sphere 1))",
		";; just a comment",
		"(cube 3)",
	}
	var last preview.Result
	for _, source := range sources {
		assert.NotPanics(t, func() {
			last = p.Evaluate(context.Background(), source)
		}, source)
	}
	requireOK(t, last)
	assert.Len(t, last.Meshes, 1)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newPreviewer().Evaluate(ctx, "(cube 1)")

	require.NotEmpty(t, r.Errors)
	assert.Contains(t, r.Errors[0].Message, "tessellation failed")
}

func TestDiagnosticString(t *testing.T) {
	assert.Equal(t, "line 3: boom", preview.Diagnostic{Line: 3, Message: "boom"}.String())
	assert.Equal(t, "#4: boom", preview.Diagnostic{Node: 4, Message: "boom"}.String())
	assert.Equal(t, "boom", preview.Diagnostic{Message: "boom"}.String())
}

func TestMeshSize(t *testing.T) {
	r := evaluate(t, "(cube 10 20 30)")
	requireOK(t, r)

	require.Len(t, r.Meshes, 1)
	size := r.Meshes[0].Size
	assert.InDelta(t, 10, size[0], 2)
	assert.InDelta(t, 20, size[1], 2)
	assert.InDelta(t, 30, size[2], 2)
}
