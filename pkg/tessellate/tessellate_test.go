package tessellate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/chazu/csgtree/pkg/csg"
	"github.com/chazu/csgtree/pkg/graph"
	"github.com/chazu/csgtree/pkg/kernel"
	"github.com/chazu/csgtree/pkg/kernel/sdfx"
	"github.com/chazu/csgtree/pkg/tessellate"
)

// newKernel returns a fresh sdfx kernel for testing with a coarse mesh.
func newKernel() kernel.Kernel {
	return sdfx.New(sdfx.WithMeshCells(24))
}

func box(k kernel.Kernel, label string, x, y, z float64) *csg.Term {
	return csg.NewLeaf(k.Box(x, y, z), csg.Origin{Label: label})
}

func ball(k kernel.Kernel, label string, r float64) *csg.Term {
	return csg.NewLeaf(k.Sphere(r, 16), csg.Origin{Label: label})
}

func minX(m *kernel.Mesh) float32 {
	lo := m.Vertices[0]
	for i := 0; i < len(m.Vertices); i += 3 {
		lo = min(lo, m.Vertices[i])
	}
	return lo
}

func TestSingleBox(t *testing.T) {
	k := newKernel()

	meshes, err := tessellate.Tessellate(context.Background(), k, csg.Result{Root: box(k, "cube(1)", 10, 10, 10)})
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(meshes))
	}

	m := meshes[0]
	if m.IsEmpty() {
		t.Fatal("mesh should not be empty")
	}
	if m.Label != "cube(1)" {
		t.Errorf("expected Label %q, got %q", "cube(1)", m.Label)
	}
	if m.Role != tessellate.RoleRoot {
		t.Errorf("expected Role %q, got %q", tessellate.RoleRoot, m.Role)
	}
	if m.Color != "" {
		t.Errorf("expected default color, got %q", m.Color)
	}
	if m.TriangleCount() == 0 {
		t.Error("mesh should have triangles")
	}
}

func TestEmptyResult(t *testing.T) {
	meshes, err := tessellate.Tessellate(context.Background(), newKernel(), csg.Result{})
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 0 {
		t.Errorf("expected no meshes, got %d", len(meshes))
	}
}

func TestUnionSplitsIntoParts(t *testing.T) {
	k := newKernel()
	root, _ := csg.Fold(graph.OpUnion, []*csg.Term{
		box(k, "cube(1)", 10, 10, 10),
		ball(k, "sphere(2)", 5),
		box(k, "cube(3)", 2, 2, 2),
	})

	meshes, err := tessellate.Tessellate(context.Background(), k, csg.Result{Root: root})
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	want := []string{"cube(1)", "sphere(2)", "cube(3)"}
	if len(meshes) != len(want) {
		t.Fatalf("expected %d meshes, got %d", len(want), len(meshes))
	}
	for i, label := range want {
		if meshes[i].Label != label {
			t.Errorf("mesh %d: expected Label %q, got %q", i, label, meshes[i].Label)
		}
	}
}

func TestDifferenceIsOnePart(t *testing.T) {
	k := newKernel()
	root := csg.NewOperation(graph.OpDifference, box(k, "cube(1)", 10, 10, 10), ball(k, "sphere(2)", 4))

	meshes, err := tessellate.Tessellate(context.Background(), k, csg.Result{Root: root})
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(meshes))
	}
	if meshes[0].Label != "difference(cube(1), sphere(2))" {
		t.Errorf("unexpected label %q", meshes[0].Label)
	}
}

func TestTransformDistributesOverUnion(t *testing.T) {
	k := newKernel()
	offset := graph.Vec3{X: 50}
	inner := csg.NewOperation(graph.OpUnion, box(k, "cube(1)", 10, 10, 10), box(k, "cube(2)", 5, 5, 5))
	root := csg.NewTransform(graph.TransformData{Translation: &offset}, inner, csg.Origin{Label: "translate(3)"})

	meshes, err := tessellate.Tessellate(context.Background(), k, csg.Result{Root: root})
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(meshes))
	}
	for _, m := range meshes {
		if x := minX(m); x < 49 || x > 51 {
			t.Errorf("%s: expected min X near 50, got %v", m.Label, x)
		}
	}
}

func TestOutermostColorWins(t *testing.T) {
	k := newKernel()
	red := graph.Color{R: 1, A: 1}
	blue := graph.Color{B: 1, A: 1}
	painted := csg.NewColor(red, csg.NewColor(blue, box(k, "cube(1)", 4, 4, 4), csg.Origin{}), csg.Origin{})
	root := csg.NewOperation(graph.OpUnion, painted, ball(k, "sphere(2)", 2))

	meshes, err := tessellate.Tessellate(context.Background(), k, csg.Result{Root: root})
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(meshes))
	}
	if meshes[0].Color != "#ff0000" {
		t.Errorf("expected outer color #ff0000, got %q", meshes[0].Color)
	}
	if meshes[1].Color != "" {
		t.Errorf("expected default color for uncolored part, got %q", meshes[1].Color)
	}
}

func TestRolesInOrder(t *testing.T) {
	k := newKernel()
	highlight := ball(k, "sphere(2)", 3)
	res := csg.Result{
		Root:        csg.NewOperation(graph.OpDifference, box(k, "cube(1)", 10, 10, 10), highlight),
		Highlights:  []*csg.Term{highlight},
		Backgrounds: []*csg.Term{box(k, "cube(3)", 2, 2, 2)},
	}

	meshes, err := tessellate.Tessellate(context.Background(), k, res, tessellate.WithWorkers(1))
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	want := []string{tessellate.RoleRoot, tessellate.RoleHighlight, tessellate.RoleBackground}
	if len(meshes) != len(want) {
		t.Fatalf("expected %d meshes, got %d", len(want), len(meshes))
	}
	for i, role := range want {
		if meshes[i].Role != role {
			t.Errorf("mesh %d: expected Role %q, got %q", i, role, meshes[i].Role)
		}
	}
}

func TestCancelledContext(t *testing.T) {
	k := newKernel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tessellate.Tessellate(ctx, k, csg.Result{Root: box(k, "cube(1)", 1, 1, 1)})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSolidifySharedTerm(t *testing.T) {
	k := newKernel()
	shared := box(k, "cube(1)", 2, 2, 2)
	offset := graph.Vec3{X: 10}
	root := csg.NewOperation(graph.OpUnion, shared,
		csg.NewTransform(graph.TransformData{Translation: &offset}, shared, csg.Origin{}))

	s := tessellate.Solidify(k, root)
	if s == nil {
		t.Fatal("expected a solid")
	}
	min, max := s.BoundingBox()
	if min[0] > 0.01 || max[0] < 11.99 {
		t.Errorf("expected X extent [0, 12], got [%v, %v]", min[0], max[0])
	}
	if tessellate.Solidify(k, nil) != nil {
		t.Error("expected nil solid for nil term")
	}
}
