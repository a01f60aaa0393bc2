// Package geometry evaluates modeling-node subtrees to concrete kernel
// solids. The CSG builder calls into it for primitives, render boundaries
// and advanced operations that have no lazy term form.
package geometry

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/chazu/csgtree/pkg/graph"
	"github.com/chazu/csgtree/pkg/kernel"
)

// DefaultSegments is the facet count used when a round primitive does not
// specify one.
const DefaultSegments = 32

// ErrBadPayload is returned when a node's data does not fit its kind.
var ErrBadPayload = errors.New("geometry: node data does not match kind")

// Evaluator produces concrete geometry for a node. A nil solid with a nil
// error means the node has no geometry.
type Evaluator interface {
	EvaluateGeometry(n *graph.Node) (kernel.Solid, error)
}

// KernelEvaluator evaluates nodes with a kernel.Kernel. Results are
// memoized per node, so shared subtrees are computed once. It is safe for
// concurrent use.
type KernelEvaluator struct {
	tree     *graph.Tree
	k        kernel.Kernel
	log      *slog.Logger
	segments int

	mu   sync.Mutex
	memo map[graph.NodeID]kernel.Solid
}

// Option configures a KernelEvaluator.
type Option func(*KernelEvaluator)

// WithLogger sets the evaluator's logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *KernelEvaluator) {
		if l != nil {
			e.log = l
		}
	}
}

// WithSegments overrides DefaultSegments.
func WithSegments(n int) Option {
	return func(e *KernelEvaluator) {
		if n > 0 {
			e.segments = n
		}
	}
}

// New returns an evaluator for nodes of tree.
func New(tree *graph.Tree, k kernel.Kernel, opts ...Option) *KernelEvaluator {
	e := &KernelEvaluator{
		tree:     tree,
		k:        k,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		segments: DefaultSegments,
		memo:     make(map[graph.NodeID]kernel.Solid),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EvaluateGeometry returns the solid for n and everything below it.
// Disabled and background children are left out. Kernel panics are
// reported as errors.
func (e *KernelEvaluator) EvaluateGeometry(n *graph.Node) (s kernel.Solid, err error) {
	if n == nil {
		return nil, nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			s, err = nil, fmt.Errorf("geometry: kernel panic evaluating %s: %v", n.Label(), r)
		}
	}()
	return e.solid(n, make(map[graph.NodeID]bool))
}

// Evaluated reports how many nodes have a memoized result.
func (e *KernelEvaluator) Evaluated() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.memo)
}

func (e *KernelEvaluator) solid(n *graph.Node, onPath map[graph.NodeID]bool) (kernel.Solid, error) {
	if s, ok := e.memo[n.ID]; ok {
		return s, nil
	}
	if onPath[n.ID] {
		return nil, fmt.Errorf("geometry: cycle at %s", n.Label())
	}
	onPath[n.ID] = true
	defer delete(onPath, n.ID)

	var (
		s   kernel.Solid
		err error
	)
	switch n.Kind {
	case graph.NodePrimitive:
		s, err = e.primitive(n)
	case graph.NodeOperation:
		od, ok := n.Data.(graph.OperationData)
		if !ok {
			return nil, fmt.Errorf("%s: %w", n.Label(), ErrBadPayload)
		}
		s, err = e.combine(n, od.Op, onPath)
	case graph.NodeIntersection:
		s, err = e.combine(n, graph.OpIntersection, onPath)
	case graph.NodeTransform:
		s, err = e.transform(n, onPath)
	case graph.NodeAdvanced:
		s, err = e.advanced(n, onPath)
	default:
		// groups, lists, colors and render boundaries only compose
		s, err = e.combine(n, graph.OpUnion, onPath)
	}
	if err != nil {
		return nil, err
	}

	e.log.Debug("evaluated geometry", "node", n.Label(), "empty", s == nil)
	e.memo[n.ID] = s
	return s, nil
}

// children evaluates the contributing children of n in order, dropping
// the ones without geometry.
func (e *KernelEvaluator) children(n *graph.Node, onPath map[graph.NodeID]bool) ([]kernel.Solid, error) {
	var out []kernel.Solid
	for _, c := range e.tree.Children(n) {
		if c.Modifiers.Has(graph.ModDisable) || (c.Modifiers.Has(graph.ModBackground) && !c.Modifiers.Has(graph.ModHighlight)) {
			continue
		}
		s, err := e.solid(c, onPath)
		if err != nil {
			return nil, err
		}
		if s != nil {
			out = append(out, s)
		}
	}
	return out, nil
}

// combine folds n's children left to right under op.
func (e *KernelEvaluator) combine(n *graph.Node, op graph.Operator, onPath map[graph.NodeID]bool) (kernel.Solid, error) {
	solids, err := e.children(n, onPath)
	if err != nil || len(solids) == 0 {
		return nil, err
	}
	acc := solids[0]
	for _, s := range solids[1:] {
		switch op {
		case graph.OpUnion:
			acc = e.k.Union(acc, s)
		case graph.OpIntersection:
			acc = e.k.Intersection(acc, s)
		case graph.OpDifference:
			acc = e.k.Difference(acc, s)
		default:
			return nil, fmt.Errorf("%s: unknown operator %s", n.Label(), op)
		}
	}
	return acc, nil
}

func (e *KernelEvaluator) primitive(n *graph.Node) (kernel.Solid, error) {
	switch d := n.Data.(type) {
	case graph.CubeData:
		s := e.k.Box(d.Size.X, d.Size.Y, d.Size.Z)
		if d.Center {
			s = e.k.Translate(s, -d.Size.X/2, -d.Size.Y/2, -d.Size.Z/2)
		}
		return s, nil
	case graph.CylinderData:
		s := e.k.Cylinder(d.Height, d.Radius1, d.Radius2, e.segs(d.Segments))
		if !d.Center {
			s = e.k.Translate(s, 0, 0, d.Height/2)
		}
		return s, nil
	case graph.SphereData:
		return e.k.Sphere(d.Radius, e.segs(d.Segments)), nil
	default:
		return nil, fmt.Errorf("primitive %s has data %T: %w", n.Label(), n.Data, ErrBadPayload)
	}
}

func (e *KernelEvaluator) segs(n int) int {
	if n > 0 {
		return n
	}
	return e.segments
}

// transform applies scale, then rotation, then translation to the union
// of n's children.
func (e *KernelEvaluator) transform(n *graph.Node, onPath map[graph.NodeID]bool) (kernel.Solid, error) {
	td, ok := n.Data.(graph.TransformData)
	if !ok {
		return nil, fmt.Errorf("transform %s has data %T: %w", n.Label(), n.Data, ErrBadPayload)
	}
	s, err := e.combine(n, graph.OpUnion, onPath)
	if err != nil || s == nil {
		return nil, err
	}
	return ApplyTransform(e.k, s, td), nil
}

// ApplyTransform places s with td using k.
func ApplyTransform(k kernel.Kernel, s kernel.Solid, td graph.TransformData) kernel.Solid {
	if v := td.Scale; v != nil && *v != (graph.Vec3{X: 1, Y: 1, Z: 1}) {
		s = k.Scale(s, v.X, v.Y, v.Z)
	}
	if v := td.Rotation; v != nil && !v.IsZero() {
		s = k.Rotate(s, v.X, v.Y, v.Z)
	}
	if v := td.Translation; v != nil && !v.IsZero() {
		s = k.Translate(s, v.X, v.Y, v.Z)
	}
	return s
}
