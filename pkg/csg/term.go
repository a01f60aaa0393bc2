package csg

import (
	"strings"

	"github.com/chazu/csgtree/pkg/graph"
	"github.com/chazu/csgtree/pkg/kernel"
)

// TermKind distinguishes the shapes a Term can take.
type TermKind int

const (
	TermLeaf      TermKind = iota // concrete geometry
	TermOperation                 // binary set operation
	TermTransform                 // spatial transform of one child
	TermColor                     // appearance of one child
)

func (k TermKind) String() string {
	switch k {
	case TermLeaf:
		return "leaf"
	case TermOperation:
		return "operation"
	case TermTransform:
		return "transform"
	case TermColor:
		return "color"
	default:
		return "unknown"
	}
}

// Origin traces a term back to the modeling node that produced it.
type Origin struct {
	NodeID graph.NodeID   `json:"node_id" yaml:"node_id"`
	Label  string         `json:"label" yaml:"label"`
	Kind   graph.NodeKind `json:"kind" yaml:"kind"`
	Path   []graph.NodeID `json:"path,omitempty" yaml:"path,omitempty"` // ancestors, outermost first
	Line   int            `json:"line,omitempty" yaml:"line,omitempty"`
}

// Term is one node of the CSG term tree. Terms are never mutated after
// construction, so any number of holders may share one.
type Term struct {
	kind      TermKind
	op        graph.Operator
	left      *Term
	right     *Term
	child     *Term
	transform graph.TransformData
	color     graph.Color
	geometry  kernel.Solid
	origin    Origin
}

// NewLeaf wraps concrete geometry.
func NewLeaf(geom kernel.Solid, origin Origin) *Term {
	return &Term{kind: TermLeaf, geometry: geom, origin: origin}
}

// NewOperation combines two terms under op.
func NewOperation(op graph.Operator, left, right *Term) *Term {
	return &Term{kind: TermOperation, op: op, left: left, right: right}
}

// NewTransform places child with td.
func NewTransform(td graph.TransformData, child *Term, origin Origin) *Term {
	return &Term{kind: TermTransform, transform: td, child: child, origin: origin}
}

// NewColor paints child with c.
func NewColor(c graph.Color, child *Term, origin Origin) *Term {
	return &Term{kind: TermColor, color: c, child: child, origin: origin}
}

func (t *Term) Kind() TermKind                 { return t.kind }
func (t *Term) Op() graph.Operator             { return t.op }
func (t *Term) Left() *Term                    { return t.left }
func (t *Term) Right() *Term                   { return t.right }
func (t *Term) Child() *Term                   { return t.child }
func (t *Term) Transform() graph.TransformData { return t.transform }
func (t *Term) Color() graph.Color             { return t.color }
func (t *Term) Geometry() kernel.Solid         { return t.geometry }
func (t *Term) Origin() Origin                 { return t.origin }

// Leaves returns the leaf terms in left-to-right order.
func (t *Term) Leaves() []*Term {
	var out []*Term
	var walk func(*Term)
	walk = func(n *Term) {
		switch n.kind {
		case TermLeaf:
			out = append(out, n)
		case TermOperation:
			walk(n.left)
			walk(n.right)
		default:
			walk(n.child)
		}
	}
	if t != nil {
		walk(t)
	}
	return out
}

// Depth returns the height of the term; a leaf has depth 1.
func (t *Term) Depth() int {
	if t == nil {
		return 0
	}
	switch t.kind {
	case TermLeaf:
		return 1
	case TermOperation:
		return 1 + max(t.left.Depth(), t.right.Depth())
	default:
		return 1 + t.child.Depth()
	}
}

// String renders the term as a nested expression, for example
// union(cube(1), translate(difference(cylinder(2), sphere(3)))).
// Leaves print as their origin label and wrappers as the name of the node
// that produced them.
func (t *Term) String() string {
	if t == nil {
		return "<empty>"
	}
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *Term) write(b *strings.Builder) {
	switch t.kind {
	case TermLeaf:
		b.WriteString(t.origin.Label)
	case TermOperation:
		b.WriteString(t.op.String())
		b.WriteByte('(')
		t.left.write(b)
		b.WriteString(", ")
		t.right.write(b)
		b.WriteByte(')')
	default:
		b.WriteString(wrapperName(t))
		b.WriteByte('(')
		t.child.write(b)
		b.WriteByte(')')
	}
}

// wrapperName is the authored name of a transform or color node, falling
// back to the term kind for synthesized wrappers.
func wrapperName(t *Term) string {
	label := t.origin.Label
	if i := strings.IndexByte(label, '('); i > 0 {
		return label[:i]
	}
	if label != "" {
		return label
	}
	return t.kind.String()
}
