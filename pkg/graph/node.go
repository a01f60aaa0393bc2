package graph

import (
	"strconv"
	"strings"
)

// NodeKind enumerates the kinds of modeling nodes. The CSG builder
// dispatches on the kind with a single switch.
type NodeKind int

const (
	NodeGroup        NodeKind = iota // generic container, implicit union
	NodeIntersection                 // intersection across all children
	NodePrimitive                    // produces geometry directly (cube, sphere)
	NodeList                         // splices its children into the parent
	NodeOperation                    // explicit set operator
	NodeTransform                    // spatial transformation
	NodeColor                        // appearance
	NodeRender                       // render boundary, forces evaluation
	NodeAdvanced                     // hull, minkowski, resize
)

func (k NodeKind) String() string {
	switch k {
	case NodeGroup:
		return "group"
	case NodeIntersection:
		return "intersection_for"
	case NodePrimitive:
		return "primitive"
	case NodeList:
		return "list"
	case NodeOperation:
		return "operation"
	case NodeTransform:
		return "transform"
	case NodeColor:
		return "color"
	case NodeRender:
		return "render"
	case NodeAdvanced:
		return "advanced"
	default:
		return "unknown"
	}
}

// Modifiers are per-node authoring annotations that change how a node's
// result is surfaced rather than what geometry it computes.
type Modifiers uint8

const (
	ModBackground Modifiers = 1 << iota // %  shown transparently, not combined
	ModHighlight                        // #  shown highlighted, still combined
	ModDisable                          // *  removed entirely
	ModRoot                             // !  replaces the whole tree
)

// Has reports whether all bits of m2 are set in m.
func (m Modifiers) Has(m2 Modifiers) bool {
	return m&m2 == m2
}

func (m Modifiers) String() string {
	var b strings.Builder
	if m.Has(ModDisable) {
		b.WriteByte('*')
	}
	if m.Has(ModRoot) {
		b.WriteByte('!')
	}
	if m.Has(ModHighlight) {
		b.WriteByte('#')
	}
	if m.Has(ModBackground) {
		b.WriteByte('%')
	}
	return b.String()
}

// SourceRef points back at the script location that instantiated a node.
type SourceRef struct {
	Line int    `json:"line,omitempty"`
	Expr string `json:"expr,omitempty"`
}

// Node is one instantiated modeling operation.
type Node struct {
	ID        NodeID    `json:"id"`
	Kind      NodeKind  `json:"kind"`
	Name      string    `json:"name,omitempty"`
	Source    SourceRef `json:"source"`
	Modifiers Modifiers `json:"modifiers,omitempty"`
	Children  []NodeID  `json:"children,omitempty"`
	Data      NodeData  `json:"data"`
}

// Label returns the node's display name in the form name(id), the form
// used for leaf terms and diagnostics.
func (n *Node) Label() string {
	name := n.Name
	if name == "" {
		name = n.Kind.String()
	}
	return name + "(" + strconv.Itoa(int(n.ID)) + ")"
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}
