package csg

import "github.com/chazu/csgtree/pkg/graph"

// phase says which side of a node a visit is on.
type phase int

const (
	entering phase = iota
	leaving
)

func (p phase) String() string {
	if p == entering {
		return "enter"
	}
	return "leave"
}

// Response is a visit's directive to the traversal controller.
type Response int

const (
	Continue Response = iota // recurse into children
	Prune                    // skip children
)

// state is the traversal state of one path through the tree. It is passed
// by value so siblings never observe each other's changes.
type state struct {
	phase  phase
	parent *graph.Node
	path   []graph.NodeID // ancestors, outermost first
}

func (s state) isPrefix() bool  { return s.phase == entering }
func (s state) isPostfix() bool { return s.phase == leaving }

// at returns the state for visiting n's side p.
func (s state) at(p phase) state {
	s.phase = p
	return s
}

// descend returns the state for the children of n.
func (s state) descend(n *graph.Node) state {
	path := make([]graph.NodeID, len(s.path), len(s.path)+1)
	copy(path, s.path)
	return state{phase: entering, parent: n, path: append(path, n.ID)}
}
