package csg

import "github.com/chazu/csgtree/pkg/graph"

// childTable tracks, per node currently being visited, the children that
// have completed and registered with it, in completion order.
type childTable map[graph.NodeID][]*graph.Node

// track appends child to parent's list.
func (ct childTable) track(parent graph.NodeID, child *graph.Node) {
	ct[parent] = append(ct[parent], child)
}

// take removes and returns parent's list.
func (ct childTable) take(parent graph.NodeID) []*graph.Node {
	children := ct[parent]
	delete(ct, parent)
	return children
}
