package graph

import "fmt"

// Tree is the modeling-node tree produced by script evaluation.
// It is never mutated once handed to a consumer.
type Tree struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Root      NodeID            `json:"root"`
	NameIndex map[string]NodeID `json:"name_index"`

	next NodeID
}

// New creates an empty Tree.
func New() *Tree {
	return &Tree{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
	}
}

// Add assigns the next identity to n and stores it. The assigned id is
// returned for convenience.
func (t *Tree) Add(n *Node) NodeID {
	t.next++
	n.ID = t.next
	t.Nodes[n.ID] = n
	if n.Name != "" {
		if _, taken := t.NameIndex[n.Name]; !taken {
			t.NameIndex[n.Name] = n.ID
		}
	}
	return n.ID
}

// SetRoot registers the traversal root.
func (t *Tree) SetRoot(id NodeID) {
	t.Root = id
}

// RootNode returns the root node, or nil for an empty tree.
func (t *Tree) RootNode() *Node {
	return t.Nodes[t.Root]
}

// Lookup returns the first node registered under name, or nil.
func (t *Tree) Lookup(name string) *Node {
	id, ok := t.NameIndex[name]
	if !ok {
		return nil
	}
	return t.Nodes[id]
}

// MustLookup returns the node with the given name, or panics.
func (t *Tree) MustLookup(name string) *Node {
	n := t.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("graph: no node named %q", name))
	}
	return n
}

// Get returns the node with the given ID, or nil.
func (t *Tree) Get(id NodeID) *Node {
	return t.Nodes[id]
}

// Children returns the child nodes of n in declaration order, skipping
// dangling references.
func (t *Tree) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := t.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// NodeCount returns the total number of nodes.
func (t *Tree) NodeCount() int {
	return len(t.Nodes)
}

// Walk visits every node reachable from the root in depth-first
// pre-order. Shared nodes are visited once per path. Walk stops descending
// below a node when fn returns false. Cycles are not detected; run
// Validate first on untrusted trees.
func (t *Tree) Walk(fn func(n *Node, depth int) bool) {
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		if !fn(n, depth) {
			return
		}
		for _, c := range t.Children(n) {
			visit(c, depth+1)
		}
	}
	if root := t.RootNode(); root != nil {
		visit(root, 0)
	}
}

// Prune removes every node that is not reachable from the root and
// returns how many were removed. Names of removed nodes are dropped from
// the name index, or re-pointed at the first surviving node of that name.
func (t *Tree) Prune() int {
	reachable := make(map[NodeID]bool)
	var mark func(id NodeID)
	mark = func(id NodeID) {
		n := t.Nodes[id]
		if n == nil || reachable[id] {
			return
		}
		reachable[id] = true
		for _, c := range n.Children {
			mark(c)
		}
	}
	mark(t.Root)

	removed := 0
	for id := range t.Nodes {
		if !reachable[id] {
			delete(t.Nodes, id)
			removed++
		}
	}
	if removed == 0 {
		return 0
	}

	t.NameIndex = make(map[string]NodeID)
	for id := NodeID(1); id <= t.next; id++ {
		if n := t.Nodes[id]; n != nil && n.Name != "" {
			if _, taken := t.NameIndex[n.Name]; !taken {
				t.NameIndex[n.Name] = id
			}
		}
	}
	return removed
}
