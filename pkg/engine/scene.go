package engine

import "github.com/chazu/csgtree/pkg/graph"

// scene accumulates the nodes instantiated by one evaluation.
type scene struct {
	tree     *graph.Tree
	order    []graph.NodeID
	consumed map[graph.NodeID]bool
}

func newScene() *scene {
	return &scene{
		tree:     graph.New(),
		consumed: make(map[graph.NodeID]bool),
	}
}

// add stores n and marks its children as consumed.
func (s *scene) add(n *graph.Node) *sexpNodeRef {
	s.tree.Add(n)
	s.order = append(s.order, n.ID)
	for _, c := range n.Children {
		s.consumed[c] = true
	}
	return &sexpNodeRef{id: n.ID, name: n.Name}
}

// withModifiers instantiates a copy of node id carrying extra modifiers.
// The original stays usable without them.
func (s *scene) withModifiers(id graph.NodeID, m graph.Modifiers) *sexpNodeRef {
	orig := s.tree.Get(id)
	n := &graph.Node{
		Kind:      orig.Kind,
		Name:      orig.Name,
		Source:    orig.Source,
		Modifiers: orig.Modifiers | m,
		Children:  append([]graph.NodeID(nil), orig.Children...),
		Data:      orig.Data,
	}
	s.consumed[id] = true
	return s.add(n)
}

// finish wraps every node no other node consumed in an implicit root
// group, in instantiation order, and drops nodes that only served as the
// template for a modifier copy. A source that instantiates nothing yields
// an empty tree.
func (s *scene) finish() *graph.Tree {
	var top []graph.NodeID
	for _, id := range s.order {
		if !s.consumed[id] {
			top = append(top, id)
		}
	}
	if len(top) == 0 {
		return s.tree
	}
	root := &graph.Node{
		Kind:     graph.NodeGroup,
		Name:     "group",
		Children: top,
		Data:     graph.GroupData{Description: "top level"},
	}
	s.tree.SetRoot(s.tree.Add(root))
	s.tree.Prune()
	return s.tree
}
