package csg

import (
	"slices"

	"github.com/chazu/csgtree/pkg/graph"
)

// applyBackgroundAndHighlight routes n's contribution according to its
// modifiers and reports whether it still takes part in the parent
// combination. Highlighted terms are listed and combined; background terms
// are listed only. When both modifiers are present highlight wins. A node
// reached through several parents shares one cached term, which is listed
// once.
// Disabled nodes never get here and the root modifier is resolved before
// the traversal starts.
func (b *Builder) applyBackgroundAndHighlight(st state, n *graph.Node, e cacheEntry) bool {
	switch {
	case n.Modifiers.Has(graph.ModHighlight):
		b.highlights = appendOnce(b.highlights, e.term)
		return true
	case n.Modifiers.Has(graph.ModBackground):
		b.backgrounds = appendOnce(b.backgrounds, e.term)
		b.log.Debug("background node kept out of combination", "node", n.Label(), "depth", len(st.path))
		return false
	}
	return true
}

func appendOnce(terms []*Term, t *Term) []*Term {
	if t == nil || slices.Contains(terms, t) {
		return terms
	}
	return append(terms, t)
}
