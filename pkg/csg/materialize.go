package csg

import (
	"fmt"

	"github.com/chazu/csgtree/pkg/graph"
)

// evaluateCSGNodeFromGeometry asks the geometry evaluator for n's geometry
// and wraps it as a leaf. Without an evaluator, or when evaluation fails or
// yields nothing, n contributes no term.
func (b *Builder) evaluateCSGNodeFromGeometry(st state, n *graph.Node) (*Term, error) {
	if b.evaluator == nil {
		return nil, nil
	}
	b.evalRuns++
	geom, err := b.evaluator.EvaluateGeometry(n)
	if err != nil {
		b.warn(fmt.Sprintf("%s: geometry evaluation failed: %v", n.Label(), err), "node", n.Label(), "err", err)
		return nil, nil
	}
	if geom == nil {
		b.log.Debug("node produced no geometry", "node", n.Label())
		return nil, nil
	}
	return NewLeaf(geom, b.origin(st, n)), nil
}
