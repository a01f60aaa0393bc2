package geometry

import (
	"sync"

	"github.com/chazu/csgtree/pkg/graph"
	"github.com/chazu/csgtree/pkg/kernel"
)

// CountingEvaluator wraps an Evaluator and counts calls per node.
type CountingEvaluator struct {
	next Evaluator

	mu     sync.Mutex
	counts map[graph.NodeID]int
}

// Count wraps next.
func Count(next Evaluator) *CountingEvaluator {
	return &CountingEvaluator{next: next, counts: make(map[graph.NodeID]int)}
}

func (c *CountingEvaluator) EvaluateGeometry(n *graph.Node) (kernel.Solid, error) {
	c.mu.Lock()
	c.counts[n.ID]++
	c.mu.Unlock()
	return c.next.EvaluateGeometry(n)
}

// Calls returns how often id was evaluated.
func (c *CountingEvaluator) Calls(id graph.NodeID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[id]
}

// Total returns the number of calls across all nodes.
func (c *CountingEvaluator) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}
