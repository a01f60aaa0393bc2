package geometry

import (
	"fmt"

	"github.com/chazu/csgtree/pkg/graph"
	"github.com/chazu/csgtree/pkg/kernel"
)

// advanced evaluates hull, minkowski and resize nodes. Hull and minkowski
// need a kernel.AdvancedKernel; resize only needs bounding boxes.
func (e *KernelEvaluator) advanced(n *graph.Node, onPath map[graph.NodeID]bool) (kernel.Solid, error) {
	ad, ok := n.Data.(graph.AdvancedData)
	if !ok {
		return nil, fmt.Errorf("advanced node %s has data %T: %w", n.Label(), n.Data, ErrBadPayload)
	}

	switch ad.Op {
	case graph.AdvResize:
		s, err := e.combine(n, graph.OpUnion, onPath)
		if err != nil || s == nil {
			return nil, err
		}
		if ad.NewSize == nil {
			return s, nil
		}
		return resize(e.k, s, *ad.NewSize), nil

	case graph.AdvHull, graph.AdvMinkowski:
		solids, err := e.children(n, onPath)
		if err != nil || len(solids) == 0 {
			return nil, err
		}
		ak, ok := e.k.(kernel.AdvancedKernel)
		if !ok {
			e.log.Warn("kernel cannot evaluate advanced operation", "node", n.Label(), "op", ad.Op)
			return nil, fmt.Errorf("%s: %w", ad.Op, kernel.ErrUnsupported)
		}
		if ad.Op == graph.AdvHull {
			return ak.Hull(solids...)
		}
		acc := solids[0]
		for _, s := range solids[1:] {
			if acc, err = ak.Minkowski(acc, s); err != nil {
				return nil, err
			}
		}
		return acc, nil

	default:
		return nil, fmt.Errorf("%s: unknown advanced operation %s", n.Label(), ad.Op)
	}
}

// resize scales s so its bounding box has the given extent. A zero
// component leaves that axis unchanged.
func resize(k kernel.Kernel, s kernel.Solid, size graph.Vec3) kernel.Solid {
	min, max := s.BoundingBox()
	factor := func(want float64, axis int) float64 {
		extent := max[axis] - min[axis]
		if want <= 0 || extent <= 0 {
			return 1
		}
		return want / extent
	}
	fx, fy, fz := factor(size.X, 0), factor(size.Y, 1), factor(size.Z, 2)
	if fx == 1 && fy == 1 && fz == 1 {
		return s
	}
	return k.Scale(s, fx, fy, fz)
}
