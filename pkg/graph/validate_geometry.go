package graph

import "fmt"

// ---------------------------------------------------------------------------
// Geometric checks
// ---------------------------------------------------------------------------

// validateGeometry checks primitive dimensions and flags composition nodes
// that cannot contribute anything.
func validateGeometry(t *Tree) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateDimensions(t)...)
	errs = append(errs, validateEmptyOperators(t)...)
	return errs
}

// validateDimensions checks that every primitive has positive extents.
func validateDimensions(t *Tree) []ValidationError {
	var errs []ValidationError

	bad := func(n *Node, what string, v float64) {
		errs = append(errs, ValidationError{
			NodeID:   n.ID,
			Message:  fmt.Sprintf("%s %s is %.4f, must be positive", n.Name, what, v),
			Severity: SeverityError,
		})
	}

	for _, node := range t.Nodes {
		switch d := node.Data.(type) {
		case CubeData:
			if d.Size.X <= 0 {
				bad(node, "size X", d.Size.X)
			}
			if d.Size.Y <= 0 {
				bad(node, "size Y", d.Size.Y)
			}
			if d.Size.Z <= 0 {
				bad(node, "size Z", d.Size.Z)
			}
		case CylinderData:
			if d.Height <= 0 {
				bad(node, "height", d.Height)
			}
			if d.Radius1 < 0 || d.Radius2 < 0 || (d.Radius1 == 0 && d.Radius2 == 0) {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("cylinder radii (%.4f, %.4f) must be non-negative and not both zero", d.Radius1, d.Radius2),
					Severity: SeverityError,
				})
			}
		case SphereData:
			if d.Radius <= 0 {
				bad(node, "radius", d.Radius)
			}
		case TransformData:
			if d.Scale != nil && (d.Scale.X == 0 || d.Scale.Y == 0 || d.Scale.Z == 0) {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("scale %s collapses a dimension", d.Scale),
					Severity: SeverityWarning,
				})
			}
		}
	}

	return errs
}

// validateEmptyOperators warns about operator nodes without children; they
// produce no term.
func validateEmptyOperators(t *Tree) []ValidationError {
	var errs []ValidationError

	for _, node := range t.Nodes {
		switch node.Kind {
		case NodeOperation, NodeIntersection, NodeAdvanced:
		default:
			continue
		}
		if len(node.Children) == 0 {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("%s has no children and produces nothing", node.Label()),
				Severity: SeverityWarning,
			})
		}
	}

	return errs
}

// ---------------------------------------------------------------------------
// Modifier checks
// ---------------------------------------------------------------------------

// validateModifiers reports modifier combinations that are legal but
// probably not what the author meant.
func validateModifiers(t *Tree) []ValidationError {
	var errs []ValidationError

	roots := RootOverrides(t)
	if len(roots) > 1 {
		errs = append(errs, ValidationError{
			NodeID: roots[len(roots)-1].ID,
			Message: fmt.Sprintf("root modifier used %d times; using the last one (%s)",
				len(roots), roots[len(roots)-1].Label()),
			Severity: SeverityWarning,
		})
	}

	for _, node := range t.Nodes {
		if node.Modifiers.Has(ModDisable) && node.Modifiers&(ModHighlight|ModBackground|ModRoot) != 0 {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("node is disabled; modifiers %q have no effect", node.Modifiers),
				Severity: SeverityWarning,
			})
		}
	}

	return errs
}

// RootOverrides returns the nodes carrying the root modifier in the order a
// depth-first traversal from the tree root leaves them. Disabled subtrees
// are skipped, and a node shared by several parents is reported once.
func RootOverrides(t *Tree) []*Node {
	return RootOverridesFrom(t, t.RootNode())
}

// RootOverridesFrom is RootOverrides for the subtree below start.
func RootOverridesFrom(t *Tree, start *Node) []*Node {
	var found []*Node
	explored := make(map[NodeID]bool)
	onPath := make(map[NodeID]bool)

	var visit func(n *Node)
	visit = func(n *Node) {
		if n.Modifiers.Has(ModDisable) || onPath[n.ID] || explored[n.ID] {
			return
		}
		onPath[n.ID] = true
		for _, c := range t.Children(n) {
			visit(c)
		}
		onPath[n.ID] = false
		explored[n.ID] = true
		if n.Modifiers.Has(ModRoot) {
			found = append(found, n)
		}
	}
	if start != nil {
		visit(start)
	}
	return found
}
