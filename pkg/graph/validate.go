package graph

import "fmt"

// ValidationSeverity indicates whether a validation finding blocks evaluation
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks evaluation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID             // which node has the problem (zero if tree-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID, e.Message)
}

// HasErrors reports whether any finding has error severity.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate runs the structural and geometric checks on the tree and returns
// every finding. An empty slice means the tree is valid. Validate is
// read-only and never mutates the tree.
func Validate(t *Tree) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateDAG(t)...)
	errs = append(errs, validateReferences(t)...)
	errs = append(errs, validateRoot(t)...)
	errs = append(errs, validateData(t)...)
	errs = append(errs, validateGeometry(t)...)
	errs = append(errs, validateModifiers(t)...)
	return errs
}

// validateDAG checks for cycles using DFS with 3-color marking.
// White (0) = unvisited, gray (1) = in current DFS path, black (2) = fully explored.
// If we encounter a gray node during traversal, we have found a cycle.
func validateDAG(t *Tree) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[NodeID]int) // default zero = white
	var errs []ValidationError

	var visit func(id NodeID) bool // returns true if cycle found
	visit = func(id NodeID) bool {
		switch color[id] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("cycle detected: node %s is part of a cycle", id),
				Severity: SeverityError,
			})
			return true
		}

		color[id] = gray

		node, ok := t.Nodes[id]
		if !ok {
			// Dangling reference; handled by validateReferences.
			color[id] = black
			return false
		}

		for _, childID := range node.Children {
			if visit(childID) {
				return true
			}
		}

		color[id] = black
		return false
	}

	// Start DFS from every node to catch disconnected components. Iterate in
	// id order so the reported node is deterministic.
	for id := NodeID(1); id <= t.next; id++ {
		if _, ok := t.Nodes[id]; !ok {
			continue
		}
		if color[id] == white {
			if visit(id) {
				// One cycle error is sufficient; stop early.
				break
			}
		}
	}

	return errs
}

// validateReferences checks that every child id points to a node that
// actually exists in t.Nodes.
func validateReferences(t *Tree) []ValidationError {
	var errs []ValidationError

	for _, node := range t.Nodes {
		for _, childID := range node.Children {
			if _, ok := t.Nodes[childID]; !ok {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("child reference %s does not exist", childID),
					Severity: SeverityError,
				})
			}
		}
	}

	return errs
}

// validateRoot checks that a non-empty tree has an existing root and warns
// about orphan nodes (nodes unreachable from the root).
func validateRoot(t *Tree) []ValidationError {
	var errs []ValidationError

	if len(t.Nodes) == 0 {
		return errs
	}
	if _, ok := t.Nodes[t.Root]; !ok {
		errs = append(errs, ValidationError{
			Message:  fmt.Sprintf("root reference %s does not exist", t.Root),
			Severity: SeverityError,
		})
		return errs
	}

	// Orphan detection: BFS from the root through Children edges.
	reachable := map[NodeID]bool{t.Root: true}
	queue := []NodeID{t.Root}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node := t.Nodes[current]
		if node == nil {
			continue
		}
		for _, childID := range node.Children {
			if !reachable[childID] {
				reachable[childID] = true
				queue = append(queue, childID)
			}
		}
	}

	for id, node := range t.Nodes {
		if !reachable[id] {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("node %q is not reachable from the root (orphan)", node.Label()),
				Severity: SeverityWarning,
			})
		}
	}

	return errs
}

// validateData checks that every node carries the payload its kind
// requires and that operator payloads name known operators.
func validateData(t *Tree) []ValidationError {
	var errs []ValidationError

	for _, node := range t.Nodes {
		ok := true
		switch node.Kind {
		case NodePrimitive:
			switch node.Data.(type) {
			case CubeData, CylinderData, SphereData:
			default:
				ok = false
			}
			if len(node.Children) > 0 {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  "primitive node has children; they are ignored",
					Severity: SeverityWarning,
				})
			}
		case NodeOperation:
			od, isOp := node.Data.(OperationData)
			ok = isOp
			if isOp && !od.Op.Valid() {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("unknown set operator %s", od.Op),
					Severity: SeverityError,
				})
			}
		case NodeAdvanced:
			ad, isAdv := node.Data.(AdvancedData)
			ok = isAdv
			if isAdv && !ad.Op.Valid() {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("unknown advanced operator %s", ad.Op),
					Severity: SeverityError,
				})
			}
		case NodeTransform:
			_, ok = node.Data.(TransformData)
		case NodeColor:
			_, ok = node.Data.(ColorData)
		}
		if !ok {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("%s node has unexpected data type %T", node.Kind, node.Data),
				Severity: SeverityError,
			})
		}
	}

	return errs
}
