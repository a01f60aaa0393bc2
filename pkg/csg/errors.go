package csg

import "errors"

var (
	// ErrUnknownOperator is returned when an operator outside the known set
	// reaches the operator applier.
	ErrUnknownOperator = errors.New("csg: unknown operator")

	// ErrBadPayload is returned when a transform or color node carries data
	// of another kind.
	ErrBadPayload = errors.New("csg: node data does not match kind")

	// ErrUnregisteredNode is returned when a term is requested for a node the
	// traversal never registered.
	ErrUnregisteredNode = errors.New("csg: term requested for unregistered node")

	// ErrCyclicTree is returned when a node is reached again while it is
	// still being visited.
	ErrCyclicTree = errors.New("csg: modeling tree contains a cycle")

	// ErrBuilderReused is returned when BuildCSGTree is called twice on the
	// same Builder.
	ErrBuilderReused = errors.New("csg: builder already used")
)
