package csg

import (
	"fmt"

	"github.com/chazu/csgtree/pkg/graph"
)

// Fold combines terms under op as a left fold: ((t0 op t1) op t2) ...
// Operand order is preserved exactly, which matters for difference where
// t0 is the minuend and every later term is subtracted in sequence. One
// term is returned unchanged and zero terms yield nil.
func Fold(op graph.Operator, terms []*Term) (*Term, error) {
	if !op.Valid() {
		return nil, fmt.Errorf("fold %s: %w", op, ErrUnknownOperator)
	}
	if len(terms) == 0 {
		return nil, nil
	}
	acc := terms[0]
	for _, t := range terms[1:] {
		acc = NewOperation(op, acc, t)
	}
	return acc, nil
}
