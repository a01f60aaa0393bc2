package csg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/csgtree/pkg/graph"
)

func leaf(label string) *Term {
	return NewLeaf(fakeSolid{}, Origin{Label: label})
}

func TestFold(t *testing.T) {
	a, b, c := leaf("a"), leaf("b"), leaf("c")

	tests := []struct {
		name  string
		op    graph.Operator
		terms []*Term
		want  string
	}{
		{"zero terms", graph.OpUnion, nil, "<empty>"},
		{"one term", graph.OpDifference, []*Term{a}, "a"},
		{"two terms", graph.OpIntersection, []*Term{a, b}, "intersection(a, b)"},
		{"left fold", graph.OpDifference, []*Term{a, b, c}, "difference(difference(a, b), c)"},
		{"order preserved", graph.OpUnion, []*Term{c, a, b}, "union(union(c, a), b)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Fold(tt.op, tt.terms)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestFoldSingleTermIsSamePointer(t *testing.T) {
	a := leaf("a")
	got, err := Fold(graph.OpUnion, []*Term{a})
	require.NoError(t, err)
	assert.Same(t, a, got)
}

func TestFoldUnknownOperator(t *testing.T) {
	for _, op := range []graph.Operator{-1, 3, 99} {
		_, err := Fold(op, []*Term{leaf("a"), leaf("b")})
		assert.ErrorIs(t, err, ErrUnknownOperator, "op %d", int(op))
	}
}
