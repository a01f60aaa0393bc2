// Package csg builds a normalized CSG term tree from a modeling-node tree.
//
// A Builder walks the tree depth first, visiting every node on entry and on
// exit. Leaves (primitives, render boundaries and advanced operations) are
// materialized through a GeometryEvaluator; everything else folds the terms
// of its children left to right under the node's operator, or wraps them in
// a transform or color term. Background and highlight modifiers route terms
// into separate result lists, disabled nodes are pruned, and a root modifier
// replaces the whole result with one node's term.
//
// Terms are immutable and shared by pointer: a subtree reached through
// several instantiation paths is computed once and referenced everywhere.
package csg
