// Package graph defines the modeling-node tree consumed by the CSG builder.
// A tree is produced once by script evaluation and is read-only afterwards;
// nodes may be shared by several parents (shared sub-instantiation), so the
// structure is a DAG keyed by stable integer identities.
package graph
