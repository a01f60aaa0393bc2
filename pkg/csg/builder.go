package csg

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/chazu/csgtree/pkg/graph"
	"github.com/chazu/csgtree/pkg/kernel"
)

// GeometryEvaluator produces concrete geometry for one modeling node,
// including any subtree the node needs. A nil solid with a nil error means
// the node has no geometry.
type GeometryEvaluator interface {
	EvaluateGeometry(n *graph.Node) (kernel.Solid, error)
}

// Result is everything one traversal produced.
type Result struct {
	Root        *Term
	Highlights  []*Term
	Backgrounds []*Term
	Warnings    []string
}

// Builder turns a modeling-node tree into a CSG term tree. A Builder holds
// the state of exactly one traversal; create a new one per tree.
type Builder struct {
	tree      *graph.Tree
	evaluator GeometryEvaluator
	log       *slog.Logger

	visited  childTable
	cache    *termCache
	onPath   map[graph.NodeID]bool
	built    bool
	evalRuns int

	root        *Term
	highlights  []*Term
	backgrounds []*Term
	warnings    []string
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for traversal diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.log = l
		}
	}
}

// NewBuilder returns a Builder over tree. evaluator may be nil, in which
// case nodes that need geometry contribute nothing.
func NewBuilder(tree *graph.Tree, evaluator GeometryEvaluator, opts ...Option) *Builder {
	b := &Builder{
		tree:      tree,
		evaluator: evaluator,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		visited:   make(childTable),
		cache:     newTermCache(),
		onPath:    make(map[graph.NodeID]bool),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildCSGTree traverses the tree below root and returns the root term,
// which is nil when nothing in the tree produces geometry. Highlight and
// background terms are available afterwards from the Builder.
//
// When a node below root carries the root modifier the traversal starts at
// that node instead; with several such nodes the last one left by a
// depth-first traversal wins and a warning is recorded.
func (b *Builder) BuildCSGTree(root *graph.Node) (*Term, error) {
	if b.built {
		return nil, ErrBuilderReused
	}
	b.built = true
	if root == nil {
		return nil, nil
	}

	start := b.selectRoot(root)
	if err := b.traverse(start, state{}); err != nil {
		return nil, err
	}

	b.log.Debug("csg tree built",
		"root", start.Label(),
		"terms", b.cache.len(),
		"cache_hits", b.cache.hits,
		"geometry_evaluations", b.evalRuns,
		"highlights", len(b.highlights),
		"backgrounds", len(b.backgrounds),
	)
	return b.root, nil
}

// RootTerm returns the root term of the last traversal.
func (b *Builder) RootTerm() *Term { return b.root }

// HighlightTerms returns highlighted terms in traversal order.
func (b *Builder) HighlightTerms() []*Term { return b.highlights }

// BackgroundTerms returns background terms in traversal order.
func (b *Builder) BackgroundTerms() []*Term { return b.backgrounds }

// Warnings returns the non-fatal findings of the traversal.
func (b *Builder) Warnings() []string { return b.warnings }

// Result bundles the result sets.
func (b *Builder) Result() Result {
	return Result{
		Root:        b.root,
		Highlights:  b.highlights,
		Backgrounds: b.backgrounds,
		Warnings:    b.warnings,
	}
}

// Build is a convenience wrapper running one traversal from the tree root.
func Build(tree *graph.Tree, evaluator GeometryEvaluator, opts ...Option) (Result, error) {
	b := NewBuilder(tree, evaluator, opts...)
	if _, err := b.BuildCSGTree(tree.RootNode()); err != nil {
		return Result{}, err
	}
	return b.Result(), nil
}

func (b *Builder) warn(msg string, args ...any) {
	b.warnings = append(b.warnings, msg)
	b.log.Warn(msg, args...)
}

// traverse performs the pre/post visitation of n and its subtree.
func (b *Builder) traverse(n *graph.Node, st state) error {
	if b.onPath[n.ID] {
		return fmt.Errorf("node %s: %w", n.Label(), ErrCyclicTree)
	}

	resp, err := b.visit(st.at(entering), n)
	if err != nil {
		return err
	}
	if resp == Continue {
		b.onPath[n.ID] = true
		child := st.descend(n)
		for _, c := range b.tree.Children(n) {
			if err := b.traverse(c, child); err != nil {
				return err
			}
		}
		b.onPath[n.ID] = false
	}
	if n.Modifiers.Has(graph.ModDisable) {
		return nil
	}
	_, err = b.visit(st.at(leaving), n)
	return err
}

// visit dispatches one side of a node visit by node kind.
func (b *Builder) visit(st state, n *graph.Node) (Response, error) {
	if st.isPrefix() {
		return b.enter(st, n), nil
	}

	e, cached := b.cache.get(n.ID)
	if cached {
		b.cache.hits++
		b.log.Debug("term cache hit", "node", n.Label())
	} else {
		var err error
		if e, err = b.leave(st, n); err != nil {
			return Continue, err
		}
		b.cache.put(n.ID, e)
	}

	if b.applyBackgroundAndHighlight(st, n, e) {
		b.addToParent(st, n, e)
	}
	return Continue, nil
}

// enter decides whether n's children are visited.
func (b *Builder) enter(st state, n *graph.Node) Response {
	if n.Modifiers.Has(graph.ModDisable) {
		b.log.Debug("pruned disabled node", "node", n.Label())
		return Prune
	}
	if _, ok := b.cache.get(n.ID); ok {
		return Prune
	}
	if n.Kind == graph.NodePrimitive {
		return Prune
	}
	return Continue
}

// leave computes n's own contribution from its completed children.
func (b *Builder) leave(st state, n *graph.Node) (cacheEntry, error) {
	children, err := b.childTerms(n)
	if err != nil {
		return cacheEntry{}, err
	}

	var t *Term
	switch n.Kind {
	case graph.NodePrimitive:
		t, err = b.evaluateCSGNodeFromGeometry(st, n)

	case graph.NodeOperation:
		od, ok := n.Data.(graph.OperationData)
		if !ok {
			return cacheEntry{}, fmt.Errorf("operation node %s has data %T: %w", n.Label(), n.Data, ErrUnknownOperator)
		}
		t, err = Fold(od.Op, children)

	case graph.NodeIntersection:
		t, err = Fold(graph.OpIntersection, children)

	case graph.NodeList:
		if st.parent != nil && n.Modifiers&(graph.ModBackground|graph.ModHighlight|graph.ModRoot) == 0 {
			return cacheEntry{spread: children, splice: true}, nil
		}
		t, err = Fold(graph.OpUnion, children)

	case graph.NodeTransform:
		td, ok := n.Data.(graph.TransformData)
		if !ok {
			return cacheEntry{}, fmt.Errorf("transform node %s has data %T: %w", n.Label(), n.Data, ErrBadPayload)
		}
		if t, err = Fold(graph.OpUnion, children); t != nil {
			t = NewTransform(td, t, b.origin(st, n))
		}

	case graph.NodeColor:
		cd, ok := n.Data.(graph.ColorData)
		if !ok {
			return cacheEntry{}, fmt.Errorf("color node %s has data %T: %w", n.Label(), n.Data, ErrBadPayload)
		}
		if t, err = Fold(graph.OpUnion, children); t != nil {
			t = NewColor(cd.Color, t, b.origin(st, n))
		}

	case graph.NodeRender, graph.NodeAdvanced:
		// The child terms only establish that there is something to
		// evaluate; the node's term is the evaluated geometry itself.
		if t, err = Fold(graph.OpUnion, children); t != nil {
			t, err = b.evaluateCSGNodeFromGeometry(st, n)
		}

	default:
		t, err = Fold(graph.OpUnion, children)
	}
	if err != nil {
		return cacheEntry{}, err
	}

	b.log.Debug("visited node", "node", n.Label(), "depth", len(st.path), "term", t)
	return cacheEntry{term: t}, nil
}

// childTerms resolves n's completed children to their terms, in order.
func (b *Builder) childTerms(n *graph.Node) ([]*Term, error) {
	var terms []*Term
	for _, c := range b.visited.take(n.ID) {
		e, err := b.cache.mustGet(c.ID)
		if err != nil {
			return nil, err
		}
		terms = append(terms, e.terms()...)
	}
	return terms, nil
}

// addToParent registers n with its parent, or stores n's term as the
// result when n is the traversal root.
func (b *Builder) addToParent(st state, n *graph.Node, e cacheEntry) {
	if st.parent != nil {
		b.visited.track(st.parent.ID, n)
		return
	}
	b.root = e.term
}

// selectRoot applies the root modifier: the last root-modified node below
// root replaces it.
func (b *Builder) selectRoot(root *graph.Node) *graph.Node {
	overrides := graph.RootOverridesFrom(b.tree, root)
	if len(overrides) == 0 {
		return root
	}
	chosen := overrides[len(overrides)-1]
	if len(overrides) > 1 {
		b.warn(fmt.Sprintf("root modifier used %d times; using the last one (%s)", len(overrides), chosen.Label()),
			"node", chosen.Label(), "count", len(overrides))
	}
	return chosen
}

func (b *Builder) origin(st state, n *graph.Node) Origin {
	return Origin{
		NodeID: n.ID,
		Label:  n.Label(),
		Kind:   n.Kind,
		Path:   st.path,
		Line:   n.Source.Line,
	}
}
