// Package tessellate turns CSG term trees into triangle meshes using a
// geometry kernel. The root term and every highlight and background term
// are split into parts at top-level unions; one mesh is produced per part.
package tessellate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/chazu/csgtree/pkg/csg"
	"github.com/chazu/csgtree/pkg/geometry"
	"github.com/chazu/csgtree/pkg/graph"
	"github.com/chazu/csgtree/pkg/kernel"
)

// Mesh roles.
const (
	RoleRoot       = "root"
	RoleHighlight  = "highlight"
	RoleBackground = "background"
)

type config struct {
	workers int
	log     *slog.Logger
}

// Option configures Tessellate.
type Option func(*config)

// WithWorkers limits how many parts are meshed at once.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

// part is one independently meshed piece of a term.
type part struct {
	term  *csg.Term
	wraps []graph.TransformData // outermost first
	color *graph.Color
	role  string
}

// Tessellate meshes res with k. Meshes come back in a stable order: root
// parts, then highlights, then backgrounds. The tessellator is read-only
// and never mutates the terms.
func Tessellate(ctx context.Context, k kernel.Kernel, res csg.Result, opts ...Option) ([]*kernel.Mesh, error) {
	cfg := config{
		workers: runtime.NumCPU(),
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var parts []part
	parts = append(parts, splitParts(res.Root, RoleRoot)...)
	for _, t := range res.Highlights {
		parts = append(parts, splitParts(t, RoleHighlight)...)
	}
	for _, t := range res.Backgrounds {
		parts = append(parts, splitParts(t, RoleBackground)...)
	}

	meshes := make([]*kernel.Mesh, len(parts))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(cfg.workers)

	for i, p := range parts {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			m, err := meshPart(k, p)
			if err != nil {
				return err
			}
			cfg.log.Debug("meshed part", "label", m.Label, "role", m.Role, "triangles", m.TriangleCount())
			meshes[i] = m
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return meshes, nil
}

func meshPart(k kernel.Kernel, p part) (*kernel.Mesh, error) {
	s := Solidify(k, p.term)
	for i := len(p.wraps) - 1; i >= 0; i-- {
		s = geometry.ApplyTransform(k, s, p.wraps[i])
	}
	m, err := k.ToMesh(s)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for %s: %w", p.term, err)
	}
	m.Label = p.term.String()
	m.Role = p.role
	if p.color != nil {
		m.Color = p.color.Hex()
	}
	return m, nil
}

// splitParts breaks t into the operands of its top-level unions. Transforms
// above a union are distributed over its operands and the outermost color
// applies to everything below it.
func splitParts(t *csg.Term, role string) []part {
	var parts []part
	var walk func(t *csg.Term, wraps []graph.TransformData, color *graph.Color)
	walk = func(t *csg.Term, wraps []graph.TransformData, color *graph.Color) {
		switch t.Kind() {
		case csg.TermOperation:
			if t.Op() == graph.OpUnion {
				walk(t.Left(), wraps, color)
				walk(t.Right(), wraps, color)
				return
			}
		case csg.TermTransform:
			walk(t.Child(), append(slices.Clip(wraps), t.Transform()), color)
			return
		case csg.TermColor:
			if color == nil {
				c := t.Color()
				color = &c
			}
			walk(t.Child(), wraps, color)
			return
		}
		parts = append(parts, part{term: t, wraps: wraps, color: color, role: role})
	}
	if t != nil {
		walk(t, nil, nil)
	}
	return parts
}

// Solidify folds a term into one kernel solid. Colors do not affect
// geometry and pass through. Terms shared within t are solidified once.
func Solidify(k kernel.Kernel, t *csg.Term) kernel.Solid {
	memo := make(map[*csg.Term]kernel.Solid)
	var fold func(t *csg.Term) kernel.Solid
	fold = func(t *csg.Term) kernel.Solid {
		if s, ok := memo[t]; ok {
			return s
		}
		var s kernel.Solid
		switch t.Kind() {
		case csg.TermLeaf:
			s = t.Geometry()
		case csg.TermOperation:
			l, r := fold(t.Left()), fold(t.Right())
			switch t.Op() {
			case graph.OpUnion:
				s = k.Union(l, r)
			case graph.OpIntersection:
				s = k.Intersection(l, r)
			default:
				s = k.Difference(l, r)
			}
		case csg.TermTransform:
			s = geometry.ApplyTransform(k, fold(t.Child()), t.Transform())
		default:
			s = fold(t.Child())
		}
		memo[t] = s
		return s
	}
	if t == nil {
		return nil
	}
	return fold(t)
}
