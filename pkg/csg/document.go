package csg

import "github.com/chazu/csgtree/pkg/graph"

// Document is a serializable view of a term. Shared subtrees are expanded
// at every reference.
type Document struct {
	Kind        string      `json:"kind" yaml:"kind"`
	Op          string      `json:"op,omitempty" yaml:"op,omitempty"`
	Label       string      `json:"label,omitempty" yaml:"label,omitempty"`
	Line        int         `json:"line,omitempty" yaml:"line,omitempty"`
	Translation *graph.Vec3 `json:"translation,omitempty" yaml:"translation,omitempty"`
	Rotation    *graph.Vec3 `json:"rotation,omitempty" yaml:"rotation,omitempty"`
	Scale       *graph.Vec3 `json:"scale,omitempty" yaml:"scale,omitempty"`
	Color       string      `json:"color,omitempty" yaml:"color,omitempty"`
	Bounds      *Bounds     `json:"bounds,omitempty" yaml:"bounds,omitempty"`
	Children    []*Document `json:"children,omitempty" yaml:"children,omitempty"`
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min [3]float64 `json:"min" yaml:"min,flow"`
	Max [3]float64 `json:"max" yaml:"max,flow"`
}

// ResultDocument is the serializable view of a Result.
type ResultDocument struct {
	Root        *Document   `json:"root" yaml:"root"`
	Highlights  []*Document `json:"highlights,omitempty" yaml:"highlights,omitempty"`
	Backgrounds []*Document `json:"backgrounds,omitempty" yaml:"backgrounds,omitempty"`
	Warnings    []string    `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Document converts t; a nil term yields nil.
func (t *Term) Document() *Document {
	if t == nil {
		return nil
	}
	d := &Document{Kind: t.kind.String()}
	switch t.kind {
	case TermLeaf:
		d.Label = t.origin.Label
		d.Line = t.origin.Line
		if t.geometry != nil {
			min, max := t.geometry.BoundingBox()
			d.Bounds = &Bounds{Min: min, Max: max}
		}
	case TermOperation:
		d.Op = t.op.String()
		d.Children = []*Document{t.left.Document(), t.right.Document()}
	case TermTransform:
		d.Label = wrapperName(t)
		d.Line = t.origin.Line
		d.Translation = t.transform.Translation
		d.Rotation = t.transform.Rotation
		d.Scale = t.transform.Scale
		d.Children = []*Document{t.child.Document()}
	case TermColor:
		d.Label = wrapperName(t)
		d.Line = t.origin.Line
		d.Color = t.color.Hex()
		d.Children = []*Document{t.child.Document()}
	}
	return d
}

// Document converts every result set.
func (r Result) Document() ResultDocument {
	doc := ResultDocument{Root: r.Root.Document(), Warnings: r.Warnings}
	for _, t := range r.Highlights {
		doc.Highlights = append(doc.Highlights, t.Document())
	}
	for _, t := range r.Backgrounds {
		doc.Backgrounds = append(doc.Backgrounds, t.Document())
	}
	return doc
}
