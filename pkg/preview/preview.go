// Package preview runs model source through the whole pipeline: script
// evaluation, validation, CSG term construction and tessellation. It is
// the entry point used by the command line.
package preview

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/chazu/csgtree/pkg/csg"
	"github.com/chazu/csgtree/pkg/engine"
	"github.com/chazu/csgtree/pkg/geometry"
	"github.com/chazu/csgtree/pkg/graph"
	"github.com/chazu/csgtree/pkg/kernel"
	"github.com/chazu/csgtree/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to
// uncolored root parts.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// Highlight and background parts are drawn translucent in fixed colors
// unless the model colors them.
const (
	highlightColor    = "#FF5151"
	highlightOpacity  = 0.5
	backgroundColor   = "#B4B4B4"
	backgroundOpacity = 0.3
)

// Previewer evaluates model source into meshes.
type Previewer struct {
	engine   *engine.Engine
	kernel   kernel.Kernel
	log      *slog.Logger
	workers  int
	segments int
}

// Option configures a Previewer.
type Option func(*Previewer)

// WithLogger sets the logger passed to every stage.
func WithLogger(l *slog.Logger) Option {
	return func(p *Previewer) {
		if l != nil {
			p.log = l
		}
	}
}

// WithEngine replaces the default script engine.
func WithEngine(e *engine.Engine) Option {
	return func(p *Previewer) {
		if e != nil {
			p.engine = e
		}
	}
}

// WithWorkers limits concurrent tessellation.
func WithWorkers(n int) Option {
	return func(p *Previewer) { p.workers = n }
}

// WithSegments sets the default facet count of round primitives.
func WithSegments(n int) Option {
	return func(p *Previewer) { p.segments = n }
}

// New creates a Previewer meshing with k.
func New(k kernel.Kernel, opts ...Option) *Previewer {
	p := &Previewer{
		engine: engine.NewEngine(),
		kernel: k,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// MeshData is the JSON-serializable mesh format.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Label    string    `json:"label"`
	Role     string    `json:"role"`
	Color    string    `json:"color"`
	Opacity  float64   `json:"opacity"`

	// Size is the extent of the mesh bounding box.
	Size [3]float64 `json:"size"`
}

// Diagnostic is an error or warning with an optional source location.
type Diagnostic struct {
	Line    int          `json:"line,omitempty"`
	Col     int          `json:"col,omitempty"`
	Node    graph.NodeID `json:"node,omitempty"`
	Message string       `json:"message"`
}

func (d Diagnostic) String() string {
	switch {
	case d.Line > 0:
		return fmt.Sprintf("line %d: %s", d.Line, d.Message)
	case !d.Node.IsZero():
		return fmt.Sprintf("%s: %s", d.Node, d.Message)
	}
	return d.Message
}

// Result is the full output of one run.
type Result struct {
	Meshes   []MeshData   `json:"meshes"`
	Errors   []Diagnostic `json:"errors"`
	Warnings []Diagnostic `json:"warnings"`

	Tree *graph.Tree `json:"-"`
	CSG  csg.Result  `json:"-"`
}

// OK reports whether the run produced no errors.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

func newResult() Result {
	return Result{
		Meshes:   []MeshData{},
		Errors:   []Diagnostic{},
		Warnings: []Diagnostic{},
	}
}

// Compile evaluates source and builds the CSG term tree without meshing.
func (p *Previewer) Compile(source string) Result {
	result := newResult()

	// Step 1: Evaluate the source into a modeling-node tree.
	tree, evalErrs, err := p.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		p.log.Error("evaluate failed", "err", err)
		result.Errors = append(result.Errors, Diagnostic{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, Diagnostic{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return result
	}
	result.Tree = tree

	// Step 2: Validate the tree.
	for _, v := range graph.Validate(tree) {
		d := Diagnostic{Node: v.NodeID, Message: v.Message}
		if v.Severity == graph.SeverityError {
			result.Errors = append(result.Errors, d)
		} else {
			result.Warnings = append(result.Warnings, d)
		}
	}
	if !result.OK() {
		return result
	}

	// Step 3: Build the CSG term tree.
	ev := geometry.New(tree, p.kernel, geometry.WithLogger(p.log), geometry.WithSegments(p.segments))
	res, err := csg.Build(tree, ev, csg.WithLogger(p.log))
	if err != nil {
		p.log.Error("csg build failed", "err", err)
		result.Errors = append(result.Errors, Diagnostic{Message: "csg build failed: " + err.Error()})
		return result
	}
	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, Diagnostic{Message: w})
	}
	result.CSG = res
	return result
}

// Evaluate compiles source and tessellates the result.
func (p *Previewer) Evaluate(ctx context.Context, source string) Result {
	result := p.Compile(source)
	if !result.OK() {
		return result
	}

	// Step 4: Tessellate the term trees into triangle meshes.
	meshes, err := tessellate.Tessellate(ctx, p.kernel, result.CSG,
		tessellate.WithWorkers(p.workers), tessellate.WithLogger(p.log))
	if err != nil {
		p.log.Error("tessellate failed", "err", err)
		result.Errors = append(result.Errors, Diagnostic{Message: "tessellation failed: " + err.Error()})
		return result
	}

	// Step 5: Convert kernel meshes to MeshData and assign colors.
	roots := 0
	for _, m := range meshes {
		md := MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			Label:    m.Label,
			Role:     m.Role,
			Color:    m.Color,
			Opacity:  1,
		}
		min, max := m.Bounds()
		for i := range md.Size {
			md.Size[i] = max[i] - min[i]
		}
		switch m.Role {
		case tessellate.RoleHighlight:
			md.Opacity = highlightOpacity
			if md.Color == "" {
				md.Color = highlightColor
			}
		case tessellate.RoleBackground:
			md.Opacity = backgroundOpacity
			if md.Color == "" {
				md.Color = backgroundColor
			}
		default:
			if md.Color == "" {
				md.Color = colorPalette[roots%len(colorPalette)]
			}
			roots++
		}
		result.Meshes = append(result.Meshes, md)
	}

	p.log.Info("preview ready", "meshes", len(result.Meshes), "warnings", len(result.Warnings))
	return result
}
