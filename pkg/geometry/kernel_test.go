package geometry_test

import (
	"fmt"

	"github.com/chazu/csgtree/pkg/kernel"
)

// traceSolid records the kernel calls that built it as an expression.
type traceSolid struct {
	expr     string
	min, max [3]float64
}

func (s *traceSolid) BoundingBox() (min, max [3]float64) { return s.min, s.max }
func (s *traceSolid) String() string                     { return s.expr }

func expr(s kernel.Solid) string {
	if s == nil {
		return "<nil>"
	}
	return s.(*traceSolid).expr
}

// traceKernel builds traceSolids with approximate bounding boxes.
type traceKernel struct{}

func (traceKernel) Box(x, y, z float64) kernel.Solid {
	return &traceSolid{expr: fmt.Sprintf("box(%g,%g,%g)", x, y, z), max: [3]float64{x, y, z}}
}

func (traceKernel) Cylinder(h, r1, r2 float64, seg int) kernel.Solid {
	r := max(r1, r2)
	return &traceSolid{
		expr: fmt.Sprintf("cyl(%g,%g,%g,%d)", h, r1, r2, seg),
		min:  [3]float64{-r, -r, -h / 2},
		max:  [3]float64{r, r, h / 2},
	}
}

func (traceKernel) Sphere(r float64, seg int) kernel.Solid {
	return &traceSolid{
		expr: fmt.Sprintf("sphere(%g,%d)", r, seg),
		min:  [3]float64{-r, -r, -r},
		max:  [3]float64{r, r, r},
	}
}

func binary(name string, a, b kernel.Solid, min, max [3]float64) kernel.Solid {
	return &traceSolid{expr: fmt.Sprintf("%s(%s,%s)", name, expr(a), expr(b)), min: min, max: max}
}

func (traceKernel) Union(a, b kernel.Solid) kernel.Solid {
	amin, amax := a.BoundingBox()
	bmin, bmax := b.BoundingBox()
	var lo, hi [3]float64
	for i := range lo {
		lo[i], hi[i] = min(amin[i], bmin[i]), max(amax[i], bmax[i])
	}
	return binary("union", a, b, lo, hi)
}

func (traceKernel) Difference(a, b kernel.Solid) kernel.Solid {
	lo, hi := a.BoundingBox()
	return binary("diff", a, b, lo, hi)
}

func (traceKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	lo, hi := a.BoundingBox()
	return binary("isect", a, b, lo, hi)
}

func (traceKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	lo, hi := s.BoundingBox()
	d := [3]float64{x, y, z}
	for i := range d {
		lo[i] += d[i]
		hi[i] += d[i]
	}
	return &traceSolid{expr: fmt.Sprintf("translate(%s,%g,%g,%g)", expr(s), x, y, z), min: lo, max: hi}
}

func (traceKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	lo, hi := s.BoundingBox()
	return &traceSolid{expr: fmt.Sprintf("rotate(%s,%g,%g,%g)", expr(s), x, y, z), min: lo, max: hi}
}

func (traceKernel) Scale(s kernel.Solid, x, y, z float64) kernel.Solid {
	lo, hi := s.BoundingBox()
	f := [3]float64{x, y, z}
	for i := range f {
		lo[i] *= f[i]
		hi[i] *= f[i]
	}
	return &traceSolid{expr: fmt.Sprintf("scale(%s,%g,%g,%g)", expr(s), x, y, z), min: lo, max: hi}
}

func (traceKernel) ToMesh(kernel.Solid) (*kernel.Mesh, error) { return &kernel.Mesh{}, nil }

// advancedTraceKernel adds hull and minkowski.
type advancedTraceKernel struct{ traceKernel }

func (advancedTraceKernel) Hull(solids ...kernel.Solid) (kernel.Solid, error) {
	acc := expr(solids[0])
	for _, s := range solids[1:] {
		acc += "," + expr(s)
	}
	lo, hi := solids[0].BoundingBox()
	return &traceSolid{expr: "hull(" + acc + ")", min: lo, max: hi}, nil
}

func (advancedTraceKernel) Minkowski(a, b kernel.Solid) (kernel.Solid, error) {
	lo, hi := a.BoundingBox()
	return binary("minkowski", a, b, lo, hi), nil
}

// panicKernel fails inside the kernel the way sdfx does on bad input.
type panicKernel struct{ traceKernel }

func (panicKernel) Box(x, y, z float64) kernel.Solid {
	panic("box: size < 0")
}

var (
	_ kernel.Kernel         = traceKernel{}
	_ kernel.AdvancedKernel = advancedTraceKernel{}
)
