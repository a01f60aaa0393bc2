// Package kernel defines the abstract geometry kernel interface.
// Implementations (sdfx, manifold) provide solid modeling and
// boolean operations behind this interface. The kernel abstraction
// allows swapping backends without changing the rest of the system.
package kernel

import "errors"

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
// Implementations (sdfx, manifold) provide solid modeling behind this interface.
type Kernel interface {
	// Primitives. Box has its minimum corner at the origin; Cylinder and
	// Sphere are centered on the origin. A cylinder with r1 != r2 is a cone
	// frustum.
	Box(x, y, z float64) Solid
	Cylinder(height, r1, r2 float64, segments int) Solid
	Sphere(radius float64, segments int) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees
	Scale(s Solid, x, y, z float64) Solid

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}

// AdvancedKernel is implemented by kernels that can compute operations
// without a lazy CSG representation.
type AdvancedKernel interface {
	Kernel
	Hull(solids ...Solid) (Solid, error)
	Minkowski(a, b Solid) (Solid, error)
}

// ErrUnsupported is returned by kernels for operations their backend
// cannot express.
var ErrUnsupported = errors.New("operation not supported by kernel")
