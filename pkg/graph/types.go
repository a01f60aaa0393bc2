package graph

import "fmt"

// NodeID is the stable integer identity of a node within one Tree.
// Identities are assigned in creation order starting at 1; zero is unset.
type NodeID int

// ZeroID is the unset node identity.
const ZeroID NodeID = 0

// IsZero reports whether the id is unset.
func (id NodeID) IsZero() bool {
	return id == ZeroID
}

func (id NodeID) String() string {
	return fmt.Sprintf("#%d", int(id))
}

// Vec3 is a 3D vector in millimetres or degrees depending on context.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// IsZero reports whether all components are zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

func (v Vec3) String() string {
	return fmt.Sprintf("[%g, %g, %g]", v.X, v.Y, v.Z)
}

// Color is an RGBA color with components in [0, 1].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Hex returns the color as #rrggbb, dropping alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

func (c Color) String() string {
	return fmt.Sprintf("[%g, %g, %g, %g]", c.R, c.G, c.B, c.A)
}

func channel(f float64) uint8 {
	switch {
	case f <= 0:
		return 0
	case f >= 1:
		return 255
	}
	return uint8(f*255 + 0.5)
}

// Operator is a term-level set operator.
type Operator int

const (
	OpUnion Operator = iota
	OpIntersection
	OpDifference
)

func (op Operator) String() string {
	switch op {
	case OpUnion:
		return "union"
	case OpIntersection:
		return "intersection"
	case OpDifference:
		return "difference"
	default:
		return fmt.Sprintf("Operator(%d)", int(op))
	}
}

// Valid reports whether op is one of the known operators.
func (op Operator) Valid() bool {
	return op >= OpUnion && op <= OpDifference
}

// AdvancedOp is an operator with no lazy term-level representation; it is
// always resolved to concrete geometry by the geometry evaluator.
type AdvancedOp int

const (
	AdvHull AdvancedOp = iota
	AdvMinkowski
	AdvResize
)

func (op AdvancedOp) String() string {
	switch op {
	case AdvHull:
		return "hull"
	case AdvMinkowski:
		return "minkowski"
	case AdvResize:
		return "resize"
	default:
		return fmt.Sprintf("AdvancedOp(%d)", int(op))
	}
}

// Valid reports whether op is one of the known advanced operators.
func (op AdvancedOp) Valid() bool {
	return op >= AdvHull && op <= AdvResize
}
