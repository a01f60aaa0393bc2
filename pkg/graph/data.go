package graph

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

// CubeData is an axis-aligned box.
type CubeData struct {
	Size   Vec3 `json:"size"`
	Center bool `json:"center"`
}

func (CubeData) nodeData() {}

// CylinderData is a (possibly tapered) cylinder along Z.
type CylinderData struct {
	Height   float64 `json:"height"`
	Radius1  float64 `json:"r1"`
	Radius2  float64 `json:"r2"`
	Segments int     `json:"segments,omitempty"`
	Center   bool    `json:"center"`
}

func (CylinderData) nodeData() {}

// SphereData is a sphere centered at the origin.
type SphereData struct {
	Radius   float64 `json:"radius"`
	Segments int     `json:"segments,omitempty"`
}

func (SphereData) nodeData() {}

// ---------------------------------------------------------------------------
// Composition
// ---------------------------------------------------------------------------

// GroupData carries nothing; groups, intersection groups and lists only
// compose their children.
type GroupData struct {
	Description string `json:"description,omitempty"`
}

func (GroupData) nodeData() {}

// OperationData is the payload of a set-operator node.
type OperationData struct {
	Op Operator `json:"op"`
}

func (OperationData) nodeData() {}

// TransformData is a spatial transformation applied to the union of the
// node's children. Components are applied scale, rotation, translation.
type TransformData struct {
	Translation *Vec3 `json:"translation,omitempty"`
	Rotation    *Vec3 `json:"rotation,omitempty"` // Euler angles in degrees
	Scale       *Vec3 `json:"scale,omitempty"`
}

func (TransformData) nodeData() {}

// IsIdentity reports whether the transform moves nothing.
func (td TransformData) IsIdentity() bool {
	if td.Translation != nil && !td.Translation.IsZero() {
		return false
	}
	if td.Rotation != nil && !td.Rotation.IsZero() {
		return false
	}
	if td.Scale != nil && *td.Scale != (Vec3{1, 1, 1}) {
		return false
	}
	return true
}

// ColorData is the appearance applied to the node's children.
type ColorData struct {
	Color Color `json:"color"`
}

func (ColorData) nodeData() {}

// RenderData marks a render boundary.
type RenderData struct {
	Convexity int `json:"convexity,omitempty"`
}

func (RenderData) nodeData() {}

// AdvancedData is the payload of a hull/minkowski/resize node.
type AdvancedData struct {
	Op      AdvancedOp `json:"op"`
	NewSize *Vec3      `json:"new_size,omitempty"` // resize only
}

func (AdvancedData) nodeData() {}
