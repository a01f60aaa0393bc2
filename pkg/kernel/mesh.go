package kernel

import "math"

// Mesh is one tessellated part of a CSG result. Arrays are flat: three
// floats per vertex position and normal, three indices per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`

	// Label is the canonical expression of the term the mesh was cut from.
	Label string `json:"label"`
	Role  string `json:"role"`
	Color string `json:"color,omitempty"` // #rrggbb or #rrggbbaa
}

func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty reports whether the mesh has no triangles.
func (m *Mesh) IsEmpty() bool {
	return len(m.Indices) == 0
}

// Bounds returns the axis-aligned box around the vertices. An empty mesh
// yields zero vectors.
func (m *Mesh) Bounds() (min, max [3]float64) {
	if len(m.Vertices) < 3 {
		return min, max
	}
	for i := range 3 {
		min[i], max[i] = math.Inf(1), math.Inf(-1)
	}
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		for a := range 3 {
			v := float64(m.Vertices[i+a])
			min[a] = math.Min(min[a], v)
			max[a] = math.Max(max[a], v)
		}
	}
	return min, max
}
