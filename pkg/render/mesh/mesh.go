package mesh

import (
	"encoding/json"
	"io"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/netblend/netblend/pkg/errors"
)

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Objects  []*Object `json:"objects"`
}

// Object is the part of a [Mesh] created for one neuron.
type Object struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Center r3.Vec    `json:"center"`
	Radius float64   `json:"radius"`

	// FirstVertex and VertexCount delimit the object's vertices.
	FirstVertex int `json:"first_vertex"`
	VertexCount int `json:"vertex_count"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Object returns the object with the given ID.
func (m *Mesh) Object(id uuid.UUID) (*Object, bool) {
	for _, o := range m.Objects {
		if o.ID == id {
			return o, true
		}
	}
	return nil, false
}

// Bounds returns the axis-aligned bounding box of all vertices.
func (m *Mesh) Bounds() (lo, hi r3.Vec) {
	if m.IsEmpty() {
		return r3.Vec{}, r3.Vec{}
	}
	lo = vertex(m.Vertices, 0)
	hi = lo
	for i := 1; i < m.VertexCount(); i++ {
		v := vertex(m.Vertices, i)
		lo = r3.Vec{X: min(lo.X, v.X), Y: min(lo.Y, v.Y), Z: min(lo.Z, v.Z)}
		hi = r3.Vec{X: max(hi.X, v.X), Y: max(hi.Y, v.Y), Z: max(hi.Z, v.Z)}
	}
	return lo, hi
}

// WriteJSON writes m as JSON.
func WriteJSON(w io.Writer, m *Mesh) error {
	if err := json.NewEncoder(w).Encode(m); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode mesh")
	}
	return nil
}

func vertex(buf []float32, i int) r3.Vec {
	return r3.Vec{X: float64(buf[3*i]), Y: float64(buf[3*i+1]), Z: float64(buf[3*i+2])}
}
