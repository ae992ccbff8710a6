package mesh

import (
	"context"
	"fmt"
	"sync"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/netblend/netblend/pkg/errors"
	"github.com/netblend/netblend/pkg/layout"
	"github.com/netblend/netblend/pkg/scene"
)

// DefaultCells is the marching cubes resolution of the sphere template.
const DefaultCells = 12

// objectSpace is the UUID namespace object IDs are derived in, so equal
// meshes serialize to equal bytes.
var objectSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/netblend/netblend/mesh"))

// Builder accumulates one sphere per placement into a single [Mesh].
// Place is safe for concurrent use; objects are appended in call order.
// Use [RenderConcurrent] to tessellate in parallel with a fixed order.
type Builder struct {
	cells  int
	prefix string

	once     sync.Once
	template *Mesh
	tmplErr  error

	mu   sync.Mutex
	mesh Mesh
}

// Option configures a [Builder].
type Option func(*Builder)

// WithCells sets the marching cubes resolution. Values below 4 are raised
// to 4.
func WithCells(n int) Option {
	return func(b *Builder) { b.cells = max(n, 4) }
}

// WithNamePrefix sets the prefix of generated object names. Default "neuron".
func WithNamePrefix(p string) Option {
	return func(b *Builder) { b.prefix = p }
}

// NewBuilder returns an empty Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{cells: DefaultCells, prefix: "neuron"}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Place appends a sphere of the given radius centered at at and returns its
// [*Object]. It satisfies [layout.PlaceFunc].
func (b *Builder) Place(radius float64, at r3.Vec) (layout.Handle, error) {
	p, err := b.shape(radius, at)
	if err != nil {
		return nil, err
	}
	return b.add(p), nil
}

// piece is a sphere positioned in world space but not yet part of the mesh.
type piece struct {
	center   r3.Vec
	radius   float64
	vertices []float32
	normals  []float32
	indices  []uint32
}

// shape tessellates a sphere without touching the accumulated mesh. It is
// safe for concurrent use.
func (b *Builder) shape(radius float64, at r3.Vec) (*piece, error) {
	if !(radius > 0) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "sphere radius must be positive, got %v", radius)
	}
	tmpl, err := b.sphere()
	if err != nil {
		return nil, err
	}

	p := &piece{
		center:   at,
		radius:   radius,
		vertices: make([]float32, len(tmpl.Vertices)),
		normals:  tmpl.Normals,
		indices:  tmpl.Indices,
	}
	r := float32(radius)
	cx, cy, cz := float32(at.X), float32(at.Y), float32(at.Z)
	for i := 0; i < len(tmpl.Vertices); i += 3 {
		p.vertices[i] = tmpl.Vertices[i]*r + cx
		p.vertices[i+1] = tmpl.Vertices[i+1]*r + cy
		p.vertices[i+2] = tmpl.Vertices[i+2]*r + cz
	}
	return p, nil
}

// add appends p as the next object. Names and IDs depend only on the
// object's position in the mesh and its geometry.
func (b *Builder) add(p *piece) *Object {
	b.mu.Lock()
	defer b.mu.Unlock()

	first := b.mesh.VertexCount()
	name := fmt.Sprintf("%s.%03d", b.prefix, len(b.mesh.Objects))
	obj := &Object{
		ID:          uuid.NewSHA1(objectSpace, fmt.Appendf(nil, "%s@%v/%v", name, p.center, p.radius)),
		Name:        name,
		Center:      p.center,
		Radius:      p.radius,
		FirstVertex: first,
		VertexCount: len(p.vertices) / 3,
	}

	b.mesh.Vertices = append(b.mesh.Vertices, p.vertices...)
	b.mesh.Normals = append(b.mesh.Normals, p.normals...)
	for _, idx := range p.indices {
		b.mesh.Indices = append(b.mesh.Indices, idx+uint32(first))
	}
	b.mesh.Objects = append(b.mesh.Objects, obj)
	return obj
}

// Mesh returns the accumulated mesh. The returned value shares storage with
// the builder and must not be modified while placements are running.
func (b *Builder) Mesh() *Mesh {
	b.mu.Lock()
	defer b.mu.Unlock()
	m := b.mesh
	return &m
}

// Len returns the number of objects placed so far.
func (b *Builder) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.mesh.Objects)
}

// sphere meshes a unit sphere on first use.
func (b *Builder) sphere() (*Mesh, error) {
	b.once.Do(func() {
		b.template, b.tmplErr = unitSphere(b.cells)
	})
	return b.template, b.tmplErr
}

func unitSphere(cells int) (*Mesh, error) {
	s, err := sdf.Sphere3D(1)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "sdfx sphere")
	}

	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)
	if len(triangles) == 0 {
		return nil, errors.New(errors.ErrCodeInternal, "sphere tessellation produced no triangles at %d cells", cells)
	}

	numVerts := len(triangles) * 3
	m := &Mesh{
		Vertices: make([]float32, 0, numVerts*3),
		Normals:  make([]float32, 0, numVerts*3),
		Indices:  make([]uint32, 0, numVerts),
	}
	for i, tri := range triangles {
		n := tri.Normal()
		nx, ny, nz := float32(n.X), float32(n.Y), float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			m.Normals = append(m.Normals, nx, ny, nz)
			m.Indices = append(m.Indices, uint32(i*3+j))
		}
	}
	return m, nil
}

// Render builds the mesh of every neuron in s.
func Render(s *scene.Scene, opts ...Option) (*Mesh, error) {
	b := NewBuilder(opts...)
	if _, err := s.Replay(b.Place); err != nil {
		return nil, err
	}
	return b.Mesh(), nil
}

// RenderConcurrent builds the same mesh as [Render], tessellating spheres
// on up to workers goroutines. Objects are assembled in neuron order, so
// the result does not depend on scheduling.
func RenderConcurrent(ctx context.Context, s *scene.Scene, workers int, opts ...Option) (*Mesh, error) {
	b := NewBuilder(opts...)
	shape := func(radius float64, at r3.Vec) (layout.Handle, error) { return b.shape(radius, at) }
	pieces, err := layout.PlaceConcurrent(ctx, s.Placements(), s.Radius, shape, workers)
	if err != nil {
		return nil, err
	}
	for _, h := range pieces {
		b.add(h.(*piece))
	}
	return b.Mesh(), nil
}
