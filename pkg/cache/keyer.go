package cache

// Keyer derives cache keys for pipeline stages.
type Keyer interface {
	// LayoutKey returns the key of the scene computed for an architecture.
	LayoutKey(archHash string, opts LayoutKeyOpts) string
	// ArtifactKey returns the key of one rendered output of a scene.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the layout options that change neuron positions.
type LayoutKeyOpts struct {
	Origin   [3]float64 `json:"origin"`
	Scale    [3]float64 `json:"scale"`
	Radius   float64    `json:"radius"`
	Centered bool       `json:"centered"`
}

// ArtifactKeyOpts are the render options that change an output's bytes.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	Projection string `json:"projection,omitempty"`
	MeshCells  int    `json:"mesh_cells,omitempty"`
	Detailed   bool   `json:"detailed,omitempty"`
}

// DefaultKeyer produces "layout:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(archHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", archHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}
