// Package pipeline provides the load -> layout -> render pipeline of netblend.
//
// The CLI and the HTTP server both drive the same [Runner], so a network
// laid out from the command line and one posted to the API produce the same
// scene and share cache entries.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read arch.json (and optionally activations.json) from a
//     directory, or take an in-memory [network.Config], and build a
//     [network.Network]
//  2. Layout: compute every neuron position and capture it as a
//     [scene.Scene]
//  3. Render: turn the scene into the requested output formats
//
// Layout and render results are cached by content hash. Loading is never
// cached because it is cheaper than hashing the inputs.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Dir:     "models/mnist",
//	    Formats: []string{pipeline.FormatSTL, pipeline.FormatPNG},
//	})
//	stl := result.Artifacts[pipeline.FormatSTL]
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/netblend/netblend/pkg/cache"
	"github.com/netblend/netblend/pkg/errors"
	"github.com/netblend/netblend/pkg/layout"
	"github.com/netblend/netblend/pkg/network"
	"github.com/netblend/netblend/pkg/render/mesh"
	"github.com/netblend/netblend/pkg/render/preview"
	"github.com/netblend/netblend/pkg/scene"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultProjection is the preview projection.
	DefaultProjection = string(preview.ProjectionSide)

	// DefaultMeshCells is the sphere tessellation resolution.
	DefaultMeshCells = mesh.DefaultCells

	// DefaultOutputBase is the file name stem used for written artifacts.
	DefaultOutputBase = "scene"

	// DefaultMaxNeurons is the largest network the pipeline loads unless
	// Options.MaxNeurons says otherwise.
	DefaultMaxNeurons = 1 << 22
)

// Format constants for output formats.
const (
	FormatJSON       = "json"
	FormatSTL        = "stl"
	FormatMeshJSON   = "mesh.json"
	FormatPNG        = "png"
	FormatSVG        = "svg"
	FormatDOT        = "dot"
	FormatDiagramSVG = "diagram.svg"
)

// AllFormats lists every output format in a stable order.
var AllFormats = []string{FormatJSON, FormatSTL, FormatMeshJSON, FormatPNG, FormatSVG, FormatDOT, FormatDiagramSVG}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON:       true,
	FormatSTL:        true,
	FormatMeshJSON:   true,
	FormatPNG:        true,
	FormatSVG:        true,
	FormatDOT:        true,
	FormatDiagramSVG: true,
}

// ValidProjections is the set of supported preview projections.
var ValidProjections = map[string]bool{
	string(preview.ProjectionSide):  true,
	string(preview.ProjectionFront): true,
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatJSON, FormatMeshJSON:
		return "application/json"
	case FormatSTL:
		return "model/stl"
	case FormatPNG:
		return "image/png"
	case FormatSVG, FormatDiagramSVG:
		return "image/svg+xml"
	case FormatDOT:
		return "text/vnd.graphviz"
	}
	return "application/octet-stream"
}

// FileName returns the file an artifact is written to, e.g. "scene.stl".
func FileName(base, format string) string {
	if base == "" {
		base = DefaultOutputBase
	}
	return base + "." + format
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options. Config takes precedence over Dir.
	Dir    string          `json:"-"`
	Config *network.Config `json:"-"`

	// MaxNeurons caps the size of a loaded network. Zero means
	// DefaultMaxNeurons; a negative value disables the cap.
	MaxNeurons int `json:"-"`

	// Layout options. A nil Scale means DefaultScale; a set Scale is
	// validated as given.
	Origin   [3]float64    `json:"origin"`
	Scale    *layout.Scale `json:"scale,omitempty"`
	Radius   float64       `json:"radius,omitempty"`
	Centered *bool         `json:"centered,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Projection string   `json:"projection,omitempty"`
	MeshCells  int      `json:"mesh_cells,omitempty"`
	Detailed   bool     `json:"detailed,omitempty"`
	Workers    int      `json:"-"`

	// Refresh skips cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Network is the loaded network.
	Network *network.Network

	// ArchHash is the content hash of the normalized input.
	ArchHash string

	// Scene is the computed layout.
	Scene *scene.Scene

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LayerCount  int
	NeuronCount int
	LoadTime    time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the scene came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format %q (must be one of: %s)", format, strings.Join(AllFormats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateProjection checks that a preview projection is valid.
func ValidateProjection(p string) error {
	if !ValidProjections[p] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid projection %q (must be one of: side, front)", p)
	}
	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks that an input is present.
func (o *Options) ValidateForLoad() error {
	if o.Config == nil && o.Dir == "" {
		return errors.New(errors.ErrCodeInvalidInput, "an architecture directory or config is required")
	}
	if o.MaxNeurons == 0 {
		o.MaxNeurons = DefaultMaxNeurons
	}
	o.setLogger()
	return nil
}

// CheckNeuronCount rejects networks larger than MaxNeurons with
// INVALID_INPUT.
func (o *Options) CheckNeuronCount(n *network.Network) error {
	limit := o.MaxNeurons
	if limit == 0 {
		limit = DefaultMaxNeurons
	}
	if limit > 0 && n.NeuronCount() > limit {
		return errors.New(errors.ErrCodeInvalidInput,
			"network %s has %d neurons, limit is %d", n.Architecture(), n.NeuronCount(), limit)
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Scale == nil {
		scale := layout.DefaultScale
		o.Scale = &scale
	}
	if o.Radius == 0 {
		o.Radius = layout.DefaultRadius
	}
	if o.Centered == nil {
		centered := true
		o.Centered = &centered
	}
	o.setLogger()
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := o.Scale.Validate(); err != nil {
		return err
	}
	if o.Radius < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "radius must be positive, got %v", o.Radius)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Projection == "" {
		o.Projection = DefaultProjection
	}
	if o.MeshCells == 0 {
		o.MeshCells = DefaultMeshCells
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateProjection(o.Projection)
}

// IsCentered reports whether layers are centered. Unset means true.
func (o *Options) IsCentered() bool {
	return o.Centered == nil || *o.Centered
}

// OriginVec returns the origin as a vector.
func (o *Options) OriginVec() r3.Vec {
	return r3.Vec{X: o.Origin[0], Y: o.Origin[1], Z: o.Origin[2]}
}

// NetworkOptions returns the construction options for [network.New].
func (o *Options) NetworkOptions() []network.Option {
	var opts []network.Option
	if o.Scale != nil {
		opts = append(opts, network.WithScale(*o.Scale))
	}
	if o.Radius != 0 {
		opts = append(opts, network.WithRadius(o.Radius))
	}
	return opts
}

// LayoutOptions returns the per-call options for [network.Network.Layout].
// A set Scale overrides the network's own scale.
func (o *Options) LayoutOptions() []network.LayoutOption {
	opts := []network.LayoutOption{
		network.WithOrigin(o.OriginVec()),
		network.Centered(o.IsCentered()),
	}
	if o.Scale != nil {
		opts = append(opts, network.WithLayoutScale(*o.Scale))
	}
	return opts
}

// LayoutKeyOpts returns cache key options for resolved layout options.
func LayoutKeyOpts(lo layout.Options) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Origin:   [3]float64{lo.Origin.X, lo.Origin.Y, lo.Origin.Z},
		Scale:    [3]float64{lo.Scale.X, lo.Scale.Y, lo.Scale.Z},
		Radius:   lo.Radius,
		Centered: lo.Centered,
	}
}

// ArtifactKeyOpts returns cache key options for one output format. Options
// that do not affect a format are left out so they do not split its entries.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatPNG, FormatSVG:
		k.Projection = o.Projection
	case FormatSTL, FormatMeshJSON:
		k.MeshCells = o.MeshCells
	case FormatDOT, FormatDiagramSVG:
		k.Detailed = o.Detailed
	}
	return k
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
