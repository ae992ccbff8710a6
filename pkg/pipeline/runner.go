package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/netblend/netblend/pkg/cache"
	"github.com/netblend/netblend/pkg/io"
	"github.com/netblend/netblend/pkg/network"
	"github.com/netblend/netblend/pkg/observability"
	"github.com/netblend/netblend/pkg/scene"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	n, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Network = n
	result.ArchHash = ArchHash(n)
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.LayerCount = len(n.Architecture())
	result.Stats.NeuronCount = n.NeuronCount()

	r.Logger.Info("loaded network",
		"arch", n.Architecture().String(),
		"neurons", n.NeuronCount(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	s, layoutHit, err := r.ComputeSceneWithCacheInfo(ctx, n, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Scene = s
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"neurons", len(s.Neurons),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, s, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the network described by opts.
func (r *Runner) Load(ctx context.Context, opts Options) (n *network.Network, err error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}

	source := opts.Dir
	if opts.Config != nil {
		source = "config"
	}
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, source)
	start := time.Now()
	defer func() {
		layers := 0
		if n != nil {
			layers = len(n.Architecture())
		}
		hooks.OnLoadComplete(ctx, source, layers, time.Since(start), err)
	}()

	var cfg network.Config
	if opts.Config != nil {
		cfg = *opts.Config
	} else {
		if cfg, err = io.ImportDir(opts.Dir); err != nil {
			return nil, err
		}
	}
	if n, err = network.New(cfg, opts.NetworkOptions()...); err != nil {
		return nil, err
	}
	if err := opts.CheckNeuronCount(n); err != nil {
		return nil, err
	}
	return n, nil
}

// ComputeSceneWithCacheInfo lays out n with caching and returns cache hit info.
func (r *Runner) ComputeSceneWithCacheInfo(ctx context.Context, n *network.Network, opts Options) (s *scene.Scene, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}
	if err := opts.CheckNeuronCount(n); err != nil {
		return nil, false, err
	}

	arch := n.Architecture().String()
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, arch, n.NeuronCount())
	start := time.Now()
	defer func() { hooks.OnLayoutComplete(ctx, arch, time.Since(start), err) }()

	lo := n.LayoutOptions(opts.LayoutOptions()...)
	cacheKey := r.Keyer.LayoutKey(ArchHash(n), LayoutKeyOpts(lo))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, ok := r.get(ctx, "layout", cacheKey); ok {
			if cached, err := scene.Unmarshal(data); err == nil {
				return cached, true, nil
			}
			opts.Logger.Debug("discarding unreadable cached scene", "key", cacheKey)
		}
	}

	s, err = scene.New(n.Architecture(), n.Extrema(), lo, n.Activations())
	if err != nil {
		return nil, false, err
	}

	if data, err := scene.Marshal(s); err == nil {
		r.set(ctx, "layout", cacheKey, data, cache.TTLLayout)
	}
	return s, false, nil
}

// ComputeScene is a convenience wrapper that calls ComputeSceneWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeScene(ctx context.Context, n *network.Network, opts Options) (*scene.Scene, error) {
	s, _, err := r.ComputeSceneWithCacheInfo(ctx, n, opts)
	return s, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, s *scene.Scene, opts Options) (artifacts map[string][]byte, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	defer func() { hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err) }()

	sceneData, err := scene.Marshal(s)
	if err != nil {
		return nil, false, fmt.Errorf("serialize scene for cache key: %w", err)
	}
	sceneHash := cache.Hash(sceneData)

	// Serve from cache only when every format is present.
	artifacts = make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			data, ok := r.get(ctx, "artifact", r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format)))
			if !ok {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	rendered, err := Render(ctx, s, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		r.set(ctx, "artifact", r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact)
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, s *scene.Scene, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, s, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// ArchHash returns the content hash of a network's normalized layers and
// activations.
func ArchHash(n *network.Network) string {
	data, _ := json.Marshal(struct {
		Layers      any `json:"layers"`
		Activations any `json:"activations,omitempty"`
	}{n.Architecture(), n.Activations()})
	return cache.Hash(data)
}

// get reads key and reports hits and misses to the cache hooks. Cache
// errors count as misses.
func (r *Runner) get(ctx context.Context, kind, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "kind", kind, "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, kind)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, kind)
	return data, true
}

func (r *Runner) set(ctx context.Context, kind, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "kind", kind, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, kind, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
