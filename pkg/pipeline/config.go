package pipeline

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/netblend/netblend/pkg/cache"
	"github.com/netblend/netblend/pkg/errors"
	"github.com/netblend/netblend/pkg/layout"
)

// FileConfig is the content of a netblend.toml file:
//
//	[layout]
//	origin   = [0.0, 0.0, 0.0]
//	scale    = { x = 0.75, y = 0.05, z = 0.05 }
//	radius   = 0.015
//	centered = true
//	max_neurons = 1000000
//
//	[render]
//	formats    = ["json", "stl"]
//	projection = "side"
//	mesh_cells = 12
//
//	[cache]
//	dir = "/var/cache/netblend"
//	namespace = "staging"
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
type FileConfig struct {
	Layout LayoutConfig `toml:"layout"`
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// LayoutConfig is the [layout] table.
type LayoutConfig struct {
	Origin     []float64     `toml:"origin"`
	Scale      *layout.Scale `toml:"scale"`
	Radius     float64       `toml:"radius"`
	Centered   *bool         `toml:"centered"`
	MaxNeurons int           `toml:"max_neurons"`
}

// RenderConfig is the [render] table.
type RenderConfig struct {
	Formats    []string `toml:"formats"`
	Projection string   `toml:"projection"`
	MeshCells  int      `toml:"mesh_cells"`
	Detailed   bool     `toml:"detailed"`
	Workers    int      `toml:"workers"`
}

// CacheConfig is the [cache] table. Redis takes precedence over Dir.
// Namespace prefixes every key so deployments can share one redis.
type CacheConfig struct {
	Disabled  bool               `toml:"disabled"`
	Dir       string             `toml:"dir"`
	Namespace string             `toml:"namespace"`
	Redis     *cache.RedisConfig `toml:"redis"`
}

// Keyer returns the cache keyer for this table.
func (c CacheConfig) Keyer() cache.Keyer {
	if c.Namespace == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.Namespace+":")
}

// ServerConfig is the [server] table.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LoadConfigFile reads and validates a TOML config file.
func LoadConfigFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	return cfg, nil
}

// ParseConfig decodes TOML config data. Unknown keys are rejected so typos
// do not silently fall back to defaults.
func ParseConfig(data []byte) (*FileConfig, error) {
	var cfg FileConfig
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges that TOML typing cannot express.
func (c *FileConfig) Validate() error {
	if n := len(c.Layout.Origin); n != 0 && n != 3 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout.origin needs 3 components, got %d", n)
	}
	if c.Layout.Scale != nil {
		if err := c.Layout.Scale.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "layout.scale")
		}
	}
	if c.Layout.Radius < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout.radius must be positive, got %v", c.Layout.Radius)
	}
	if err := ValidateFormats(c.Render.Formats); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render.formats")
	}
	if c.Render.Projection != "" {
		if err := ValidateProjection(c.Render.Projection); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render.projection")
		}
	}
	if c.Cache.Redis != nil && c.Cache.Redis.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis.addr is required")
	}
	return nil
}

// Apply copies file values into o wherever o still has its zero value, so
// explicit flags and request fields win over the file.
func (c *FileConfig) Apply(o *Options) {
	if o.Origin == ([3]float64{}) && len(c.Layout.Origin) == 3 {
		copy(o.Origin[:], c.Layout.Origin)
	}
	if o.Scale == nil && c.Layout.Scale != nil {
		scale := *c.Layout.Scale
		o.Scale = &scale
	}
	if o.Radius == 0 {
		o.Radius = c.Layout.Radius
	}
	if o.Centered == nil && c.Layout.Centered != nil {
		centered := *c.Layout.Centered
		o.Centered = &centered
	}
	if o.MaxNeurons == 0 {
		o.MaxNeurons = c.Layout.MaxNeurons
	}
	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), c.Render.Formats...)
	}
	if o.Projection == "" {
		o.Projection = c.Render.Projection
	}
	if o.MeshCells == 0 {
		o.MeshCells = c.Render.MeshCells
	}
	if !o.Detailed {
		o.Detailed = c.Render.Detailed
	}
	if o.Workers == 0 {
		o.Workers = c.Render.Workers
	}
}
