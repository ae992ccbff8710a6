package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/netblend/netblend/pkg/buildinfo"
	"github.com/netblend/netblend/pkg/cache"
	"github.com/netblend/netblend/pkg/observability"
	"github.com/netblend/netblend/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "netblend"

	// configEnv names the environment variable consulted when --config is unset.
	configEnv = "NETBLEND_CONFIG"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	out        io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "netblend lays out neural networks as 3D neuron scenes",
		Long: `netblend turns a neural network architecture into a 3D scene with one
sphere per neuron, laid out layer by layer and centered on the widest and
tallest layers. Scenes can be exported as JSON, STL meshes, 2D previews and
architecture diagrams.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			hooks := observability.NewLogHooks(c.Logger)
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "TOML config file (env "+configEnv+")")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Runner Factory
// =============================================================================

// loadConfig reads the --config file. Without one, an empty config is
// returned so callers can apply it unconditionally.
func (c *CLI) loadConfig() (*pipeline.FileConfig, error) {
	path := c.configPath
	if path == "" {
		path = os.Getenv(configEnv)
	}
	if path == "" {
		return &pipeline.FileConfig{}, nil
	}
	cfg, err := pipeline.LoadConfigFile(path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded config", "path", path)
	return cfg, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg *pipeline.FileConfig, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, cfg.Cache.Keyer(), c.Logger), nil
}

// newCache picks the cache backend: none, redis when configured, otherwise
// the file cache. An unreachable redis falls back to the file cache.
func (c *CLI) newCache(ctx context.Context, cfg pipeline.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Disabled {
		return cache.NewNullCache(), nil
	}
	if cfg.Redis != nil {
		rc, err := cache.NewRedisCache(ctx, *cfg.Redis)
		if err == nil {
			c.Logger.Debug("using redis cache", "addr", cfg.Redis.Addr)
			return rc, nil
		}
		c.Logger.Warn("redis cache unavailable, using file cache", "addr", cfg.Redis.Addr, "err", err)
	}

	dir := cfg.Dir
	if dir == "" {
		var err error
		if dir, err = cache.Dir(); err != nil {
			c.Logger.Debug("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}
