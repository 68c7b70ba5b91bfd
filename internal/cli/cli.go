// Package cli implements the qec command-line interface.
//
// The CLI wraps the surface-code pipeline: building syndrome-measurement
// circuits, simulating them with the stabilizer simulator, decoding shot
// strings into detection graphs, and rendering lattices and graphs with
// graphviz. Commands share a TOML configuration file and a file-backed
// result cache.
//
// # Commands
//
//   - lattice: Inspect a rotated surface-code lattice (text, DOT, SVG, PNG)
//   - build: Emit the syndrome-measurement circuit as OpenQASM 2.0
//   - simulate: Sample measurement shots from the stabilizer simulator
//   - decode: Convert shot strings into detection graphs
//   - run: Build, simulate, and decode in one step
//   - render: Render a detection graph file with graphviz
//   - serve: Start the HTTP decode service
//   - cache: Manage the local result cache
//
// All commands support --verbose (-v) for debug-level logging via
// charmbracelet/log.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hetenyib/qiskit-qec/pkg/buildinfo"
	"github.com/hetenyib/qiskit-qec/pkg/cache"
	"github.com/hetenyib/qiskit-qec/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "qec"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "qec",
		Short:        "qec builds and decodes rotated surface codes",
		Long:         `qec is a toolkit for the rotated surface code: it builds syndrome-measurement circuits, simulates them with a stabilizer simulator, and decodes measurement shots into detection graphs for matching decoders.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/qec/config.toml)")

	root.AddCommand(c.latticeCommand())
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.simulateCommand())
	root.AddCommand(c.decodeCommand())
	root.AddCommand(c.runCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config loads the TOML configuration once and memoizes it. A missing file
// yields the built-in defaults; a malformed file is reported and defaults
// are used so commands stay usable.
func (c *CLI) config() Config {
	if c.cfg != nil {
		return *c.cfg
	}
	cfg, err := LoadConfig(c.configPath)
	if err != nil {
		c.Logger.Warn("Ignoring config file", "err", err)
		cfg = DefaultConfig()
	}
	c.cfg = &cfg
	return cfg
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

// newCache builds the cache backend selected by the configuration. The
// file backend falls back to a null cache when no directory can be
// resolved, so commands never fail just because caching is unavailable.
func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg := c.config().Cache
	switch cfg.Backend {
	case cacheBackendNull:
		return cache.NewNullCache(), nil
	case cacheBackendRedis:
		return cache.NewRedisCache(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	default:
		dir := cfg.Dir
		if dir == "" {
			var err error
			dir, err = cacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
		}
		return cache.NewFileCache(dir)
	}
}

// cacheDir returns the cache directory using the XDG convention
// (~/.cache/qec/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
